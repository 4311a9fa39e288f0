// SPDX-License-Identifier: MIT

// Package server exposes a Dispatcher over HTTP.
//
//	GET  /health
//	GET  /v1/backends
//	POST /v1/solve?backend=<family>   body: problem file (JSON, or YAML by Content-Type)
//	GET  /metrics                     Prometheus exposition
//
// A solve response always carries the canonical result; the backend's
// termination is part of the body, not the HTTP status. Non-2xx statuses are
// reserved for requests that never reached a backend.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/katalvlaran/lvsdp/config"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/solver"
)

// ErrProblemTooLarge rejects an upload whose blocks exceed the configured
// side length.
var ErrProblemTooLarge = errors.New("server: problem exceeds size limit")

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Solver is the part of solver.Dispatcher the server uses.
type Solver interface {
	SolveContext(ctx context.Context, p *sdp.Problem, ws *sdp.WarmStart, selector sdp.Family) (sdp.Result, error)
	Backends() []solver.BackendInfo
}

// SolveResponse is the body of a successful POST /v1/solve.
type SolveResponse struct {
	RequestID string         `json:"request_id"`
	Result    sdp.ResultFile `json:"result"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// ServiceName names the server span source.
const ServiceName = "lvsdp"

// New returns the router. Request spans started by otelgin become the parents
// of the dispatcher's solve spans.
func New(s Solver, log *slog.Logger, cfg config.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(ServiceName), requestLog(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/backends", HandleBackends(s))
		v1.POST("/solve", HandleSolve(s, cfg))
	}
	return router
}

// Run serves router on cfg.Addr until ctx is done, then shuts down with a
// grace period.
func Run(ctx context.Context, router http.Handler, cfg config.ServerConfig, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// HandleBackends lists the registered backends.
func HandleBackends(s Solver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Backends())
	}
}

// HandleSolve decodes a problem file, solves it and returns the result with
// its residual report. Bodies above cfg.MaxBodyBytes and problems with a block
// above cfg.MaxBlockSize are rejected with 413 before any validation.
func HandleSolve(s Solver, cfg config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString(requestIDKey)

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxBodyBytes))
		if err != nil {
			fail(c, id, err)
			return
		}
		format := sdp.FormatJSON
		if strings.Contains(c.ContentType(), "yaml") {
			format = sdp.FormatYAML
		}
		p, ws, err := sdp.DecodeProblem(bytes.NewReader(body), format)
		if err != nil {
			fail(c, id, err)
			return
		}
		if err := checkSize(p, cfg.MaxBlockSize); err != nil {
			fail(c, id, err)
			return
		}

		res, err := s.SolveContext(c.Request.Context(), p, ws, sdp.Family(c.Query("backend")))
		if err != nil {
			fail(c, id, err)
			return
		}
		var rep *sdp.Report
		if res.HasSolution() {
			if r, err := sdp.Residuals(p, res); err == nil {
				rep = &r
			}
		}
		c.JSON(http.StatusOK, SolveResponse{RequestID: id, Result: res.ToFile(rep)})
	}
}

func checkSize(p *sdp.Problem, maxBlock int) error {
	for j, b := range p.Blocks {
		if b.Size > maxBlock {
			return fmt.Errorf("block %d: size %d above %d: %w", j+1, b.Size, maxBlock, ErrProblemTooLarge)
		}
	}
	return nil
}

// StatusFor maps a rejected request onto an HTTP status.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, ErrProblemTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, sdp.ErrBadFormat), errors.Is(err, sdp.ErrUnknownBackend):
		return http.StatusBadRequest
	case errors.Is(err, sdp.ErrShapeMismatch),
		errors.Is(err, sdp.ErrSizeMismatch),
		errors.Is(err, sdp.ErrAsymmetry),
		errors.Is(err, sdp.ErrNonFinite),
		errors.Is(err, sdp.ErrBadWarmStart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, id string, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), ErrorResponse{RequestID: id, Error: err.Error()})
}

const requestIDKey = "request_id"

// requestLog assigns a request id (or keeps the caller's) and logs one line
// per request.
func requestLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			log.Warn("request rejected", append(attrs, "error", c.Errors.Last().Err)...)
			return
		}
		log.Info("request", attrs...)
	}
}
