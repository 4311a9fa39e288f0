// SPDX-License-Identifier: MIT

// Package solver is the single entry point for solving block-diagonal SDPs.
//
// A Dispatcher owns one adapter per backend family and a configuration
// snapshot. Solve validates the problem, resolves the backend selector,
// runs the adapter's Prepare → Invoke → Postprocess pipeline and maps the
// backend's native status onto sdp.Termination:
//
//	d, _ := solver.New()
//	res, err := d.Solve(p, nil, sdp.FamilyPrimal)
//	if err != nil {
//		// validation error or unknown backend; the backend was not called
//	}
//	switch res.Termination {
//	case sdp.Optimal:
//		...
//	}
//
// Only validation errors and sdp.ErrUnknownBackend are returned as errors.
// Everything a backend reports, including its own failures, arrives as a
// Result; a failed backend run is sdp.Indeterminate with Native set to the
// failure text.
//
// Calls are synchronous and hold no lock while a backend runs; distinct
// problems may be solved concurrently on one Dispatcher.
package solver
