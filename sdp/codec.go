// SPDX-License-Identifier: MIT

package sdp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvsdp/matrix"
)

// Format selects the on-disk encoding of problem and result files.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension; anything other than
// .json is read as YAML (a superset of JSON).
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// MatrixFile is the wire form of one matrix: either dense rows or sparse
// 0-based triplets sized by the owning block. Sym mirrors every triplet.
type MatrixFile struct {
	Dense  [][]float64   `json:"dense,omitempty" yaml:"dense,omitempty"`
	Sparse []TripletFile `json:"sparse,omitempty" yaml:"sparse,omitempty"`
	Sym    bool          `json:"sym,omitempty" yaml:"sym,omitempty"`
}

// TripletFile is one sparse entry.
type TripletFile struct {
	I int     `json:"i" yaml:"i"`
	J int     `json:"j" yaml:"j"`
	V float64 `json:"v" yaml:"v"`
}

// TermFile is the coefficient matrix of one constraint on one block (1-based).
type TermFile struct {
	Block  int        `json:"block" yaml:"block"`
	Matrix MatrixFile `json:"matrix" yaml:"matrix"`
}

// ConstraintFile is one equality constraint Σ ⟨A, X⟩ = B.
type ConstraintFile struct {
	B     float64    `json:"b" yaml:"b"`
	Terms []TermFile `json:"a" yaml:"a"`
}

// WarmStartFile is the wire form of WarmStart.
type WarmStartFile struct {
	X []MatrixFile `json:"x" yaml:"x"`
	Y []float64    `json:"y" yaml:"y"`
	Z []MatrixFile `json:"z" yaml:"z"`
}

// ProblemFile is the wire form of a problem plus optional warm start.
type ProblemFile struct {
	Blocks      []int            `json:"blocks" yaml:"blocks"`
	C           []MatrixFile     `json:"c" yaml:"c"`
	Constraints []ConstraintFile `json:"constraints" yaml:"constraints"`
	WarmStart   *WarmStartFile   `json:"warm_start,omitempty" yaml:"warm_start,omitempty"`
}

// ResultFile is the wire form of Result.
type ResultFile struct {
	Termination     int           `json:"termination" yaml:"termination"`
	TerminationName string        `json:"termination_name" yaml:"termination_name"`
	Backend         string        `json:"backend" yaml:"backend"`
	Objective       [2]float64    `json:"objective" yaml:"objective"`
	Iterations      int           `json:"iterations" yaml:"iterations"`
	Native          string        `json:"native" yaml:"native"`
	X               [][][]float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y               []float64     `json:"y,omitempty" yaml:"y,omitempty"`
	Z               [][][]float64 `json:"z,omitempty" yaml:"z,omitempty"`
	Report          *Report       `json:"report,omitempty" yaml:"report,omitempty"`
}

// decode reads r in format f into v.
func decode(r io.Reader, f Format, v any) error {
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(v)
	default:
		return fmt.Errorf("format %q: %w", f, ErrBadFormat)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return nil
}

// encode writes v to w in format f.
func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q: %w", f, ErrBadFormat)
	}
}

// DecodeProblem reads a problem file. The problem is not validated; the
// returned warm start is nil when the file has none.
// Errors: ErrBadFormat for syntax errors, unknown fields or out-of-range
// sparse coordinates.
func DecodeProblem(r io.Reader, f Format) (*Problem, *WarmStart, error) {
	var pf ProblemFile
	if err := decode(r, f, &pf); err != nil {
		return nil, nil, err
	}
	return pf.ToProblem()
}

// ReadProblemFile opens path and decodes it using FormatFromPath.
func ReadProblemFile(path string) (*Problem, *WarmStart, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	return DecodeProblem(fh, FormatFromPath(path))
}

// ToProblem converts the wire form into a Problem and optional WarmStart.
func (pf *ProblemFile) ToProblem() (*Problem, *WarmStart, error) {
	p := &Problem{
		Blocks: make([]Block, len(pf.Blocks)),
		A:      make(map[Entry]matrix.Matrix),
		C:      make([]matrix.Matrix, len(pf.C)),
		B:      make([]float64, len(pf.Constraints)),
	}
	for j, s := range pf.Blocks {
		p.Blocks[j] = Block{Cone: ConePSD, Size: s}
	}
	size := func(j int) int {
		if j >= 0 && j < len(pf.Blocks) {
			return pf.Blocks[j]
		}
		return 0
	}

	var err error
	for j, mf := range pf.C {
		if p.C[j], err = mf.ToMatrix(size(j)); err != nil {
			return nil, nil, fmt.Errorf("c[%d]: %w", j+1, err)
		}
	}
	for i, cf := range pf.Constraints {
		p.B[i] = cf.B
		for _, t := range cf.Terms {
			a, err := t.Matrix.ToMatrix(size(t.Block - 1))
			if err != nil {
				return nil, nil, fmt.Errorf("constraint %d block %d: %w", i+1, t.Block, err)
			}
			if err = p.addTerm(Entry{Constraint: i + 1, Block: t.Block}, a); err != nil {
				return nil, nil, fmt.Errorf("constraint %d: %w", i+1, err)
			}
		}
	}

	if pf.WarmStart == nil {
		return p, nil, nil
	}
	ws := &WarmStart{
		X: make([]matrix.Matrix, len(pf.WarmStart.X)),
		Y: append([]float64(nil), pf.WarmStart.Y...),
		Z: make([]matrix.Matrix, len(pf.WarmStart.Z)),
	}
	for j, mf := range pf.WarmStart.X {
		if ws.X[j], err = mf.ToMatrix(size(j)); err != nil {
			return nil, nil, fmt.Errorf("warm_start.x[%d]: %w", j+1, err)
		}
	}
	for j, mf := range pf.WarmStart.Z {
		if ws.Z[j], err = mf.ToMatrix(size(j)); err != nil {
			return nil, nil, fmt.Errorf("warm_start.z[%d]: %w", j+1, err)
		}
	}

	return p, ws, nil
}

// ToMatrix builds the matrix. Dense data keeps its own shape (Validate checks
// it); sparse data needs a positive size from the owning block.
func (mf MatrixFile) ToMatrix(size int) (matrix.Matrix, error) {
	if len(mf.Dense) > 0 {
		if len(mf.Sparse) > 0 {
			return nil, fmt.Errorf("both dense and sparse given: %w", ErrBadFormat)
		}
		d, err := matrix.NewDenseFrom(mf.Dense)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		return d, nil
	}
	s, err := matrix.NewSparse(size, size)
	if err != nil {
		return nil, fmt.Errorf("sparse matrix for block of size %d: %w", size, ErrBadFormat)
	}
	for _, tr := range mf.Sparse {
		set := s.Set
		if mf.Sym {
			set = s.SetSym
		}
		if err = set(tr.I, tr.J, tr.V); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
	}
	return s, nil
}

// DenseFile renders any matrix as dense rows.
func DenseFile(m matrix.Matrix) [][]float64 {
	d, err := matrix.ToDense(m)
	if err != nil {
		return nil
	}
	return d.ToRows()
}

// ToFile converts r into its wire form; rep may be nil.
func (r Result) ToFile(rep *Report) ResultFile {
	out := ResultFile{
		Termination:     int(r.Termination),
		TerminationName: r.Termination.String(),
		Backend:         string(r.Backend),
		Objective:       r.Objective,
		Iterations:      r.Iterations,
		Native:          r.Native,
		Y:               r.Y,
		Report:          rep,
	}
	for _, x := range r.X {
		out.X = append(out.X, DenseFile(x))
	}
	for _, z := range r.Z {
		out.Z = append(out.Z, DenseFile(z))
	}
	return out
}

// EncodeResult writes r (and the optional residual report) to w.
func EncodeResult(w io.Writer, f Format, r Result, rep *Report) error {
	return encode(w, f, r.ToFile(rep))
}

// EncodeProblem writes p and an optional warm start in dense form.
func EncodeProblem(w io.Writer, f Format, p *Problem, ws *WarmStart) error {
	pf := ProblemFile{Blocks: p.BlockSizes()}
	for _, c := range p.C {
		pf.C = append(pf.C, MatrixFile{Dense: DenseFile(c)})
	}
	pf.Constraints = make([]ConstraintFile, p.NumConstraints())
	for i := range pf.Constraints {
		pf.Constraints[i].B = p.B[i]
	}
	for _, e := range p.Entries() {
		if e.Constraint < 1 || e.Constraint > len(pf.Constraints) {
			return fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, ErrSizeMismatch)
		}
		c := &pf.Constraints[e.Constraint-1]
		c.Terms = append(c.Terms, TermFile{Block: e.Block, Matrix: MatrixFile{Dense: DenseFile(p.A[e])}})
	}
	if ws != nil {
		wf := &WarmStartFile{Y: ws.Y}
		for _, x := range ws.X {
			wf.X = append(wf.X, MatrixFile{Dense: DenseFile(x)})
		}
		for _, z := range ws.Z {
			wf.Z = append(wf.Z, MatrixFile{Dense: DenseFile(z)})
		}
		pf.WarmStart = wf
	}
	return encode(w, f, pf)
}
