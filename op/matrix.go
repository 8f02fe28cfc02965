package op

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/colorproc/internal/cacheid"
	"github.com/gogpu/colorproc/shader"
)

var identityMat4 = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// MatrixOffsetOp computes out = M·in + offset on RGBA pixels, with M stored
// row-major.
type MatrixOffsetOp struct {
	m      f32.Mat4
	offset f32.Vec4
}

// CreateMatrixOffsetOp appends the op out = m·in + offset, or its inverse.
func CreateMatrixOffsetOp(seq *Sequence, m [16]float32, offset [4]float32, dir Direction) error {
	o, err := newMatrixOffsetOp(f32.Mat4(m), f32.Vec4(offset), dir)
	if err != nil {
		return err
	}
	seq.Append(o)
	return nil
}

// CreateFitOp appends the per-channel linear map taking [oldMin, oldMax]
// onto [newMin, newMax], or its inverse.
func CreateFitOp(seq *Sequence, oldMin, oldMax, newMin, newMax [4]float32, dir Direction) error {
	var m f32.Mat4
	var offset f32.Vec4
	for i := 0; i < 4; i++ {
		d := oldMax[i] - oldMin[i]
		if d == 0 {
			return fmt.Errorf("%w: channel %d [%g, %g]", ErrDegenerateFit, i, oldMin[i], oldMax[i])
		}
		scale := (newMax[i] - newMin[i]) / d
		m[5*i] = scale
		offset[i] = newMin[i] - scale*oldMin[i]
	}
	o, err := newMatrixOffsetOp(m, offset, dir)
	if err != nil {
		return err
	}
	seq.Append(o)
	return nil
}

// CreateScaleOp appends a per-channel scale, or its inverse.
func CreateScaleOp(seq *Sequence, scale [4]float32, dir Direction) error {
	var m f32.Mat4
	for i := 0; i < 4; i++ {
		m[5*i] = scale[i]
	}
	o, err := newMatrixOffsetOp(m, f32.Vec4{}, dir)
	if err != nil {
		return err
	}
	seq.Append(o)
	return nil
}

func newMatrixOffsetOp(m f32.Mat4, offset f32.Vec4, dir Direction) (*MatrixOffsetOp, error) {
	switch dir {
	case DirectionForward:
		return &MatrixOffsetOp{m: m, offset: offset}, nil
	case DirectionInverse:
		inv, ok := invertMat4(m)
		if !ok {
			return nil, ErrSingularMatrix
		}
		// x = M⁻¹·(y - o) = M⁻¹·y - M⁻¹·o
		o := mulMat4Vec4(inv, offset)
		for i := range o {
			o[i] = -o[i]
		}
		return &MatrixOffsetOp{m: inv, offset: o}, nil
	default:
		return nil, ErrUnspecifiedDirection
	}
}

// Matrix returns the row-major matrix.
func (o *MatrixOffsetOp) Matrix() [16]float32 { return o.m }

// Offset returns the offset vector.
func (o *MatrixOffsetOp) Offset() [4]float32 { return o.offset }

// Apply implements Op.
func (o *MatrixOffsetOp) Apply(rgba []float32, numPixels int) {
	m := &o.m
	off := &o.offset
	for i := 0; i < numPixels; i++ {
		p := rgba[4*i : 4*i+4 : 4*i+4]
		r, g, b, a := p[0], p[1], p[2], p[3]
		p[0] = m[0]*r + m[1]*g + m[2]*b + m[3]*a + off[0]
		p[1] = m[4]*r + m[5]*g + m[6]*b + m[7]*a + off[1]
		p[2] = m[8]*r + m[9]*g + m[10]*b + m[11]*a + off[2]
		p[3] = m[12]*r + m[13]*g + m[14]*b + m[15]*a + off[3]
	}
}

// Clone implements Op.
func (o *MatrixOffsetOp) Clone() Op {
	c := *o
	return &c
}

// IsNoOp implements Op.
func (o *MatrixOffsetOp) IsNoOp() bool {
	return o.m == identityMat4 && o.offset == f32.Vec4{}
}

// SupportsGpuShader implements Op.
func (o *MatrixOffsetOp) SupportsGpuShader() bool { return true }

// DefinesAllocation implements Op.
func (o *MatrixOffsetOp) DefinesAllocation() bool { return false }

// Allocation implements Op.
func (o *MatrixOffsetOp) Allocation() AllocationData { return AllocationData{} }

// WriteGpuShader implements Op.
func (o *MatrixOffsetOp) WriteGpuShader(sb *strings.Builder, pixelName string, desc shader.Desc) error {
	if !desc.Language.Valid() {
		return fmt.Errorf("%w: %v", shader.ErrUnsupportedLanguage, desc.Language)
	}
	if o.m != identityMat4 {
		expr, err := shader.MulMat4(desc.Language, o.m, pixelName)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s = %s;\n", pixelName, expr)
	}
	if o.offset != (f32.Vec4{}) {
		vec, err := shader.Vec(desc.Language, o.offset[:]...)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s = %s + %s;\n", pixelName, vec, pixelName)
	}
	return nil
}

// CacheID implements Op.
func (o *MatrixOffsetOp) CacheID() string {
	vals := make([]float32, 0, 20)
	vals = append(vals, o.m[:]...)
	vals = append(vals, o.offset[:]...)
	return "<MatrixOffsetOp " + cacheid.HashFloats(vals...) + ">"
}

// String implements Op.
func (o *MatrixOffsetOp) String() string {
	return fmt.Sprintf("<MatrixOffsetOp m=%v offset=%v>", o.m, o.offset)
}

// Then returns a new op equivalent to applying o followed by next.
func (o *MatrixOffsetOp) Then(next *MatrixOffsetOp) *MatrixOffsetOp {
	// next.M·(o.M·x + o.off) + next.off
	out := &MatrixOffsetOp{m: mulMat4(next.m, o.m)}
	mo := mulMat4Vec4(next.m, o.offset)
	for i := range out.offset {
		out.offset[i] = mo[i] + next.offset[i]
	}
	return out
}

func mulMat4(a, b f32.Mat4) f32.Mat4 {
	var out f32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[4*r+k] * b[4*k+c]
			}
			out[4*r+c] = sum
		}
	}
	return out
}

func mulMat4Vec4(m f32.Mat4, v f32.Vec4) f32.Vec4 {
	var out f32.Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[4*r]*v[0] + m[4*r+1]*v[1] + m[4*r+2]*v[2] + m[4*r+3]*v[3]
	}
	return out
}

// invertMat4 inverts m by Gauss-Jordan elimination with partial pivoting,
// computed in float64.
func invertMat4(m f32.Mat4) (f32.Mat4, bool) {
	var a [4][8]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r][c] = float64(m[4*r+c])
		}
		a[r][4+r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return f32.Mat4{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		inv := 1 / a[col][col]
		for c := 0; c < 8; c++ {
			a[col][c] *= inv
		}
		for r := 0; r < 4; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for c := 0; c < 8; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	var out f32.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*r+c] = float32(a[r][4+c])
		}
	}
	return out, true
}
