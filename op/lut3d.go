package op

import (
	"fmt"
	"strings"

	"github.com/gogpu/colorproc/internal/cacheid"
	"github.com/gogpu/colorproc/internal/lattice"
	"github.com/gogpu/colorproc/shader"
)

// Lut3DOp maps RGB through a trilinearly interpolated 3D lookup table.
// Inputs are clamped to [0,1]; alpha is left unchanged. The op cannot be
// written as shader text, which is what forces the processor to bake a
// lattice.
type Lut3DOp struct {
	edge int
	data []float32
}

// CreateLut3DOp appends a 3D LUT op. data holds 3·edge³ values with red
// varying fastest and is copied.
func CreateLut3DOp(seq *Sequence, edge int, data []float32, dir Direction) error {
	switch dir {
	case DirectionForward:
	case DirectionInverse:
		return fmt.Errorf("%w: 3D LUT", ErrInverseUnsupported)
	default:
		return ErrUnspecifiedDirection
	}
	if edge < 2 || len(data) != 3*edge*edge*edge {
		return fmt.Errorf("%w: edge %d with %d values", ErrInvalidLut3D, edge, len(data))
	}
	seq.Append(&Lut3DOp{edge: edge, data: append([]float32(nil), data...)})
	return nil
}

// EdgeLen returns the lattice edge length.
func (o *Lut3DOp) EdgeLen() int { return o.edge }

// Apply implements Op.
func (o *Lut3DOp) Apply(rgba []float32, numPixels int) {
	for i := 0; i < numPixels; i++ {
		p := rgba[4*i : 4*i+3 : 4*i+3]
		out := lattice.Sample(o.data, o.edge, [3]float32{p[0], p[1], p[2]})
		p[0], p[1], p[2] = out[0], out[1], out[2]
	}
}

// Clone implements Op.
func (o *Lut3DOp) Clone() Op {
	return &Lut3DOp{edge: o.edge, data: append([]float32(nil), o.data...)}
}

// IsNoOp implements Op.
func (o *Lut3DOp) IsNoOp() bool { return false }

// SupportsGpuShader implements Op.
func (o *Lut3DOp) SupportsGpuShader() bool { return false }

// DefinesAllocation implements Op.
func (o *Lut3DOp) DefinesAllocation() bool { return false }

// Allocation implements Op.
func (o *Lut3DOp) Allocation() AllocationData { return AllocationData{} }

// WriteGpuShader implements Op. It always fails.
func (o *Lut3DOp) WriteGpuShader(*strings.Builder, string, shader.Desc) error {
	return fmt.Errorf("%w: %s", ErrGpuUnsupported, o)
}

// CacheID implements Op.
func (o *Lut3DOp) CacheID() string {
	return fmt.Sprintf("<Lut3DOp %d %s>", o.edge, cacheid.HashFloats(o.data...))
}

// String implements Op.
func (o *Lut3DOp) String() string {
	return fmt.Sprintf("<Lut3DOp edge=%d>", o.edge)
}
