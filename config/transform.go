package config

import (
	"fmt"

	"github.com/gogpu/colorproc/op"
)

// Transform is a declarative description of one or more operations.
// Transforms are built into ops by BuildOps.
type Transform interface {
	buildOps(seq *op.Sequence, cfg *Config, dir op.Direction) error
}

// MatrixTransform applies out = Matrix·in + Offset. Matrix is row-major.
type MatrixTransform struct {
	Matrix    [16]float32
	Offset    [4]float32
	Direction op.Direction
}

func (t *MatrixTransform) buildOps(seq *op.Sequence, _ *Config, dir op.Direction) error {
	return op.CreateMatrixOffsetOp(seq, t.Matrix, t.Offset, op.Combine(t.Direction, dir))
}

// FitTransform linearly maps [OldMin, OldMax] onto [NewMin, NewMax] per
// channel.
type FitTransform struct {
	OldMin, OldMax [4]float32
	NewMin, NewMax [4]float32
	Direction      op.Direction
}

func (t *FitTransform) buildOps(seq *op.Sequence, _ *Config, dir op.Direction) error {
	return op.CreateFitOp(seq, t.OldMin, t.OldMax, t.NewMin, t.NewMax, op.Combine(t.Direction, dir))
}

// LogTransform applies log_Base(in) to RGB.
type LogTransform struct {
	Base      float32
	Direction op.Direction
}

func (t *LogTransform) buildOps(seq *op.Sequence, _ *Config, dir op.Direction) error {
	one := [3]float32{1, 1, 1}
	base := [3]float32{t.Base, t.Base, t.Base}
	return op.CreateLogOp(seq, one, one, [3]float32{}, base, [3]float32{}, op.Combine(t.Direction, dir))
}

// Lut3DTransform maps RGB through an inline 3D LUT. Data holds 3·EdgeLen³
// values with red varying fastest.
type Lut3DTransform struct {
	EdgeLen   int
	Data      []float32
	Direction op.Direction
}

func (t *Lut3DTransform) buildOps(seq *op.Sequence, _ *Config, dir op.Direction) error {
	return op.CreateLut3DOp(seq, t.EdgeLen, t.Data, op.Combine(t.Direction, dir))
}

// AllocationTransform maps a declared range onto [0,1].
type AllocationTransform struct {
	Allocation op.Allocation
	Vars       []float32
	Direction  op.Direction
}

func (t *AllocationTransform) buildOps(seq *op.Sequence, _ *Config, dir op.Direction) error {
	data := op.AllocationData{Allocation: t.Allocation, Vars: t.Vars}
	return op.CreateAllocationOps(seq, data, op.Combine(t.Direction, dir))
}

// GroupTransform applies Transforms in order. Its inverse applies the
// inverse of each child in reverse order.
type GroupTransform struct {
	Transforms []Transform
	Direction  op.Direction
}

func (t *GroupTransform) buildOps(seq *op.Sequence, cfg *Config, dir op.Direction) error {
	d := op.Combine(t.Direction, dir)
	switch d {
	case op.DirectionForward:
		for _, child := range t.Transforms {
			if err := child.buildOps(seq, cfg, d); err != nil {
				return err
			}
		}
	case op.DirectionInverse:
		for i := len(t.Transforms) - 1; i >= 0; i-- {
			if err := t.Transforms[i].buildOps(seq, cfg, d); err != nil {
				return err
			}
		}
	default:
		return op.ErrUnspecifiedDirection
	}
	return nil
}

// ColorSpaceTransform converts from the color space named Src to the one
// named Dst.
type ColorSpaceTransform struct {
	Src, Dst  string
	Direction op.Direction
}

func (t *ColorSpaceTransform) buildOps(seq *op.Sequence, cfg *Config, dir op.Direction) error {
	src, dst := t.Src, t.Dst
	switch op.Combine(t.Direction, dir) {
	case op.DirectionForward:
	case op.DirectionInverse:
		src, dst = dst, src
	default:
		return op.ErrUnspecifiedDirection
	}
	srcCS, err := cfg.ColorSpace(src)
	if err != nil {
		return err
	}
	dstCS, err := cfg.ColorSpace(dst)
	if err != nil {
		return err
	}
	return BuildColorSpaceOps(seq, cfg, srcCS, dstCS)
}

// BuildOps appends the ops of t, applied in direction dir, to seq. On error
// seq may hold the ops built before the failure.
func BuildOps(seq *op.Sequence, cfg *Config, t Transform, dir op.Direction) error {
	if t == nil {
		return fmt.Errorf("config: nil transform")
	}
	return t.buildOps(seq, cfg, dir)
}

// BuildColorSpaceOps appends the ops converting src to dst: src to the
// reference space, then reference to dst. Each side is tagged with its color
// space's allocation. Converting a space to itself, or involving a data
// space, appends nothing.
func BuildColorSpaceOps(seq *op.Sequence, cfg *Config, src, dst *ColorSpace) error {
	if src == nil || dst == nil {
		return ErrNilColorSpace
	}
	if src.IsData || dst.IsData || src.Name == dst.Name {
		return nil
	}

	op.CreateAllocationNoOp(seq, src.allocationData())
	switch {
	case src.ToReference != nil:
		if err := BuildOps(seq, cfg, src.ToReference, op.DirectionForward); err != nil {
			return fmt.Errorf("config: %s to reference: %w", src.Name, err)
		}
	case src.FromReference != nil:
		if err := BuildOps(seq, cfg, src.FromReference, op.DirectionInverse); err != nil {
			return fmt.Errorf("config: %s to reference: %w", src.Name, err)
		}
	}

	switch {
	case dst.FromReference != nil:
		if err := BuildOps(seq, cfg, dst.FromReference, op.DirectionForward); err != nil {
			return fmt.Errorf("config: reference to %s: %w", dst.Name, err)
		}
	case dst.ToReference != nil:
		if err := BuildOps(seq, cfg, dst.ToReference, op.DirectionInverse); err != nil {
			return fmt.Errorf("config: reference to %s: %w", dst.Name, err)
		}
	}
	op.CreateAllocationNoOp(seq, dst.allocationData())
	return nil
}
