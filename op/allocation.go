package op

import (
	"fmt"
	"strings"

	"github.com/gogpu/colorproc/shader"
)

var (
	unitMin = [4]float32{0, 0, 0, 0}
	unitMax = [4]float32{1, 1, 1, 1}
)

// AllocationNoOp changes no pixel; it marks the point of a pipeline where
// the signal occupies a declared range, so that the processor can cut the
// pipeline there.
type AllocationNoOp struct {
	allocation AllocationData
}

// CreateAllocationNoOp appends an allocation marker.
func CreateAllocationNoOp(seq *Sequence, data AllocationData) {
	seq.Append(&AllocationNoOp{allocation: data.Clone()})
}

// Apply implements Op.
func (o *AllocationNoOp) Apply([]float32, int) {}

// Clone implements Op.
func (o *AllocationNoOp) Clone() Op {
	return &AllocationNoOp{allocation: o.allocation.Clone()}
}

// IsNoOp implements Op.
func (o *AllocationNoOp) IsNoOp() bool { return true }

// SupportsGpuShader implements Op.
func (o *AllocationNoOp) SupportsGpuShader() bool { return true }

// DefinesAllocation implements Op.
func (o *AllocationNoOp) DefinesAllocation() bool { return true }

// Allocation implements Op.
func (o *AllocationNoOp) Allocation() AllocationData { return o.allocation.Clone() }

// WriteGpuShader implements Op. It writes nothing.
func (o *AllocationNoOp) WriteGpuShader(_ *strings.Builder, _ string, desc shader.Desc) error {
	if !desc.Language.Valid() {
		return fmt.Errorf("%w: %v", shader.ErrUnsupportedLanguage, desc.Language)
	}
	return nil
}

// CacheID implements Op.
func (o *AllocationNoOp) CacheID() string {
	return "<AllocationNoOp " + o.allocation.String() + ">"
}

// String implements Op.
func (o *AllocationNoOp) String() string {
	return "<AllocationNoOp " + o.allocation.String() + ">"
}

// CreateAllocationOps appends the ops that map the range declared by data
// onto [0,1] (forward) or back from [0,1] (inverse).
//
// A uniform allocation is one fit from [vars[0], vars[1]] (default [0,1]).
// An lg2 allocation is a base-2 log with offset vars[2] (default 0) followed
// by a fit from [vars[0], vars[1]] (default [-10, 6]); the inverse runs the
// inverse fit first. Alpha always maps [0,1] onto itself.
func CreateAllocationOps(seq *Sequence, data AllocationData, dir Direction) error {
	switch data.Allocation {
	case AllocationUniform:
		oldMin, oldMax := unitMin, unitMax
		if len(data.Vars) >= 2 {
			for i := 0; i < 3; i++ {
				oldMin[i] = data.Vars[0]
				oldMax[i] = data.Vars[1]
			}
		}
		return CreateFitOp(seq, oldMin, oldMax, unitMin, unitMax, dir)

	case AllocationLG2:
		oldMin := [4]float32{-10, -10, -10, 0}
		oldMax := [4]float32{6, 6, 6, 1}
		if len(data.Vars) >= 2 {
			for i := 0; i < 3; i++ {
				oldMin[i] = data.Vars[0]
				oldMax[i] = data.Vars[1]
			}
		}

		// out = k·log_base(m·x + b) + kb
		k := [3]float32{1, 1, 1}
		m := [3]float32{1, 1, 1}
		b := [3]float32{0, 0, 0}
		base := [3]float32{2, 2, 2}
		kb := [3]float32{0, 0, 0}
		if len(data.Vars) >= 3 {
			b = [3]float32{data.Vars[2], data.Vars[2], data.Vars[2]}
		}

		switch dir {
		case DirectionForward:
			if err := CreateLogOp(seq, k, m, b, base, kb, dir); err != nil {
				return err
			}
			return CreateFitOp(seq, oldMin, oldMax, unitMin, unitMax, dir)
		case DirectionInverse:
			if err := CreateFitOp(seq, oldMin, oldMax, unitMin, unitMax, dir); err != nil {
				return err
			}
			return CreateLogOp(seq, k, m, b, base, kb, dir)
		default:
			return fmt.Errorf("cannot build allocation ops: %w", ErrUnspecifiedDirection)
		}

	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedAllocation, data.Allocation)
	}
}
