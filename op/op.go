// Package op defines the atomic color operations the processor chains
// together, the Sequence that holds them, and the allocation data that tags
// partition seams.
//
// Every Op works on interleaved RGBA float32 pixels. Apply must be a pure
// function of its buffer: an Op keeps no state between calls, so a finalized
// sequence can be applied from several goroutines on disjoint buffers.
package op

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/colorproc/shader"
)

// Errors returned by operation constructors.
var (
	// ErrUnspecifiedDirection is returned when a constructor is asked to
	// build an operation with DirectionUnknown.
	ErrUnspecifiedDirection = errors.New("op: unspecified transform direction")

	// ErrUnsupportedAllocation is returned for an allocation kind other
	// than AllocationUniform or AllocationLG2.
	ErrUnsupportedAllocation = errors.New("op: unsupported allocation kind")

	// ErrSingularMatrix is returned when the inverse of a non-invertible
	// matrix is requested.
	ErrSingularMatrix = errors.New("op: matrix is not invertible")

	// ErrDegenerateFit is returned when a fit range has equal bounds.
	ErrDegenerateFit = errors.New("op: fit range max equals min")

	// ErrInvalidLog is returned for log parameters with no defined curve.
	ErrInvalidLog = errors.New("op: invalid log parameters")

	// ErrInvalidLut3D is returned when 3D LUT data does not match its edge.
	ErrInvalidLut3D = errors.New("op: invalid 3D LUT")

	// ErrInverseUnsupported is returned when an operation has no inverse.
	ErrInverseUnsupported = errors.New("op: inverse direction not supported")

	// ErrGpuUnsupported is returned by WriteGpuShader on operations that
	// cannot be expressed as shader text.
	ErrGpuUnsupported = errors.New("op: operation does not support gpu shader text")
)

// Direction selects whether an operation applies its transform or the
// exact inverse.
type Direction uint8

const (
	// DirectionUnknown is the zero value. Constructors reject it.
	DirectionUnknown Direction = iota
	// DirectionForward applies the transform as declared.
	DirectionForward
	// DirectionInverse applies the inverse transform.
	DirectionInverse
)

// String returns "forward", "inverse" or "unknown".
func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionInverse:
		return "inverse"
	default:
		return "unknown"
	}
}

// Inverse returns the opposite direction. DirectionUnknown stays unknown.
func (d Direction) Inverse() Direction {
	switch d {
	case DirectionForward:
		return DirectionInverse
	case DirectionInverse:
		return DirectionForward
	default:
		return DirectionUnknown
	}
}

// Combine composes a transform's own direction with a requested direction.
// An unknown transform direction counts as forward; an unknown requested
// direction yields DirectionUnknown.
func Combine(own, requested Direction) Direction {
	if requested == DirectionUnknown {
		return DirectionUnknown
	}
	if own == DirectionInverse {
		return requested.Inverse()
	}
	return requested
}

// ParseDirection parses "forward" or "inverse". The empty string is forward.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return DirectionForward, nil
	case "inverse":
		return DirectionInverse, nil
	}
	return DirectionUnknown, fmt.Errorf("%w: %q", ErrUnspecifiedDirection, s)
}

// Allocation is the mapping kind of a declared numeric working range.
type Allocation uint8

const (
	// AllocationUniform is a linear range. It is the zero value.
	AllocationUniform Allocation = iota
	// AllocationLG2 is a base-2 logarithmic range.
	AllocationLG2
)

// String returns "uniform", "lg2", or a numeric form for unknown kinds.
func (a Allocation) String() string {
	switch a {
	case AllocationUniform:
		return "uniform"
	case AllocationLG2:
		return "lg2"
	default:
		return fmt.Sprintf("Allocation(%d)", uint8(a))
	}
}

// ParseAllocation parses "uniform" or "lg2". The empty string is uniform.
func ParseAllocation(s string) (Allocation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform":
		return AllocationUniform, nil
	case "lg2":
		return AllocationLG2, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAllocation, s)
}

// AllocationData declares the numeric range a signal occupies at some point
// of a pipeline. Vars holds up to three values: range min, range max and,
// for AllocationLG2, the log offset. The zero value is a uniform [0,1]
// range, meaning no allocation was declared.
type AllocationData struct {
	Allocation Allocation
	Vars       []float32
}

// Clone returns a copy that does not share Vars.
func (a AllocationData) Clone() AllocationData {
	out := AllocationData{Allocation: a.Allocation}
	if a.Vars != nil {
		out.Vars = append([]float32(nil), a.Vars...)
	}
	return out
}

// String returns a stable textual form such as "lg2 -8.0 5.0 0.003".
func (a AllocationData) String() string {
	var sb strings.Builder
	sb.WriteString(a.Allocation.String())
	for _, v := range a.Vars {
		sb.WriteByte(' ')
		sb.WriteString(shader.Float(v))
	}
	return sb.String()
}

// Op is one chainable color transform step.
type Op interface {
	// Apply transforms numPixels interleaved RGBA pixels of rgba in place.
	Apply(rgba []float32, numPixels int)

	// Clone returns an independent copy with the same CacheID.
	Clone() Op

	// IsNoOp reports whether Apply leaves every pixel unchanged.
	IsNoOp() bool

	// SupportsGpuShader reports whether WriteGpuShader can express the op.
	SupportsGpuShader() bool

	// DefinesAllocation reports whether Allocation is meaningful.
	DefinesAllocation() bool

	// Allocation returns the range the signal occupies at this op.
	Allocation() AllocationData

	// WriteGpuShader appends statements transforming pixelName.
	WriteGpuShader(sb *strings.Builder, pixelName string, desc shader.Desc) error

	// CacheID returns a stable identifier of the op's behaviour.
	CacheID() string

	// String returns a short description for diagnostics.
	String() string
}
