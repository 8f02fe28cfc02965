package colorproc

import (
	"errors"

	"github.com/gogpu/colorproc/op"
	"github.com/gogpu/colorproc/shader"
)

// Errors returned by Processor methods. Use errors.Is to match them; most
// are wrapped with context.
var (
	// ErrUnsupportedAllocation is returned when a partition seam carries an
	// allocation kind other than uniform or lg2.
	ErrUnsupportedAllocation = op.ErrUnsupportedAllocation

	// ErrUnspecifiedDirection is returned when allocation ops or a transform
	// are built without a direction.
	ErrUnspecifiedDirection = op.ErrUnspecifiedDirection

	// ErrUnsupportedShaderLanguage is returned for a shader descriptor whose
	// dialect has no generator.
	ErrUnsupportedShaderLanguage = shader.ErrUnsupportedLanguage

	// ErrNullImageBuffer is returned by Apply when an image reports pixels
	// but has no backing storage.
	ErrNullImageBuffer = errors.New("colorproc: cannot apply transform, null image buffer")

	// ErrImageBufferSize is returned by Apply when a buffer is shorter than
	// its declared dimensions require.
	ErrImageBufferSize = errors.New("colorproc: image buffer too small for its dimensions")

	// ErrUnsupportedImage is returned by Apply for an ImageDesc it cannot
	// iterate.
	ErrUnsupportedImage = errors.New("colorproc: unsupported image description")

	// ErrFinalized is returned when a finalized processor is modified.
	ErrFinalized = errors.New("colorproc: processor already finalized")

	// ErrNotFinalized is returned by GPU queries before Finalize.
	ErrNotFinalized = errors.New("colorproc: processor not finalized")

	// ErrInvalidEdgeLen is returned for a non-positive 3D LUT edge length.
	ErrInvalidEdgeLen = errors.New("colorproc: 3D LUT edge length must be positive")

	// ErrLut3DBufferSize is returned when a 3D LUT output buffer holds fewer
	// than 3·edge³ values.
	ErrLut3DBufferSize = errors.New("colorproc: 3D LUT buffer too small")
)
