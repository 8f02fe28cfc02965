package colorproc

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/colorproc/config"
	"github.com/gogpu/colorproc/lutcache"
	"github.com/gogpu/colorproc/op"
	"github.com/gogpu/colorproc/shader"
)

// GpuShaderDesc configures generated shader text and the baked 3D LUT.
type GpuShaderDesc = shader.Desc

// Processor evaluates a chain of color operations on the CPU and exposes
// the same chain as shader text plus a baked 3D LUT.
//
// A Processor is filled by AddColorSpaceConversion and AddTransform, then
// sealed by one call to Finalize. After Finalize the CPU methods only read
// the operation chain and may run concurrently on disjoint buffers; the GPU
// methods are safe for concurrent use.
type Processor struct {
	cpuOps op.Sequence

	// GPU path: gpuPre as shader text, gpuLattice baked into a 3D LUT,
	// gpuPost as shader text.
	gpuPre     op.Sequence
	gpuLattice op.Sequence
	gpuPost    op.Sequence

	finalized bool
	lutCache  *lutcache.Cache

	// memo holds the last generated artifacts per descriptor.
	memoMu    sync.Mutex
	shaderFor *GpuShaderDesc
	shaderTxt string
	idFor     *GpuShaderDesc
	lutID     string
}

// NewProcessor returns an empty processor.
func NewProcessor(opts ...Option) *Processor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Processor{lutCache: o.lutCache}
}

// NewColorSpaceProcessor returns a finalized processor converting src to dst.
func NewColorSpaceProcessor(cfg *config.Config, src, dst *config.ColorSpace, opts ...Option) (*Processor, error) {
	p := NewProcessor(opts...)
	if err := p.AddColorSpaceConversion(cfg, src, dst); err != nil {
		return nil, err
	}
	if err := p.Finalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewTransformProcessor returns a finalized processor applying t in
// direction dir.
func NewTransformProcessor(cfg *config.Config, t config.Transform, dir op.Direction, opts ...Option) (*Processor, error) {
	p := NewProcessor(opts...)
	if err := p.AddTransform(cfg, t, dir); err != nil {
		return nil, err
	}
	if err := p.Finalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// AddColorSpaceConversion appends the ops converting src to dst. It returns
// ErrFinalized after Finalize.
func (p *Processor) AddColorSpaceConversion(cfg *config.Config, src, dst *config.ColorSpace) error {
	if p.finalized {
		return ErrFinalized
	}
	return config.BuildColorSpaceOps(&p.cpuOps, cfg, src, dst)
}

// AddTransform appends the ops of t applied in direction dir. It returns
// ErrFinalized after Finalize.
func (p *Processor) AddTransform(cfg *config.Config, t config.Transform, dir op.Direction) error {
	if p.finalized {
		return ErrFinalized
	}
	return config.BuildOps(&p.cpuOps, cfg, t, dir)
}

// Finalize partitions the chain for the GPU path and optimizes all four
// sequences. It must be called exactly once; later calls return
// ErrFinalized. Finalize must not run concurrently with any other method.
//
// The chain is split as pre (shader text), lattice (baked 3D LUT) and post
// (shader text). The lattice starts at the nearest op declaring an
// allocation; a forward allocation remap ends pre and the matching inverse
// starts the lattice, so the seam does not change the result.
func (p *Processor) Finalize() error {
	if p.finalized {
		return ErrFinalized
	}

	var pre, lattice, post op.Sequence

	start, end := gpuUnsupportedIndexRange(p.cpuOps)
	if start == -1 && end == -1 {
		pre.AppendClones(p.cpuOps)
	} else {
		pre = p.cpuOps.CloneRange(0, start)

		allocation, declared := allocationAt(p.cpuOps, start)
		if !declared {
			Logger().Warn("colorproc: lattice start declares no allocation, using identity",
				slog.Int("start", start))
		}
		if err := op.CreateAllocationOps(&pre, allocation, op.DirectionForward); err != nil {
			return fmt.Errorf("colorproc: gpu allocation: %w", err)
		}
		if err := op.CreateAllocationOps(&lattice, allocation, op.DirectionInverse); err != nil {
			return fmt.Errorf("colorproc: gpu allocation: %w", err)
		}

		lattice.AppendClones(p.cpuOps[start : end+1])
		post = p.cpuOps.CloneRange(end+1, len(p.cpuOps))
	}

	p.gpuPre = op.Finalize(pre)
	p.gpuLattice = op.Finalize(lattice)
	p.gpuPost = op.Finalize(post)
	p.cpuOps = op.Finalize(p.cpuOps)
	p.finalized = true

	log := Logger()
	log.Debug("colorproc: finalized",
		slog.Int("lattice_start", start),
		slog.Int("lattice_end", end),
		slog.Int("cpu_ops", len(p.cpuOps)),
		slog.Int("gpu_pre_ops", len(p.gpuPre)),
		slog.Int("gpu_lattice_ops", len(p.gpuLattice)),
		slog.Int("gpu_post_ops", len(p.gpuPost)))
	log.Debug("colorproc: cpu ops", slog.String("ops", p.cpuOps.String()))
	log.Debug("colorproc: gpu pre ops", slog.String("ops", p.gpuPre.String()))
	log.Debug("colorproc: gpu lattice ops", slog.String("ops", p.gpuLattice.String()))
	log.Debug("colorproc: gpu post ops", slog.String("ops", p.gpuPost.String()))
	return nil
}

// IsNoOp reports whether every CPU op leaves pixels unchanged.
func (p *Processor) IsNoOp() bool {
	return p.cpuOps.IsNoOp()
}

// Apply transforms img in place one scanline at a time.
//
// Apply is not atomic: if it fails part way, the rows already processed
// stay modified.
func (p *Processor) Apply(img ImageDesc) error {
	if len(p.cpuOps) == 0 {
		return nil
	}

	h, err := newScanlineHelper(img)
	if err != nil {
		return err
	}
	for {
		rgba, numPixels := h.prepRGBAScanline()
		if numPixels == 0 {
			break
		}
		if rgba == nil {
			return ErrNullImageBuffer
		}
		p.cpuOps.Apply(rgba, numPixels)
		h.finishRGBAScanline()
	}
	return nil
}

// ApplyRGB transforms one RGB pixel in place. pixel must hold at least
// three values. Ops always see a 4-wide pixel; alpha is 0 and discarded.
func (p *Processor) ApplyRGB(pixel []float32) {
	if len(p.cpuOps) == 0 {
		return
	}
	rgba := []float32{pixel[0], pixel[1], pixel[2], 0}
	p.cpuOps.Apply(rgba, 1)
	pixel[0], pixel[1], pixel[2] = rgba[0], rgba[1], rgba[2]
}

// ApplyRGBA transforms one RGBA pixel in place. pixel must hold at least
// four values.
func (p *Processor) ApplyRGBA(pixel []float32) {
	p.cpuOps.Apply(pixel[:4], 1)
}
