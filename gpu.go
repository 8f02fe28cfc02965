package colorproc

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/colorproc/internal/cacheid"
	"github.com/gogpu/colorproc/internal/lattice"
	"github.com/gogpu/colorproc/shader"
)

// NullLut3DCacheID is the cache ID reported when the GPU path needs no
// 3D LUT.
const NullLut3DCacheID = "<NULL>"

// bakeChunkPixels is the number of lattice points each bake task handles.
const bakeChunkPixels = 4096

// GpuShaderText returns shader source evaluating the processor for desc:
// the gpuPre ops, a 3D LUT sample when a lattice exists, then the gpuPost
// ops. The function takes the input pixel and the 3D texture holding the
// LUT from GpuLut3D.
//
// An unsupported dialect fails with ErrUnsupportedShaderLanguage and leaves
// the processor unchanged.
func (p *Processor) GpuShaderText(desc GpuShaderDesc) (string, error) {
	if !p.finalized {
		return "", ErrNotFinalized
	}

	p.memoMu.Lock()
	defer p.memoMu.Unlock()
	if p.shaderFor != nil && *p.shaderFor == desc {
		return p.shaderTxt, nil
	}

	text, err := p.buildShaderText(desc)
	if err != nil {
		return "", err
	}
	p.shaderFor = &desc
	p.shaderTxt = text
	return text, nil
}

func (p *Processor) buildShaderText(desc GpuShaderDesc) (string, error) {
	var sb strings.Builder
	pixel := shader.PixelName

	if err := shader.WriteHeader(&sb, pixel, desc); err != nil {
		return "", err
	}
	for _, o := range p.gpuPre {
		if err := o.WriteGpuShader(&sb, pixel, desc); err != nil {
			return "", fmt.Errorf("colorproc: gpu pre ops: %w", err)
		}
	}
	if len(p.gpuLattice) > 0 {
		if err := shader.WriteSampleLut3DRGB(&sb, pixel, shader.Lut3DName, desc); err != nil {
			return "", err
		}
	}
	for _, o := range p.gpuPost {
		if err := o.WriteGpuShader(&sb, pixel, desc); err != nil {
			return "", fmt.Errorf("colorproc: gpu post ops: %w", err)
		}
	}
	shader.WriteFooter(&sb, pixel, desc)
	return sb.String(), nil
}

// GpuLut3DCacheID returns an identifier of the 3D LUT GpuLut3D would
// produce for desc. Equal lattice ops and equal descriptors give equal IDs;
// any change that alters the LUT changes the ID. When no LUT is needed the
// result is NullLut3DCacheID.
func (p *Processor) GpuLut3DCacheID(desc GpuShaderDesc) (string, error) {
	if !p.finalized {
		return "", ErrNotFinalized
	}

	p.memoMu.Lock()
	defer p.memoMu.Unlock()
	if p.idFor != nil && *p.idFor == desc {
		return p.lutID, nil
	}

	id := p.lut3DCacheID(desc)
	p.idFor = &desc
	p.lutID = id
	return id, nil
}

func (p *Processor) lut3DCacheID(desc GpuShaderDesc) string {
	if len(p.gpuLattice) == 0 {
		return NullLut3DCacheID
	}

	var sb strings.Builder
	for _, o := range p.gpuLattice {
		sb.WriteString(o.CacheID())
		sb.WriteByte(' ')
	}
	sb.WriteString(desc.Language.String())
	sb.WriteByte(' ')
	sb.WriteString(desc.FunctionName)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(desc.Lut3DEdgeLen))
	sb.WriteByte(' ')
	return cacheid.Hash(sb.String())
}

// GpuLut3D writes the baked 3D LUT for desc into lut3d, which must hold at
// least 3·edge³ values. Texels are RGB with red varying fastest. When no
// LUT is needed the first 3·edge³ values are zeroed.
func (p *Processor) GpuLut3D(lut3d []float32, desc GpuShaderDesc) error {
	if !p.finalized {
		return ErrNotFinalized
	}
	edge := desc.Lut3DEdgeLen
	if edge <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEdgeLen, edge)
	}
	n := 3 * edge * edge * edge
	if len(lut3d) < n {
		return fmt.Errorf("%w: have %d values, need %d", ErrLut3DBufferSize, len(lut3d), n)
	}

	if len(p.gpuLattice) == 0 {
		clear(lut3d[:n])
		return nil
	}

	if p.lutCache == nil {
		p.bakeLut3D(lut3d[:n], edge)
		return nil
	}

	id, err := p.GpuLut3DCacheID(desc)
	if err != nil {
		return err
	}
	hit := true
	baked := p.lutCache.GetOrBake(id, func() []float32 {
		hit = false
		out := make([]float32, n)
		p.bakeLut3D(out, edge)
		return out
	})
	if hit {
		Logger().Debug("colorproc: 3D LUT cache hit", slog.String("id", id))
	}
	copy(lut3d[:n], baked)
	return nil
}

// BakeGpuLut3D returns a newly allocated 3D LUT for desc.
func (p *Processor) BakeGpuLut3D(desc GpuShaderDesc) ([]float32, error) {
	edge := desc.Lut3DEdgeLen
	if edge <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEdgeLen, edge)
	}
	out := make([]float32, 3*edge*edge*edge)
	if err := p.GpuLut3D(out, desc); err != nil {
		return nil, err
	}
	return out, nil
}

// bakeLut3D runs the lattice ops over an identity lattice and writes the
// RGB of each cell into rgb. Chunks run in parallel; ops keep no state
// between calls, so disjoint chunks never interact.
func (p *Processor) bakeLut3D(rgb []float32, edge int) {
	numPixels := edge * edge * edge
	rgba := lattice.Identity(edge, 4)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < numPixels; start += bakeChunkPixels {
		end := min(start+bakeChunkPixels, numPixels)
		g.Go(func() error {
			p.gpuLattice.Apply(rgba[4*start:4*end], end-start)
			return nil
		})
	}
	_ = g.Wait() // tasks never fail

	for i := 0; i < numPixels; i++ {
		rgb[3*i+0] = rgba[4*i+0]
		rgb[3*i+1] = rgba[4*i+1]
		rgb[3*i+2] = rgba[4*i+2]
	}

	Logger().Debug("colorproc: baked 3D LUT",
		slog.Int("edge", edge),
		slog.Int("lattice_ops", len(p.gpuLattice)))
}
