package colorproc

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/colorproc/shader"
)

// Lut3DTextureDesc describes the GPU resources a consumer creates to upload
// the baked 3D LUT and bind it to the generated shader.
//
// colorproc never touches a device; the descriptors use gputypes so they
// can be passed straight to a WebGPU implementation.
type Lut3DTextureDesc struct {
	Texture gputypes.TextureDescriptor
	View    gputypes.TextureViewDescriptor
	Sampler gputypes.SamplerDescriptor

	// Layout is the layout of PadLut3DRGBA output for a queue write.
	Layout gputypes.TextureDataLayout
}

// Lut3DTexture returns the texture, view and sampler descriptors for the
// 3D LUT of desc. Texels are RGBA32Float with red varying fastest; sampling
// is trilinear and clamps at the edges, matching the texel-center mapping
// of the generated shader. Linear filtering of RGBA32Float requires the
// float32-filterable device feature.
func Lut3DTexture(desc GpuShaderDesc) (Lut3DTextureDesc, error) {
	edge := desc.Lut3DEdgeLen
	if edge <= 0 {
		return Lut3DTextureDesc{}, fmt.Errorf("%w: %d", ErrInvalidEdgeLen, edge)
	}
	n := uint32(edge)

	sampler := gputypes.LinearSamplerDescriptor()
	sampler.Label = shader.Lut3DSamplerName
	sampler.MipmapFilter = gputypes.MipmapFilterModeNearest

	return Lut3DTextureDesc{
		Texture: gputypes.TextureDescriptor{
			Label:         shader.Lut3DName,
			Size:          gputypes.Extent3D{Width: n, Height: n, DepthOrArrayLayers: n},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension3D,
			Format:        gputypes.TextureFormatRGBA32Float,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		},
		View: gputypes.TextureViewDescriptor{
			Label:         shader.Lut3DName,
			Format:        gputypes.TextureFormatRGBA32Float,
			Dimension:     gputypes.TextureViewDimension3D,
			MipLevelCount: 1,
		},
		Sampler: sampler,
		Layout: gputypes.TextureDataLayout{
			BytesPerRow:  n * 4 * 4,
			RowsPerImage: n,
		},
	}, nil
}

// PadLut3DRGBA widens packed RGB texels from GpuLut3D to RGBA with an
// alpha of 1, the layout RGBA32Float textures expect.
func PadLut3DRGBA(rgb []float32) []float32 {
	n := len(rgb) / 3
	out := make([]float32, 4*n)
	for i := 0; i < n; i++ {
		out[4*i+0] = rgb[3*i+0]
		out[4*i+1] = rgb[3*i+1]
		out[4*i+2] = rgb[3*i+2]
		out[4*i+3] = 1
	}
	return out
}
