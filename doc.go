// Package colorproc evaluates chains of color operations on the CPU and
// turns the same chains into GPU shader text plus a baked 3D LUT.
//
// # Overview
//
// A Processor is built from color-space conversions or transforms described
// by a config.Config, then sealed with Finalize:
//
//	cfg, err := config.LoadFile("colorspaces.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, _ := cfg.ColorSpace("lnh")
//	dst, _ := cfg.ColorSpace("vd8")
//	p, err := colorproc.NewColorSpaceProcessor(cfg, src, dst)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// CPU path
//	err = p.Apply(&colorproc.PackedImageDesc{Data: pixels, Width: w, Height: h})
//
//	// GPU path
//	desc := shader.NewDesc(shader.LanguageGLSL13)
//	text, err := p.GpuShaderText(desc)
//	lut, err := p.BakeGpuLut3D(desc)
//
// # GPU Partition
//
// Ops that cannot be written as shader text (for example 3D LUTs) are
// gathered into one contiguous span. That span, widened back to the nearest
// op declaring an allocation, is baked into a 3D LUT; the ops before and
// after it become analytic shader code. The allocation maps the signal into
// [0,1] before the LUT is sampled and is undone inside the bake, so the GPU
// path approximates the CPU path up to LUT resolution.
//
// # Artifacts
//
// Equal shader descriptors yield byte-identical shader text, LUT data and
// cache IDs. GpuLut3DCacheID lets callers reuse an uploaded texture; a
// lutcache.Cache passed via WithLutCache shares bakes between processors.
//
// # Logging
//
// colorproc is silent by default. Use SetLogger to receive partition and
// bake diagnostics through log/slog.
package colorproc
