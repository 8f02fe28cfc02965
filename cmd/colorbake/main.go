// Command colorbake converts between two color spaces of a config and writes
// the GPU artifacts: shader text and a baked 3D LUT in .cube format.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/naga"

	"github.com/gogpu/colorproc"
	"github.com/gogpu/colorproc/config"
	"github.com/gogpu/colorproc/shader"
)

func main() {
	var (
		configPath = flag.String("config", "colorspaces.yaml", "color space config file")
		srcName    = flag.String("src", "", "source color space")
		dstName    = flag.String("dst", "", "destination color space")
		lang       = flag.String("lang", "glsl_1.3", "shader language: cg, glsl_1.0, glsl_1.3, wgsl")
		funcName   = flag.String("func", shader.DefaultFunctionName, "generated function name")
		edge       = flag.Int("edge", shader.DefaultLut3DEdgeLen, "3D LUT edge length")
		shaderOut  = flag.String("shader", "", "write shader text to this file (default stdout)")
		lutOut     = flag.String("lut", "", "write the baked 3D LUT to this .cube file")
		validate   = flag.Bool("validate", false, "compile WGSL output with naga")
		verbose    = flag.Bool("v", false, "log partition and bake details")
	)
	flag.Parse()

	if *verbose {
		colorproc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	language, err := shader.ParseLanguage(*lang)
	if err != nil {
		log.Fatalf("Invalid -lang: %v", err)
	}
	desc := shader.Desc{Language: language, FunctionName: *funcName, Lut3DEdgeLen: *edge}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	src, err := cfg.ColorSpace(*srcName)
	if err != nil {
		log.Fatalf("Invalid -src: %v", err)
	}
	dst, err := cfg.ColorSpace(*dstName)
	if err != nil {
		log.Fatalf("Invalid -dst: %v", err)
	}

	p, err := colorproc.NewColorSpaceProcessor(cfg, src, dst)
	if err != nil {
		log.Fatalf("Failed to build processor: %v", err)
	}

	text, err := p.GpuShaderText(desc)
	if err != nil {
		log.Fatalf("Failed to generate shader: %v", err)
	}
	if *validate {
		if language != shader.LanguageWGSL {
			log.Fatalf("-validate requires -lang wgsl, got %s", language)
		}
		if _, err := naga.Compile(shader.WrapWGSLFragment(text, desc)); err != nil {
			log.Fatalf("Generated WGSL does not compile: %v", err)
		}
		log.Printf("WGSL validated")
	}
	if *shaderOut == "" {
		if _, err := os.Stdout.WriteString(text); err != nil {
			log.Fatalf("Failed to write shader: %v", err)
		}
	} else if err := os.WriteFile(*shaderOut, []byte(text), 0o644); err != nil {
		log.Fatalf("Failed to write shader: %v", err)
	}

	id, err := p.GpuLut3DCacheID(desc)
	if err != nil {
		log.Fatalf("Failed to compute LUT cache id: %v", err)
	}
	if *lutOut == "" {
		return
	}
	if id == colorproc.NullLut3DCacheID {
		log.Printf("%s to %s needs no 3D LUT, skipping %s", src.Name, dst.Name, *lutOut)
		return
	}

	lut, err := p.BakeGpuLut3D(desc)
	if err != nil {
		log.Fatalf("Failed to bake LUT: %v", err)
	}
	f, err := os.Create(*lutOut)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *lutOut, err)
	}
	title := src.Name + " to " + dst.Name + " " + id
	if err := writeCube(f, title, desc.Lut3DEdgeLen, lut); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to write %s: %v", *lutOut, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", *lutOut, err)
	}

	log.Printf("LUT saved to %s (%d³)\n", *lutOut, desc.Lut3DEdgeLen)
}
