package shader

import (
	"fmt"
	"strings"
)

// Names used in generated text.
const (
	PixelName        = "out_pixel"
	Lut3DName        = "lut3d"
	Lut3DSamplerName = "lut3d_sampler"
)

// WriteHeader writes the comment banner, the function signature and the
// local pixel variable initialised from the input pixel.
func WriteHeader(sb *strings.Builder, pixelName string, desc Desc) error {
	if err := checkLanguage(desc.Language); err != nil {
		return err
	}

	sb.WriteString("\n// Generated by colorproc\n\n")

	switch desc.Language {
	case LanguageCG:
		fmt.Fprintf(sb, "half4 %s(in half4 inPixel,\n", desc.FunctionName)
		fmt.Fprintf(sb, "    const uniform sampler3D %s) \n", Lut3DName)
		sb.WriteString("{\n")
		fmt.Fprintf(sb, "half4 %s = inPixel; \n", pixelName)
	case LanguageGLSL10, LanguageGLSL13:
		fmt.Fprintf(sb, "vec4 %s(in vec4 inPixel, \n", desc.FunctionName)
		fmt.Fprintf(sb, "    const uniform sampler3D %s) \n", Lut3DName)
		sb.WriteString("{\n")
		fmt.Fprintf(sb, "vec4 %s = inPixel; \n", pixelName)
	case LanguageWGSL:
		// WGSL has no sampler parameters; the lattice is bound at module scope.
		fmt.Fprintf(sb, "@group(0) @binding(0) var %s: texture_3d<f32>;\n", Lut3DName)
		fmt.Fprintf(sb, "@group(0) @binding(1) var %s: sampler;\n\n", Lut3DSamplerName)
		fmt.Fprintf(sb, "fn %s(inPixel: vec4<f32>) -> vec4<f32>\n", desc.FunctionName)
		sb.WriteString("{\n")
		fmt.Fprintf(sb, "var %s: vec4<f32> = inPixel;\n", pixelName)
	}
	return nil
}

// WriteFooter returns the local pixel and closes the function body.
func WriteFooter(sb *strings.Builder, pixelName string, _ Desc) {
	fmt.Fprintf(sb, "return %s;\n", pixelName)
	sb.WriteString("}\n\n")
}

// AssignRGB writes a statement replacing the first three channels of
// pixelName with the 3-component expression expr. WGSL cannot assign to a
// multi-component swizzle, so the full vector is rebuilt there.
func AssignRGB(sb *strings.Builder, lang Language, pixelName, expr string) error {
	if err := checkLanguage(lang); err != nil {
		return err
	}
	if lang == LanguageWGSL {
		fmt.Fprintf(sb, "%s = vec4<f32>(%s, %s.a);\n", pixelName, expr, pixelName)
		return nil
	}
	fmt.Fprintf(sb, "%s.rgb = %s;\n", pixelName, expr)
	return nil
}

// WriteSampleLut3DRGB writes a statement that replaces the first three
// channels of pixelName with a sample of the 3D texture lutName. Input
// values in [0,1] are mapped onto texel centres for an edge of
// desc.Lut3DEdgeLen.
func WriteSampleLut3DRGB(sb *strings.Builder, pixelName, lutName string, desc Desc) error {
	if err := checkLanguage(desc.Language); err != nil {
		return err
	}
	if desc.Lut3DEdgeLen <= 0 {
		return fmt.Errorf("shader: invalid 3D LUT edge length %d", desc.Lut3DEdgeLen)
	}

	edge := float32(desc.Lut3DEdgeLen)
	m := Float((edge - 1) / edge)
	b := Float(1 / (2 * edge))

	var expr string
	switch desc.Language {
	case LanguageCG:
		expr = fmt.Sprintf("tex3D(%s, %s * %s.rgb + %s).rgb", lutName, m, pixelName, b)
	case LanguageGLSL10:
		expr = fmt.Sprintf("texture3D(%s, %s * %s.rgb + %s).rgb", lutName, m, pixelName, b)
	case LanguageGLSL13:
		expr = fmt.Sprintf("texture(%s, %s * %s.rgb + %s).rgb", lutName, m, pixelName, b)
	case LanguageWGSL:
		expr = fmt.Sprintf("textureSampleLevel(%s, %s, %s * %s.rgb + vec3<f32>(%s), 0.0).rgb",
			lutName, Lut3DSamplerName, m, pixelName, b)
	}
	return AssignRGB(sb, desc.Language, pixelName, expr)
}

// WrapWGSLFragment appends a fragment entry point to generated WGSL function
// text so the result is a complete module. It is intended for validating
// generated text with a WGSL compiler.
func WrapWGSLFragment(text string, desc Desc) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("@fragment\n")
	sb.WriteString("fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {\n")
	fmt.Fprintf(&sb, "    return %s(color);\n", desc.FunctionName)
	sb.WriteString("}\n")
	return sb.String()
}
