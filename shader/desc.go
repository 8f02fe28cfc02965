// Package shader describes the shading dialects the processor can target and
// provides the text fragments shared by the processor and by individual
// operations: function header and footer, 3D texture sampling, and
// dialect-specific literals.
//
// The package only produces source text. Compiling or running the result is
// the caller's concern.
package shader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned when a descriptor names a dialect this
// package cannot generate.
var ErrUnsupportedLanguage = errors.New("shader: unsupported shader language")

// Language identifies a shading dialect.
type Language uint8

const (
	// LanguageUnknown is the zero value and is never generated.
	LanguageUnknown Language = iota
	// LanguageCG targets Nvidia Cg.
	LanguageCG
	// LanguageGLSL10 targets GLSL 1.0 (texture3D sampling).
	LanguageGLSL10
	// LanguageGLSL13 targets GLSL 1.3 (texture sampling).
	LanguageGLSL13
	// LanguageWGSL targets WebGPU Shading Language.
	LanguageWGSL
)

// String returns the dialect name used in cache identifiers and on the
// command line.
func (l Language) String() string {
	switch l {
	case LanguageCG:
		return "cg"
	case LanguageGLSL10:
		return "glsl_1.0"
	case LanguageGLSL13:
		return "glsl_1.3"
	case LanguageWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
}

// Valid reports whether l is a dialect this package generates.
func (l Language) Valid() bool {
	return l >= LanguageCG && l <= LanguageWGSL
}

// ParseLanguage parses a dialect name as returned by Language.String.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cg":
		return LanguageCG, nil
	case "glsl_1.0", "glsl10":
		return LanguageGLSL10, nil
	case "glsl_1.3", "glsl13":
		return LanguageGLSL13, nil
	case "wgsl":
		return LanguageWGSL, nil
	}
	return LanguageUnknown, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Default descriptor values.
const (
	DefaultFunctionName = "colorproc"
	DefaultLut3DEdgeLen = 32
)

// Desc configures generated shader text and the 3D LUT that goes with it.
// Desc is comparable; equal descriptors produce identical artifacts.
type Desc struct {
	// Language is the target dialect.
	Language Language

	// FunctionName is the name of the generated function.
	FunctionName string

	// Lut3DEdgeLen is the number of lattice points along each axis of the
	// baked 3D LUT.
	Lut3DEdgeLen int
}

// NewDesc returns a descriptor for lang with the default function name and
// edge length.
func NewDesc(lang Language) Desc {
	return Desc{
		Language:     lang,
		FunctionName: DefaultFunctionName,
		Lut3DEdgeLen: DefaultLut3DEdgeLen,
	}
}

func checkLanguage(l Language) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedLanguage, l)
	}
	return nil
}
