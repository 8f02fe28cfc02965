package shader

import (
	"strconv"
	"strings"
)

// Float formats v as a floating point literal valid in every supported
// dialect. Integral values keep a trailing ".0".
func Float(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// VecType returns the n-component float vector type name for lang.
func VecType(lang Language, n int) (string, error) {
	if err := checkLanguage(lang); err != nil {
		return "", err
	}
	switch lang {
	case LanguageCG:
		return "half" + strconv.Itoa(n), nil
	case LanguageWGSL:
		return "vec" + strconv.Itoa(n) + "<f32>", nil
	default:
		return "vec" + strconv.Itoa(n), nil
	}
}

// Vec returns a vector constructor expression holding vals.
func Vec(lang Language, vals ...float32) (string, error) {
	typ, err := VecType(lang, len(vals))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(typ)
	sb.WriteByte('(')
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Float(v))
	}
	sb.WriteByte(')')
	return sb.String(), nil
}

// MulMat4 returns an expression multiplying the row-major matrix m with the
// 4-component vector expression vec.
//
// Cg takes constructor arguments row by row and multiplies with mul().
// GLSL and WGSL constructors are column-major, so m is transposed.
func MulMat4(lang Language, m [16]float32, vec string) (string, error) {
	if err := checkLanguage(lang); err != nil {
		return "", err
	}

	var typ string
	switch lang {
	case LanguageCG:
		typ = "half4x4"
	case LanguageWGSL:
		typ = "mat4x4<f32>"
	default:
		typ = "mat4"
	}

	var sb strings.Builder
	sb.WriteString(typ)
	sb.WriteByte('(')
	for i := 0; i < 16; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		idx := i
		if lang != LanguageCG {
			idx = (i%4)*4 + i/4
		}
		sb.WriteString(Float(m[idx]))
	}
	sb.WriteByte(')')

	if lang == LanguageCG {
		return "mul(" + sb.String() + ", " + vec + ")", nil
	}
	return sb.String() + " * " + vec, nil
}
