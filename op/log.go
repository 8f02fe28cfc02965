package op

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/colorproc/internal/cacheid"
	"github.com/gogpu/colorproc/shader"
)

// minLogInput clamps log inputs away from zero and negatives.
const minLogInput = float32(1.17549435e-38)

// LogOp computes out = k·log_base(m·in + b) + kb on RGB, or the inverse
// curve. Alpha is left unchanged.
type LogOp struct {
	k, m, b, base, kb [3]float32
	dir               Direction

	// forward: kLog = k / ln(base); inverse: kLog = ln(base) / k.
	kLog [3]float32
	invM [3]float32
}

// CreateLogOp appends a log op with per-channel parameters.
func CreateLogOp(seq *Sequence, k, m, b, base, kb [3]float32, dir Direction) error {
	if dir != DirectionForward && dir != DirectionInverse {
		return ErrUnspecifiedDirection
	}
	o := &LogOp{k: k, m: m, b: b, base: base, kb: kb, dir: dir}
	for i := 0; i < 3; i++ {
		if base[i] <= 0 || base[i] == 1 || k[i] == 0 || m[i] == 0 {
			return fmt.Errorf("%w: k=%g m=%g base=%g", ErrInvalidLog, k[i], m[i], base[i])
		}
		lnBase := float32(math.Log(float64(base[i])))
		if dir == DirectionForward {
			o.kLog[i] = k[i] / lnBase
		} else {
			o.kLog[i] = lnBase / k[i]
		}
		o.invM[i] = 1 / m[i]
	}
	seq.Append(o)
	return nil
}

// Apply implements Op.
func (o *LogOp) Apply(rgba []float32, numPixels int) {
	if o.dir == DirectionForward {
		for i := 0; i < numPixels; i++ {
			p := rgba[4*i : 4*i+3 : 4*i+3]
			for c := 0; c < 3; c++ {
				v := o.m[c]*p[c] + o.b[c]
				if v < minLogInput || v != v {
					v = minLogInput
				}
				p[c] = o.kLog[c]*float32(math.Log(float64(v))) + o.kb[c]
			}
		}
		return
	}
	for i := 0; i < numPixels; i++ {
		p := rgba[4*i : 4*i+3 : 4*i+3]
		for c := 0; c < 3; c++ {
			e := float32(math.Exp(float64((p[c] - o.kb[c]) * o.kLog[c])))
			p[c] = (e - o.b[c]) * o.invM[c]
		}
	}
}

// Clone implements Op.
func (o *LogOp) Clone() Op {
	c := *o
	return &c
}

// IsNoOp implements Op.
func (o *LogOp) IsNoOp() bool { return false }

// SupportsGpuShader implements Op.
func (o *LogOp) SupportsGpuShader() bool { return true }

// DefinesAllocation implements Op.
func (o *LogOp) DefinesAllocation() bool { return false }

// Allocation implements Op.
func (o *LogOp) Allocation() AllocationData { return AllocationData{} }

// WriteGpuShader implements Op.
func (o *LogOp) WriteGpuShader(sb *strings.Builder, pixelName string, desc shader.Desc) error {
	lang := desc.Language
	if !lang.Valid() {
		return fmt.Errorf("%w: %v", shader.ErrUnsupportedLanguage, lang)
	}

	vec3 := func(v [3]float32) string {
		s, _ := shader.Vec(lang, v[0], v[1], v[2])
		return s
	}

	if o.dir == DirectionForward {
		clamp := vec3([3]float32{minLogInput, minLogInput, minLogInput})
		expr := fmt.Sprintf("max(%s, %s * %s.rgb + %s)", clamp, vec3(o.m), pixelName, vec3(o.b))
		if err := shader.AssignRGB(sb, lang, pixelName, expr); err != nil {
			return err
		}
		expr = fmt.Sprintf("log(%s.rgb) * %s + %s", pixelName, vec3(o.kLog), vec3(o.kb))
		return shader.AssignRGB(sb, lang, pixelName, expr)
	}

	expr := fmt.Sprintf("exp((%s.rgb - %s) * %s)", pixelName, vec3(o.kb), vec3(o.kLog))
	if err := shader.AssignRGB(sb, lang, pixelName, expr); err != nil {
		return err
	}
	expr = fmt.Sprintf("(%s.rgb - %s) * %s", pixelName, vec3(o.b), vec3(o.invM))
	return shader.AssignRGB(sb, lang, pixelName, expr)
}

// CacheID implements Op.
func (o *LogOp) CacheID() string {
	vals := make([]float32, 0, 15)
	vals = append(vals, o.k[:]...)
	vals = append(vals, o.m[:]...)
	vals = append(vals, o.b[:]...)
	vals = append(vals, o.base[:]...)
	vals = append(vals, o.kb[:]...)
	return "<LogOp " + cacheid.HashFloats(vals...) + " " + o.dir.String() + ">"
}

// String implements Op.
func (o *LogOp) String() string {
	return fmt.Sprintf("<LogOp %s base=%v k=%v m=%v b=%v kb=%v>", o.dir, o.base, o.k, o.m, o.b, o.kb)
}
