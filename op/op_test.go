package op

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/colorproc/internal/lattice"
	"github.com/gogpu/colorproc/shader"
)

func approxEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func assertPixels(t *testing.T, got, want []float32, tol float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !approxEqual(got[i], want[i], tol) {
			t.Errorf("value[%d] = %v, want %v (got %v)", i, got[i], want[i], got)
			return
		}
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		own, req, want Direction
	}{
		{DirectionForward, DirectionForward, DirectionForward},
		{DirectionForward, DirectionInverse, DirectionInverse},
		{DirectionInverse, DirectionForward, DirectionInverse},
		{DirectionInverse, DirectionInverse, DirectionForward},
		{DirectionUnknown, DirectionInverse, DirectionInverse},
		{DirectionForward, DirectionUnknown, DirectionUnknown},
	}
	for _, tt := range tests {
		if got := Combine(tt.own, tt.req); got != tt.want {
			t.Errorf("Combine(%v, %v) = %v, want %v", tt.own, tt.req, got, tt.want)
		}
	}

	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrUnspecifiedDirection) {
		t.Errorf("ParseDirection(sideways) error = %v, want ErrUnspecifiedDirection", err)
	}
	if d, _ := ParseDirection("Inverse"); d != DirectionInverse {
		t.Errorf("ParseDirection(Inverse) = %v", d)
	}
}

func TestAllocationData_String(t *testing.T) {
	tests := []struct {
		data AllocationData
		want string
	}{
		{AllocationData{}, "uniform"},
		{AllocationData{Allocation: AllocationLG2, Vars: []float32{-8, 5, 0.003}}, "lg2 -8.0 5.0 0.003"},
		{AllocationData{Allocation: Allocation(7)}, "Allocation(7)"},
	}
	for _, tt := range tests {
		if got := tt.data.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMatrixOffsetOp_Apply(t *testing.T) {
	var seq Sequence
	m := [16]float32{
		2, 0, 0, 0,
		0, 1, 1, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	if err := CreateMatrixOffsetOp(&seq, m, [4]float32{0.1, 0, 0, 0}, DirectionForward); err != nil {
		t.Fatal(err)
	}
	px := []float32{0.5, 0.25, 0.5, 1, 0, 0, 0, 0}
	seq.Apply(px, 2)
	assertPixels(t, px, []float32{1.1, 0.75, 0.5, 1, 0.1, 0, 0, 0}, 1e-6)
}

func TestMatrixOffsetOp_InverseRoundTrip(t *testing.T) {
	m := [16]float32{
		0.6, 0.3, 0.1, 0,
		0.2, 0.7, 0.1, 0,
		0.1, 0.1, 0.8, 0,
		0, 0, 0, 1,
	}
	off := [4]float32{0.05, -0.02, 0.01, 0}

	var seq Sequence
	if err := CreateMatrixOffsetOp(&seq, m, off, DirectionForward); err != nil {
		t.Fatal(err)
	}
	if err := CreateMatrixOffsetOp(&seq, m, off, DirectionInverse); err != nil {
		t.Fatal(err)
	}
	px := []float32{0.2, 0.4, 0.6, 0.8}
	seq.Apply(px, 1)
	assertPixels(t, px, []float32{0.2, 0.4, 0.6, 0.8}, 1e-5)
}

func TestMatrixOffsetOp_Errors(t *testing.T) {
	var seq Sequence
	var singular [16]float32
	if err := CreateMatrixOffsetOp(&seq, singular, [4]float32{}, DirectionInverse); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("singular inverse error = %v, want ErrSingularMatrix", err)
	}
	if err := CreateScaleOp(&seq, [4]float32{1, 1, 1, 1}, DirectionUnknown); !errors.Is(err, ErrUnspecifiedDirection) {
		t.Errorf("unknown direction error = %v, want ErrUnspecifiedDirection", err)
	}
	if err := CreateFitOp(&seq, [4]float32{1, 0, 0, 0}, [4]float32{1, 1, 1, 1}, unitMin, unitMax, DirectionForward); !errors.Is(err, ErrDegenerateFit) {
		t.Errorf("degenerate fit error = %v, want ErrDegenerateFit", err)
	}
	if len(seq) != 0 {
		t.Errorf("failed constructors appended %d ops", len(seq))
	}
}

func TestMatrixOffsetOp_IdentityFitIsNoOp(t *testing.T) {
	var seq Sequence
	if err := CreateFitOp(&seq, unitMin, unitMax, unitMin, unitMax, DirectionForward); err != nil {
		t.Fatal(err)
	}
	if !seq.IsNoOp() {
		t.Error("identity fit IsNoOp() = false")
	}
	var scale Sequence
	_ = CreateScaleOp(&scale, [4]float32{2, 2, 2, 1}, DirectionForward)
	if scale.IsNoOp() {
		t.Error("scale IsNoOp() = true")
	}
}

func TestMatrixOffsetOp_CloneIsIndependent(t *testing.T) {
	var seq Sequence
	_ = CreateScaleOp(&seq, [4]float32{2, 3, 4, 1}, DirectionForward)
	orig := seq[0].(*MatrixOffsetOp)
	clone := orig.Clone().(*MatrixOffsetOp)
	if clone == orig {
		t.Fatal("Clone() returned the same pointer")
	}
	if clone.CacheID() != orig.CacheID() {
		t.Errorf("clone CacheID %q != %q", clone.CacheID(), orig.CacheID())
	}
	clone.m[0] = 9
	if orig.m[0] != 2 {
		t.Error("mutating clone changed original")
	}
}

func TestMatrixOffsetOp_WriteGpuShader(t *testing.T) {
	var seq Sequence
	_ = CreateMatrixOffsetOp(&seq, [16]float32{
		1, 2, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, [4]float32{0.5, 0, 0, 0}, DirectionForward)
	o := seq[0]

	tests := []struct {
		lang shader.Language
		want []string
	}{
		{shader.LanguageCG, []string{
			"out_pixel = mul(half4x4(1.0, 2.0, 0.0, 0.0, 0.0, 1.0,",
			"out_pixel = half4(0.5, 0.0, 0.0, 0.0) + out_pixel;",
		}},
		{shader.LanguageGLSL13, []string{
			// Column-major: first column is (1, 0, 0, 0), second (2, 1, 0, 0).
			"out_pixel = mat4(1.0, 0.0, 0.0, 0.0, 2.0, 1.0,",
			"out_pixel = vec4(0.5, 0.0, 0.0, 0.0) + out_pixel;",
		}},
		{shader.LanguageWGSL, []string{
			"out_pixel = mat4x4<f32>(1.0, 0.0, 0.0, 0.0, 2.0, 1.0,",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.lang.String(), func(t *testing.T) {
			var sb strings.Builder
			if err := o.WriteGpuShader(&sb, shader.PixelName, shader.NewDesc(tt.lang)); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(sb.String(), w) {
					t.Errorf("shader text missing %q:\n%s", w, sb.String())
				}
			}
		})
	}

	var sb strings.Builder
	if err := o.WriteGpuShader(&sb, shader.PixelName, shader.Desc{}); !errors.Is(err, shader.ErrUnsupportedLanguage) {
		t.Errorf("unknown language error = %v", err)
	}
}

func TestLogOp_RoundTrip(t *testing.T) {
	k := [3]float32{0.5, 1, 2}
	m := [3]float32{1, 2, 1}
	b := [3]float32{0.01, 0, 0.1}
	base := [3]float32{10, 2, 2.718281828}
	kb := [3]float32{0.1, 0, -0.2}

	var seq Sequence
	if err := CreateLogOp(&seq, k, m, b, base, kb, DirectionForward); err != nil {
		t.Fatal(err)
	}
	if err := CreateLogOp(&seq, k, m, b, base, kb, DirectionInverse); err != nil {
		t.Fatal(err)
	}
	px := []float32{0.18, 0.5, 0.9, 0.3}
	seq.Apply(px, 1)
	assertPixels(t, px, []float32{0.18, 0.5, 0.9, 0.3}, 1e-5)
}

func TestLogOp_Forward(t *testing.T) {
	var seq Sequence
	one := [3]float32{1, 1, 1}
	two := [3]float32{2, 2, 2}
	if err := CreateLogOp(&seq, one, one, [3]float32{}, two, [3]float32{}, DirectionForward); err != nil {
		t.Fatal(err)
	}
	px := []float32{0.25, 1, 8, 0.5}
	seq.Apply(px, 1)
	assertPixels(t, px, []float32{-2, 0, 3, 0.5}, 1e-5)

	// Non-positive inputs are clamped, not NaN.
	px = []float32{0, -1, 0, 1}
	seq.Apply(px, 1)
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(px[i])) || math.IsInf(float64(px[i]), 0) {
			t.Errorf("log of non-positive produced %v", px[i])
		}
	}
}

func TestLogOp_Errors(t *testing.T) {
	var seq Sequence
	one := [3]float32{1, 1, 1}
	if err := CreateLogOp(&seq, one, one, one, one, one, DirectionForward); !errors.Is(err, ErrInvalidLog) {
		t.Errorf("base 1 error = %v, want ErrInvalidLog", err)
	}
	two := [3]float32{2, 2, 2}
	if err := CreateLogOp(&seq, one, one, one, two, one, DirectionUnknown); !errors.Is(err, ErrUnspecifiedDirection) {
		t.Errorf("unknown direction error = %v", err)
	}
}

func TestLut3DOp(t *testing.T) {
	const edge = 3
	id := lattice.Identity(edge, 3)
	// Swap red and blue.
	data := make([]float32, len(id))
	for i := 0; i < len(id); i += 3 {
		data[i], data[i+1], data[i+2] = id[i+2], id[i+1], id[i]
	}

	var seq Sequence
	if err := CreateLut3DOp(&seq, edge, data, DirectionForward); err != nil {
		t.Fatal(err)
	}
	o := seq[0]
	if o.SupportsGpuShader() {
		t.Error("Lut3DOp.SupportsGpuShader() = true")
	}
	var sb strings.Builder
	if err := o.WriteGpuShader(&sb, shader.PixelName, shader.NewDesc(shader.LanguageGLSL13)); !errors.Is(err, ErrGpuUnsupported) {
		t.Errorf("WriteGpuShader error = %v, want ErrGpuUnsupported", err)
	}

	px := []float32{0.1, 0.5, 0.8, 0.7}
	seq.Apply(px, 1)
	assertPixels(t, px, []float32{0.8, 0.5, 0.1, 0.7}, 1e-6)

	data[0] = 42
	if seq[0].(*Lut3DOp).data[0] == 42 {
		t.Error("CreateLut3DOp did not copy its data")
	}
	if o.Clone().CacheID() != o.CacheID() {
		t.Error("clone CacheID differs")
	}
}

func TestLut3DOp_Errors(t *testing.T) {
	var seq Sequence
	if err := CreateLut3DOp(&seq, 2, make([]float32, 5), DirectionForward); !errors.Is(err, ErrInvalidLut3D) {
		t.Errorf("short data error = %v, want ErrInvalidLut3D", err)
	}
	if err := CreateLut3DOp(&seq, 2, make([]float32, 24), DirectionInverse); !errors.Is(err, ErrInverseUnsupported) {
		t.Errorf("inverse error = %v, want ErrInverseUnsupported", err)
	}
}

func TestCreateAllocationOps_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data AllocationData
		in   []float32
	}{
		{"uniform default", AllocationData{}, []float32{0.1, 0.5, 0.9, 1}},
		{"uniform range", AllocationData{Vars: []float32{-0.5, 4}}, []float32{-0.25, 1.5, 3.9, 0.5}},
		{"lg2 default", AllocationData{Allocation: AllocationLG2}, []float32{0.001, 0.18, 40, 1}},
		{"lg2 offset", AllocationData{Allocation: AllocationLG2, Vars: []float32{-8, 5, 0.003}}, []float32{0.0, 0.18, 20, 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seq Sequence
			if err := CreateAllocationOps(&seq, tt.data, DirectionForward); err != nil {
				t.Fatal(err)
			}
			if err := CreateAllocationOps(&seq, tt.data, DirectionInverse); err != nil {
				t.Fatal(err)
			}
			px := append([]float32(nil), tt.in...)
			seq.Apply(px, 1)
			for i := range px {
				tol := float32(1e-5) * float32(math.Max(1, math.Abs(float64(tt.in[i]))))
				if !approxEqual(px[i], tt.in[i], tol) {
					t.Errorf("round trip = %v, want %v", px, tt.in)
					break
				}
			}
		})
	}
}

func TestCreateAllocationOps_Shape(t *testing.T) {
	var fwd, inv Sequence
	data := AllocationData{Allocation: AllocationLG2}
	_ = CreateAllocationOps(&fwd, data, DirectionForward)
	_ = CreateAllocationOps(&inv, data, DirectionInverse)

	if len(fwd) != 2 || len(inv) != 2 {
		t.Fatalf("lg2 op counts = %d, %d, want 2, 2", len(fwd), len(inv))
	}
	if _, ok := fwd[0].(*LogOp); !ok {
		t.Errorf("forward[0] = %T, want *LogOp", fwd[0])
	}
	if _, ok := inv[1].(*LogOp); !ok {
		t.Errorf("inverse[1] = %T, want *LogOp", inv[1])
	}

	// Default lg2 range maps 2^-10 to 0 and 2^6 to 1.
	px := []float32{1.0 / 1024, 64, 1, 1}
	fwd.Apply(px, 1)
	assertPixels(t, px, []float32{0, 1, 10.0 / 16, 1}, 1e-5)
}

func TestCreateAllocationOps_Errors(t *testing.T) {
	var seq Sequence
	err := CreateAllocationOps(&seq, AllocationData{Allocation: AllocationLG2}, DirectionUnknown)
	if !errors.Is(err, ErrUnspecifiedDirection) {
		t.Errorf("lg2 unknown direction error = %v", err)
	}
	err = CreateAllocationOps(&seq, AllocationData{}, DirectionUnknown)
	if !errors.Is(err, ErrUnspecifiedDirection) {
		t.Errorf("uniform unknown direction error = %v", err)
	}
	err = CreateAllocationOps(&seq, AllocationData{Allocation: Allocation(5)}, DirectionForward)
	if !errors.Is(err, ErrUnsupportedAllocation) {
		t.Errorf("unknown kind error = %v", err)
	}
	if len(seq) != 0 {
		t.Errorf("failed calls appended %d ops", len(seq))
	}
}

func TestAllocationNoOp(t *testing.T) {
	var seq Sequence
	vars := []float32{-8, 5}
	CreateAllocationNoOp(&seq, AllocationData{Allocation: AllocationLG2, Vars: vars})
	vars[0] = 0

	o := seq[0]
	if !o.IsNoOp() || !o.DefinesAllocation() || !o.SupportsGpuShader() {
		t.Error("AllocationNoOp capabilities wrong")
	}
	got := o.Allocation()
	if got.Allocation != AllocationLG2 || got.Vars[0] != -8 {
		t.Errorf("Allocation() = %v, want lg2 -8 5", got)
	}
	var sb strings.Builder
	if err := o.WriteGpuShader(&sb, shader.PixelName, shader.NewDesc(shader.LanguageCG)); err != nil || sb.Len() != 0 {
		t.Errorf("WriteGpuShader wrote %q, err %v", sb.String(), err)
	}
}
