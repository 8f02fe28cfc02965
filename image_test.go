package colorproc

import (
	"errors"
	"testing"

	"github.com/gogpu/colorproc/op"
)

// newDoublingProcessor returns a processor scaling RGB by 2 and alpha by 0.5.
func newDoublingProcessor(t *testing.T) *Processor {
	t.Helper()
	return newOpsProcessor(t, func(seq *op.Sequence) {
		mustOp(t, op.CreateScaleOp(seq, [4]float32{2, 2, 2, 0.5}, op.DirectionForward))
	})
}

func TestApply_PackedRGBA(t *testing.T) {
	p := newDoublingProcessor(t)
	img := &PackedImageDesc{
		Data:   []float32{0.1, 0.2, 0.3, 1, 0.4, 0.5, 0.6, 0.8},
		Width:  2,
		Height: 1,
	}
	if err := p.Apply(img); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	want := []float32{0.2, 0.4, 0.6, 0.5, 0.8, 1.0, 1.2, 0.4}
	assertFloats(t, img.Data, want)
}

func TestApply_PackedRGB(t *testing.T) {
	p := newDoublingProcessor(t)
	img := &PackedImageDesc{
		Data:        []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		Width:       1,
		Height:      2,
		NumChannels: 3,
	}
	if err := p.Apply(img); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	assertFloats(t, img.Data, []float32{0.2, 0.4, 0.6, 0.8, 1.0, 1.2})
}

func TestApply_PackedStride(t *testing.T) {
	p := newDoublingProcessor(t)
	// two rows of one RGBA pixel with two padding values per row
	img := &PackedImageDesc{
		Data:    []float32{0.1, 0.1, 0.1, 1, -1, -1, 0.2, 0.2, 0.2, 1},
		Width:   1,
		Height:  2,
		YStride: 6,
	}
	if err := p.Apply(img); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	assertFloats(t, img.Data, []float32{0.2, 0.2, 0.2, 0.5, -1, -1, 0.4, 0.4, 0.4, 0.5})
}

func TestApply_Planar(t *testing.T) {
	p := newDoublingProcessor(t)
	img := &PlanarImageDesc{
		R:     []float32{0.1, 0.2},
		G:     []float32{0.3, 0.4},
		B:     []float32{0.5, 0.6},
		A:     []float32{1, 0.5},
		Width: 2, Height: 1,
	}
	if err := p.Apply(img); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	assertFloats(t, img.R, []float32{0.2, 0.4})
	assertFloats(t, img.G, []float32{0.6, 0.8})
	assertFloats(t, img.B, []float32{1.0, 1.2})
	assertFloats(t, img.A, []float32{0.5, 0.25})

	noAlpha := &PlanarImageDesc{
		R: []float32{0.1}, G: []float32{0.2}, B: []float32{0.3},
		Width: 1, Height: 1,
	}
	if err := p.Apply(noAlpha); err != nil {
		t.Fatalf("Apply(no alpha) = %v", err)
	}
	assertFloats(t, noAlpha.R, []float32{0.2})
}

func TestApply_Errors(t *testing.T) {
	p := newDoublingProcessor(t)

	tests := []struct {
		name string
		img  ImageDesc
		want error
	}{
		{"packed nil data", &PackedImageDesc{Width: 2, Height: 2}, ErrNullImageBuffer},
		{"planar nil plane", &PlanarImageDesc{R: make([]float32, 4), G: make([]float32, 4), Width: 2, Height: 2}, ErrNullImageBuffer},
		{"packed short", &PackedImageDesc{Data: make([]float32, 15), Width: 2, Height: 2}, ErrImageBufferSize},
		{"packed narrow stride", &PackedImageDesc{Data: make([]float32, 16), Width: 2, Height: 2, YStride: 4}, ErrImageBufferSize},
		{"planar short", &PlanarImageDesc{R: make([]float32, 4), G: make([]float32, 4), B: make([]float32, 3), Width: 2, Height: 2}, ErrImageBufferSize},
		{"two channels", &PackedImageDesc{Data: make([]float32, 8), Width: 2, Height: 2, NumChannels: 2}, ErrUnsupportedImage},
		{"nil image", nil, ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Apply(tt.img); !errors.Is(err, tt.want) {
				t.Errorf("Apply() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApply_EmptyImage(t *testing.T) {
	p := newDoublingProcessor(t)
	for _, img := range []ImageDesc{
		&PackedImageDesc{},
		&PackedImageDesc{Width: 0, Height: 3},
		&PlanarImageDesc{Width: 3, Height: 0},
	} {
		if err := p.Apply(img); err != nil {
			t.Errorf("Apply(%+v) = %v, want nil", img, err)
		}
	}
}

func TestApply_NoOps(t *testing.T) {
	p := NewProcessor()
	if err := p.Finalize(); err != nil {
		t.Fatal(err)
	}
	// nothing to apply, so even a null buffer is accepted
	if err := p.Apply(&PackedImageDesc{Width: 2, Height: 2}); err != nil {
		t.Errorf("Apply() = %v, want nil", err)
	}
}

func assertFloats(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
