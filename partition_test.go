package colorproc

import (
	"testing"

	"github.com/gogpu/colorproc/op"
)

func TestGpuUnsupportedIndexRange(t *testing.T) {
	// codes: m = matrix, a = allocation marker, l = 3D LUT
	tests := []struct {
		ops        string
		start, end int
	}{
		{"", -1, -1},
		{"mm", -1, -1},
		{"ama", -1, -1},
		{"l", 0, 0},
		{"ml", 0, 1},
		{"mml", 0, 2},
		{"amlm", 0, 2},
		{"malml", 1, 4},
		{"mamllm", 1, 4},
		{"mlmla", 0, 3},
		{"amalm", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.ops, func(t *testing.T) {
			seq := codeSequence(t, tt.ops)
			start, end := gpuUnsupportedIndexRange(seq)
			if start != tt.start || end != tt.end {
				t.Errorf("gpuUnsupportedIndexRange(%q) = (%d, %d), want (%d, %d)",
					tt.ops, start, end, tt.start, tt.end)
			}
			if start < 0 {
				return
			}
			if start > 0 && !seq[start].DefinesAllocation() {
				t.Errorf("start %d neither 0 nor an allocation op", start)
			}
			for i := 0; i < start; i++ {
				if !seq[i].SupportsGpuShader() {
					t.Errorf("op %d before start is not shader-writable", i)
				}
			}
			for i := end + 1; i < len(seq); i++ {
				if !seq[i].SupportsGpuShader() {
					t.Errorf("op %d after end is not shader-writable", i)
				}
			}
		})
	}
}

func TestAllocationAt(t *testing.T) {
	seq := codeSequence(t, "ma")
	if got, ok := allocationAt(seq, 0); ok || got.Allocation != op.AllocationUniform || got.Vars != nil {
		t.Errorf("allocationAt(matrix) = %v, %v; want zero value, false", got, ok)
	}
	got, ok := allocationAt(seq, 1)
	if !ok || got.Allocation != op.AllocationLG2 {
		t.Errorf("allocationAt(marker) = %v, %v; want lg2, true", got, ok)
	}
	if _, ok := allocationAt(seq, -1); ok {
		t.Error("allocationAt(-1) reported an allocation")
	}
	if _, ok := allocationAt(seq, 5); ok {
		t.Error("allocationAt(out of range) reported an allocation")
	}
}

func codeSequence(t *testing.T, codes string) op.Sequence {
	t.Helper()
	var seq op.Sequence
	for _, c := range codes {
		switch c {
		case 'm':
			mustOp(t, op.CreateScaleOp(&seq, [4]float32{2, 2, 2, 1}, op.DirectionForward))
		case 'a':
			op.CreateAllocationNoOp(&seq, op.AllocationData{Allocation: op.AllocationLG2})
		case 'l':
			mustOp(t, op.CreateLut3DOp(&seq, 2, crossMixLut(2), op.DirectionForward))
		default:
			t.Fatalf("unknown op code %q", c)
		}
	}
	return seq
}
