package colorproc

import "github.com/gogpu/colorproc/op"

// gpuUnsupportedIndexRange finds the smallest index range of seq that
// cannot be written as shader text. Both ends are inclusive. If every op
// supports shader text the result is (-1, -1).
//
// The start index then walks back to the nearest op that defines an
// allocation, or to 0: the lattice can only begin where the signal range is
// known.
func gpuUnsupportedIndexRange(seq op.Sequence) (start, end int) {
	start, end = -1, -1
	for i, o := range seq {
		if o.SupportsGpuShader() {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i
	}

	for start > 0 {
		if seq[start].DefinesAllocation() {
			break
		}
		start--
	}
	return start, end
}

// allocationAt returns the allocation declared by seq[index], or the zero
// allocation when that op declares none.
func allocationAt(seq op.Sequence, index int) (op.AllocationData, bool) {
	if index >= 0 && index < len(seq) && seq[index].DefinesAllocation() {
		return seq[index].Allocation(), true
	}
	return op.AllocationData{}, false
}
