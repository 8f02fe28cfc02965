package op

import (
	"fmt"
	"strings"
)

// Sequence is an ordered chain of operations. Order is the pipeline order.
type Sequence []Op

// Append adds ops to the end of the sequence.
func (s *Sequence) Append(ops ...Op) {
	*s = append(*s, ops...)
}

// AppendClones appends an independent copy of every op of src.
func (s *Sequence) AppendClones(src Sequence) {
	for _, o := range src {
		*s = append(*s, o.Clone())
	}
}

// Clone returns a deep copy of the sequence.
func (s Sequence) Clone() Sequence {
	return s.CloneRange(0, len(s))
}

// CloneRange returns a deep copy of s[lo:hi].
func (s Sequence) CloneRange(lo, hi int) Sequence {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	if lo >= hi {
		return nil
	}
	out := make(Sequence, 0, hi-lo)
	for _, o := range s[lo:hi] {
		out = append(out, o.Clone())
	}
	return out
}

// Apply runs every op over numPixels RGBA pixels in order.
func (s Sequence) Apply(rgba []float32, numPixels int) {
	for _, o := range s {
		o.Apply(rgba, numPixels)
	}
}

// IsNoOp reports whether every op is a no-op. An empty sequence is a no-op.
func (s Sequence) IsNoOp() bool {
	for _, o := range s {
		if !o.IsNoOp() {
			return false
		}
	}
	return true
}

// String lists the ops one per line with their capabilities.
func (s Sequence) String() string {
	var sb strings.Builder
	for i, o := range s {
		fmt.Fprintf(&sb, "%d: %s gpu=%t allocation=%t\n",
			i, o.String(), o.SupportsGpuShader(), o.DefinesAllocation())
	}
	return sb.String()
}
