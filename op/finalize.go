package op

// Finalize returns an optimized copy of seq that is behaviourally
// interchangeable with it: no-op steps are dropped and runs of adjacent
// matrix steps are folded into one. The ops of seq are not modified.
func Finalize(seq Sequence) Sequence {
	out := make(Sequence, 0, len(seq))
	for _, o := range seq {
		if o.IsNoOp() {
			continue
		}
		if mo, ok := o.(*MatrixOffsetOp); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*MatrixOffsetOp); ok {
				folded := prev.Then(mo)
				if folded.IsNoOp() {
					out = out[:len(out)-1]
				} else {
					out[len(out)-1] = folded
				}
				continue
			}
		}
		out = append(out, o)
	}
	return out
}
