// Package cacheid computes the content-addressed identifiers used as cache
// keys for operations and baked lattices.
package cacheid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash returns a stable hexadecimal identifier for s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}

// HashFloats returns a stable hexadecimal identifier for the exact bit
// patterns of vals. Values that compare equal but differ in sign of zero
// hash differently.
func HashFloats(vals ...float32) string {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:16])
}
