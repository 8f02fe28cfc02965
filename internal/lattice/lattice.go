// Package lattice provides the identity 3D lattice generator and the
// trilinear sampler shared by 3D LUT operations and the LUT bake.
//
// Lattices are stored with red varying fastest, then green, then blue,
// which matches the texel order of a 3D texture upload.
package lattice

// Index returns the cell index of lattice coordinate (r, g, b).
func Index(r, g, b, edge int) int {
	return r + edge*(g+edge*b)
}

// Identity returns an edge³ lattice with channels values per cell, filled
// with evenly spaced coordinates in [0,1]. A fourth channel, when present,
// is set to 1. Channels beyond the fourth are left at zero.
func Identity(edge, channels int) []float32 {
	if edge <= 0 || channels <= 0 {
		return nil
	}
	out := make([]float32, edge*edge*edge*channels)
	scale := float32(0)
	if edge > 1 {
		scale = 1 / float32(edge-1)
	}
	i := 0
	for b := 0; b < edge; b++ {
		for g := 0; g < edge; g++ {
			for r := 0; r < edge; r++ {
				cell := out[i : i+channels]
				cell[0] = float32(r) * scale
				if channels > 1 {
					cell[1] = float32(g) * scale
				}
				if channels > 2 {
					cell[2] = float32(b) * scale
				}
				if channels > 3 {
					cell[3] = 1
				}
				i += channels
			}
		}
	}
	return out
}

// Sample trilinearly interpolates an RGB lattice (3 values per cell) at rgb.
// Inputs are clamped to [0,1].
func Sample(lut []float32, edge int, rgb [3]float32) [3]float32 {
	if edge < 2 {
		if edge == 1 && len(lut) >= 3 {
			return [3]float32{lut[0], lut[1], lut[2]}
		}
		return [3]float32{}
	}

	var i0, i1 [3]int
	var f [3]float32
	maxIndex := float32(edge - 1)
	for c := 0; c < 3; c++ {
		v := rgb[c]
		if v < 0 || v != v {
			v = 0
		} else if v > 1 {
			v = 1
		}
		pos := v * maxIndex
		lo := int(pos)
		if lo >= edge-1 {
			lo = edge - 2
		}
		i0[c] = lo
		i1[c] = lo + 1
		f[c] = pos - float32(lo)
	}

	at := func(r, g, b int) []float32 {
		idx := 3 * Index(r, g, b, edge)
		return lut[idx : idx+3]
	}

	c000 := at(i0[0], i0[1], i0[2])
	c100 := at(i1[0], i0[1], i0[2])
	c010 := at(i0[0], i1[1], i0[2])
	c110 := at(i1[0], i1[1], i0[2])
	c001 := at(i0[0], i0[1], i1[2])
	c101 := at(i1[0], i0[1], i1[2])
	c011 := at(i0[0], i1[1], i1[2])
	c111 := at(i1[0], i1[1], i1[2])

	var out [3]float32
	for c := 0; c < 3; c++ {
		x00 := lerp(c000[c], c100[c], f[0])
		x10 := lerp(c010[c], c110[c], f[0])
		x01 := lerp(c001[c], c101[c], f[0])
		x11 := lerp(c011[c], c111[c], f[0])
		y0 := lerp(x00, x10, f[1])
		y1 := lerp(x01, x11, f[1])
		out[c] = lerp(y0, y1, f[2])
	}
	return out
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
