package colorproc

import "fmt"

// ImageDesc describes a float32 image for Processor.Apply. The concrete
// descriptors are PackedImageDesc and PlanarImageDesc.
type ImageDesc interface {
	// Size returns the image dimensions in pixels.
	Size() (width, height int)

	imageDesc()
}

// PackedImageDesc describes an image with interleaved channels.
type PackedImageDesc struct {
	// Data holds the pixels in row order.
	Data []float32

	Width, Height int

	// NumChannels is 3 (RGB) or 4 (RGBA). Zero means 4. Channels past the
	// fourth are left untouched.
	NumChannels int

	// YStride is the distance between rows in float32 values. Zero means
	// Width*NumChannels.
	YStride int
}

// Size implements ImageDesc.
func (d *PackedImageDesc) Size() (int, int) { return d.Width, d.Height }

func (*PackedImageDesc) imageDesc() {}

func (d *PackedImageDesc) channels() int {
	if d.NumChannels == 0 {
		return 4
	}
	return d.NumChannels
}

func (d *PackedImageDesc) stride() int {
	if d.YStride == 0 {
		return d.Width * d.channels()
	}
	return d.YStride
}

// PlanarImageDesc describes an image with one plane per channel. A is
// optional; without it the ops see an opaque alpha.
type PlanarImageDesc struct {
	R, G, B, A []float32

	Width, Height int
}

// Size implements ImageDesc.
func (d *PlanarImageDesc) Size() (int, int) { return d.Width, d.Height }

func (*PlanarImageDesc) imageDesc() {}

// scanlineHelper walks an image one row at a time, presenting every row
// as packed RGBA. Packed RGBA rows are handed out in place; other layouts
// go through a scratch row that finishRGBAScanline copies back.
type scanlineHelper struct {
	packed *PackedImageDesc
	planar *PlanarImageDesc

	width, height int
	y             int

	scratch []float32
	inPlace bool
}

func newScanlineHelper(img ImageDesc) (*scanlineHelper, error) {
	h := &scanlineHelper{}
	switch d := img.(type) {
	case *PackedImageDesc:
		if err := checkPacked(d); err != nil {
			return nil, err
		}
		h.packed = d
		h.inPlace = d.channels() == 4
	case *PlanarImageDesc:
		if err := checkPlanar(d); err != nil {
			return nil, err
		}
		h.planar = d
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}

	h.width, h.height = img.Size()
	if h.width <= 0 || h.height <= 0 {
		h.width, h.height = 0, 0
	}
	if !h.inPlace {
		h.scratch = make([]float32, 4*h.width)
	}
	return h, nil
}

func checkPacked(d *PackedImageDesc) error {
	nch := d.channels()
	if nch < 3 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedImage, nch)
	}
	if d.Data == nil || d.Width <= 0 || d.Height <= 0 {
		return nil
	}
	stride := d.stride()
	if stride < d.Width*nch {
		return fmt.Errorf("%w: row stride %d below %d", ErrImageBufferSize, stride, d.Width*nch)
	}
	need := (d.Height-1)*stride + d.Width*nch
	if len(d.Data) < need {
		return fmt.Errorf("%w: have %d values, need %d", ErrImageBufferSize, len(d.Data), need)
	}
	return nil
}

func checkPlanar(d *PlanarImageDesc) error {
	if d.Width <= 0 || d.Height <= 0 {
		return nil
	}
	need := d.Width * d.Height
	for _, plane := range [][]float32{d.R, d.G, d.B, d.A} {
		if plane != nil && len(plane) < need {
			return fmt.Errorf("%w: plane has %d values, need %d", ErrImageBufferSize, len(plane), need)
		}
	}
	return nil
}

// prepRGBAScanline returns the next row as packed RGBA and its pixel count.
// The count is 0 once every row has been handed out. A nil slice with a
// positive count means the image has no storage for the row.
func (h *scanlineHelper) prepRGBAScanline() ([]float32, int) {
	if h.y >= h.height {
		return nil, 0
	}
	n := h.width

	switch {
	case h.packed != nil:
		d := h.packed
		if d.Data == nil {
			return nil, n
		}
		row := d.Data[h.y*d.stride():]
		if h.inPlace {
			return row[:4*n], n
		}
		nch := d.channels()
		for i := 0; i < n; i++ {
			px := row[i*nch:]
			h.scratch[4*i+0] = px[0]
			h.scratch[4*i+1] = px[1]
			h.scratch[4*i+2] = px[2]
			if nch > 3 {
				h.scratch[4*i+3] = px[3]
			} else {
				h.scratch[4*i+3] = 1
			}
		}
	default:
		d := h.planar
		if d.R == nil || d.G == nil || d.B == nil {
			return nil, n
		}
		off := h.y * d.Width
		for i := 0; i < n; i++ {
			h.scratch[4*i+0] = d.R[off+i]
			h.scratch[4*i+1] = d.G[off+i]
			h.scratch[4*i+2] = d.B[off+i]
			if d.A != nil {
				h.scratch[4*i+3] = d.A[off+i]
			} else {
				h.scratch[4*i+3] = 1
			}
		}
	}
	return h.scratch, n
}

// finishRGBAScanline writes the current row back and advances.
func (h *scanlineHelper) finishRGBAScanline() {
	if h.y >= h.height {
		return
	}
	n := h.width

	switch {
	case h.inPlace:
	case h.packed != nil:
		d := h.packed
		nch := d.channels()
		row := d.Data[h.y*d.stride():]
		for i := 0; i < n; i++ {
			px := row[i*nch:]
			px[0] = h.scratch[4*i+0]
			px[1] = h.scratch[4*i+1]
			px[2] = h.scratch[4*i+2]
			if nch > 3 {
				px[3] = h.scratch[4*i+3]
			}
		}
	default:
		d := h.planar
		off := h.y * d.Width
		for i := 0; i < n; i++ {
			d.R[off+i] = h.scratch[4*i+0]
			d.G[off+i] = h.scratch[4*i+1]
			d.B[off+i] = h.scratch[4*i+2]
			if d.A != nil {
				d.A[off+i] = h.scratch[4*i+3]
			}
		}
	}
	h.y++
}
