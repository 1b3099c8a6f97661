// This file packs bitmap pixels into rows of bytes, most significant bit
// first, the layout the VDP reads sprite patterns in.

package codec

import (
	"fmt"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

// Packed is a bitmap stored as rows of bytes, stride bytes per row, pixel 0
// of each row in the most significant bit of its first byte. Unused low bits
// of a partial last byte are zero.
type Packed struct {
	data                  []byte
	width, height, stride int
}

const bitsPerWord = 8

// Unpacked wraps already-packed bytes. data must hold exactly height rows of
// stride bytes.
func Unpacked(data []byte, width, height int) (*Packed, error) {
	stride := strideOf(width)
	if len(data) != stride*height {
		return nil, fmt.Errorf("%w: %d bytes for a %dx%d pattern, want %d", ErrMalformedRecord, len(data), width, height, stride*height)
	}
	return &Packed{data, width, height, stride}, nil
}

func strideOf(width int) int {
	return (width + bitsPerWord - 1) / bitsPerWord
}

func (b *Packed) Width() int {
	return b.width
}

func (b *Packed) Height() int {
	return b.height
}

func (b *Packed) Stride() int {
	return b.stride
}

func (b *Packed) Data() []byte {
	return b.data
}

// GetBit returns pixel (x, y) as 0 or 1.
func (b *Packed) GetBit(x int, y int) byte {
	index := y*b.stride + x/bitsPerWord
	return (b.data[index] >> (bitsPerWord - 1 - x%bitsPerWord)) & 1
}

func (b *Packed) String() string {
	return fmt.Sprintf("Packed(%d,%d)", b.width, b.height)
}

// Rows takes a horizontal slice of the packed bitmap, height rows from start.
func (b *Packed) Rows(start int, height int) *Packed {
	return &Packed{
		data:   b.data[b.stride*start : b.stride*(start+height)],
		width:  b.width,
		height: height,
		stride: b.stride,
	}
}

// Pack takes data from any bitmap.Reader and packs it row by row.
func Pack(b bitmap.Reader) *Packed {
	width, height, stride := b.Width(), b.Height(), strideOf(b.Width())
	data := make([]byte, stride*height)

	var p byte = 0
	for y := range height {
		for x := range width {
			p = (p << 1) | (b.GetBit(x, y) & 1)

			if x == width-1 || x%bitsPerWord == bitsPerWord-1 {
				index := y*stride + (x / bitsPerWord)
				data[index] = p << (bitsPerWord - 1 - x%bitsPerWord)
				p = 0
			}
		}
	}

	return &Packed{data, width, height, stride}
}
