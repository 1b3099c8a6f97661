// This package defines the single-colour bitmap that every sprite and brush
// is built on: a square mask 8 or 16 pixels a side, stored as one integer per
// row, with a single colour index shared by all of its "on" pixels.
//
// Bit j of row i represents pixel (j, i), bit 0 being the least significant.
package bitmap

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	ErrOutOfBounds  = errors.New("coordinate out of bounds")
	ErrInvalidSize  = errors.New("bitmap size must be 8 or 16")
	ErrInvalidColor = errors.New("colour index must be between 0 and 15")
)

const (
	Small = 8
	Large = 16

	MaxColor     = 15
	DefaultColor = 15
)

// Reader is anything that exposes a rectangle of bits. The codec packs any
// Reader into bytes, and the preview package renders one.
type Reader interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

type Bitmap struct {
	size  int
	rows  []uint16
	color uint8
}

// ValidSize reports whether size is one of the sprite sizes the hardware
// supports.
func ValidSize(size int) bool {
	return size == Small || size == Large
}

func New(size int) (*Bitmap, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Bitmap{
		size:  size,
		rows:  make([]uint16, size),
		color: DefaultColor,
	}, nil
}

// MustNew is New for sizes known at compile time.
func MustNew(size int) *Bitmap {
	b, err := New(size)
	if err != nil {
		panic(err)
	}
	return b
}

// FromRows builds a bitmap from row values. Bits above the bitmap width are
// discarded.
func FromRows(size int, rows []uint16) (*Bitmap, error) {
	b, err := New(size)
	if err != nil {
		return nil, err
	}
	if len(rows) != size {
		return nil, fmt.Errorf("%w: %d rows for a %dx%d bitmap", ErrInvalidSize, len(rows), size, size)
	}
	mask := b.Mask()
	for i, r := range rows {
		b.rows[i] = r & mask
	}
	return b, nil
}

func (b *Bitmap) Size() int {
	return b.size
}

func (b *Bitmap) Width() int {
	return b.size
}

func (b *Bitmap) Height() int {
	return b.size
}

func (b *Bitmap) Color() uint8 {
	return b.color
}

func (b *Bitmap) SetColor(c uint8) error {
	if c > MaxColor {
		return fmt.Errorf("%w: got %d", ErrInvalidColor, c)
	}
	b.color = c
	return nil
}

// Mask returns a row value with every pixel of the row on.
func (b *Bitmap) Mask() uint16 {
	return uint16((1 << b.size) - 1)
}

func (b *Bitmap) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b *Bitmap) checkBounds(x, y int) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d bitmap", ErrOutOfBounds, x, y, b.size, b.size)
	}
	return nil
}

func (b *Bitmap) Get(x, y int) (bool, error) {
	if err := b.checkBounds(x, y); err != nil {
		return false, err
	}
	return b.rows[y]&(1<<x) != 0, nil
}

func (b *Bitmap) Set(x, y int, on bool) error {
	if err := b.checkBounds(x, y); err != nil {
		return err
	}
	if on {
		b.rows[y] |= 1 << x
	} else {
		b.rows[y] &^= 1 << x
	}
	return nil
}

// Gets a single bit from the bitmap at the (x, y) coordinate, returns either 0 or 1.
// Coordinates outside the bitmap read as 0.
func (b *Bitmap) GetBit(x int, y int) byte {
	if !b.inBounds(x, y) {
		return 0
	}
	return byte(b.rows[y]>>x) & 1
}

func (b *Bitmap) Clear() {
	for i := range b.rows {
		b.rows[i] = 0
	}
}

func (b *Bitmap) Fill() {
	mask := b.Mask()
	for i := range b.rows {
		b.rows[i] = mask
	}
}

func (b *Bitmap) Invert() {
	mask := b.Mask()
	for i := range b.rows {
		b.rows[i] = ^b.rows[i] & mask
	}
}

// FlipHorizontal mirrors the bitmap left to right.
func (b *Bitmap) FlipHorizontal() {
	for i, r := range b.rows {
		b.rows[i] = bits.Reverse16(r) >> (16 - b.size)
	}
}

// FlipVertical mirrors the bitmap top to bottom.
func (b *Bitmap) FlipVertical() {
	for i, j := 0, b.size-1; i < j; i, j = i+1, j-1 {
		b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	}
}

// Row returns the value of row y. Callers are expected to stay within the
// bitmap; the shift engine is the only user.
func (b *Bitmap) Row(y int) uint16 {
	return b.rows[y]
}

func (b *Bitmap) SetRow(y int, v uint16) {
	b.rows[y] = v & b.Mask()
}

// Column returns column x packed into an integer, bit i holding pixel (x, i).
func (b *Bitmap) Column(x int) uint16 {
	var col uint16
	for y, r := range b.rows {
		col |= ((r >> x) & 1) << y
	}
	return col
}

func (b *Bitmap) SetColumn(x int, col uint16) {
	for y := range b.rows {
		if col&(1<<y) != 0 {
			b.rows[y] |= 1 << x
		} else {
			b.rows[y] &^= 1 << x
		}
	}
}

// Rows returns a copy of the row values.
func (b *Bitmap) Rows() []uint16 {
	rows := make([]uint16, len(b.rows))
	copy(rows, b.rows)
	return rows
}

// Count returns the number of pixels that are on.
func (b *Bitmap) Count() int {
	n := 0
	for _, r := range b.rows {
		n += bits.OnesCount16(r)
	}
	return n
}

func (b *Bitmap) IsEmpty() bool {
	for _, r := range b.rows {
		if r != 0 {
			return false
		}
	}
	return true
}

func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		size:  b.size,
		rows:  b.Rows(),
		color: b.color,
	}
}

// CopyFrom overwrites the pixels and colour of b with those of src. Both
// bitmaps must be the same size.
func (b *Bitmap) CopyFrom(src *Bitmap) error {
	if src.size != b.size {
		return fmt.Errorf("%w: can't copy %dx%d bitmap into %dx%d", ErrInvalidSize, src.size, src.size, b.size, b.size)
	}
	copy(b.rows, src.rows)
	b.color = src.color
	return nil
}

// Equal reports whether both bitmaps have the same size, pixels and colour.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.size != other.size || b.color != other.color {
		return false
	}
	for i := range b.rows {
		if b.rows[i] != other.rows[i] {
			return false
		}
	}
	return true
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("Bitmap(%d,%d)", b.size, b.size)
}

// Art renders the bitmap as text, one line per row, '#' for on and '.' for off.
func (b *Bitmap) Art() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.GetBit(x, y) == 1 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
