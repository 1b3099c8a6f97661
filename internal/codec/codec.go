// Package codec converts sprites and brushes to and from the byte records
// kept in storage.
//
// A pattern is stored row by row, top row first. Each row is a stream of
// pixels with the leftmost pixel in the most significant bit of its first
// byte, so an 8 pixel row is one byte and a 16 pixel row is two bytes, left
// half first. This matches the way the VDP reads sprite patterns from VRAM.
//
// Sprite record: [size][colour][pattern: 8 or 32 bytes]
// Brush record:  [width][height][one pattern byte per row][name, UTF-8]
package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

var ErrMalformedRecord = errors.New("malformed record")

// MaxBrushSize is the largest brush width or height.
const MaxBrushSize = 8

// PatternLen returns the number of bytes a pattern of the given size occupies.
func PatternLen(size int) int {
	return strideOf(size) * size
}

// EncodeBitmap returns the pattern bytes of b: 8 bytes for an 8x8 bitmap and
// 32 for a 16x16 one.
func EncodeBitmap(b *bitmap.Bitmap) []byte {
	return Pack(b).Data()
}

// DecodeBitmap reads a pattern of the given size. The result has the default
// colour.
func DecodeBitmap(size int, data []byte) (*bitmap.Bitmap, error) {
	if !bitmap.ValidSize(size) {
		return nil, fmt.Errorf("%w: pattern size %d", ErrMalformedRecord, size)
	}
	packed, err := Unpacked(data, size, size)
	if err != nil {
		return nil, err
	}
	b := bitmap.MustNew(size)
	copyBits(b, packed)
	return b, nil
}

func copyBits(dst *bitmap.Bitmap, src bitmap.Reader) {
	for y := range src.Height() {
		for x := range src.Width() {
			if src.GetBit(x, y) == 1 {
				// Both readers are bounded by dst, so this can't fail.
				_ = dst.Set(x, y, true)
			}
		}
	}
}

// EncodeSprite produces the storage record of a sprite bitmap.
func EncodeSprite(b *bitmap.Bitmap) []byte {
	pattern := EncodeBitmap(b)
	record := make([]byte, 0, 2+len(pattern))
	record = append(record, byte(b.Size()), b.Color())
	return append(record, pattern...)
}

// DecodeSprite parses a sprite record, checking the declared size, the colour
// and the pattern length agree.
func DecodeSprite(record []byte) (*bitmap.Bitmap, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("%w: sprite record of %d bytes", ErrMalformedRecord, len(record))
	}
	size, color := int(record[0]), record[1]
	if color > bitmap.MaxColor {
		return nil, fmt.Errorf("%w: colour %d", ErrMalformedRecord, color)
	}
	b, err := DecodeBitmap(size, record[2:])
	if err != nil {
		return nil, fmt.Errorf("Couldn't decode sprite:\n%w", err)
	}
	if err := b.SetColor(color); err != nil {
		return nil, err
	}
	return b, nil
}

// BrushRecord is the stored form of a brush. Mask is always 8x8; cells
// outside Width x Height are off.
type BrushRecord struct {
	Name          string
	Width, Height int
	Mask          *bitmap.Bitmap
}

func validBrushDims(width, height int) bool {
	return width >= 1 && height >= 1 && width <= MaxBrushSize && height <= MaxBrushSize
}

func EncodeBrush(r BrushRecord) ([]byte, error) {
	if !validBrushDims(r.Width, r.Height) {
		return nil, fmt.Errorf("%w: brush %q is %dx%d", ErrMalformedRecord, r.Name, r.Width, r.Height)
	}
	if r.Mask == nil || r.Mask.Size() != MaxBrushSize {
		return nil, fmt.Errorf("%w: brush %q needs an 8x8 mask", ErrMalformedRecord, r.Name)
	}
	pattern := Pack(r.Mask).Rows(0, r.Height).Data()

	record := make([]byte, 0, 2+len(pattern)+len(r.Name))
	record = append(record, byte(r.Width), byte(r.Height))
	record = append(record, pattern...)
	return append(record, r.Name...), nil
}

func DecodeBrush(record []byte) (BrushRecord, error) {
	if len(record) < 2 {
		return BrushRecord{}, fmt.Errorf("%w: brush record of %d bytes", ErrMalformedRecord, len(record))
	}
	width, height := int(record[0]), int(record[1])
	if !validBrushDims(width, height) {
		return BrushRecord{}, fmt.Errorf("%w: brush is %dx%d", ErrMalformedRecord, width, height)
	}
	if len(record) < 2+height {
		return BrushRecord{}, fmt.Errorf("%w: brush record truncated", ErrMalformedRecord)
	}
	name := record[2+height:]
	if !utf8.Valid(name) {
		return BrushRecord{}, fmt.Errorf("%w: brush name is not UTF-8", ErrMalformedRecord)
	}

	packed, err := Unpacked(record[2:2+height], MaxBrushSize, height)
	if err != nil {
		return BrushRecord{}, err
	}
	mask := bitmap.MustNew(MaxBrushSize)
	for y := range height {
		for x := range width {
			if packed.GetBit(x, y) == 1 {
				_ = mask.Set(x, y, true)
			}
		}
	}
	return BrushRecord{
		Name:   string(name),
		Width:  width,
		Height: height,
		Mask:   mask,
	}, nil
}

// DecodeAll decodes a batch of keyed records. A record that fails to decode
// doesn't stop the others; its error is returned under its key instead.
func DecodeAll[K comparable, T any](records map[K][]byte, decode func([]byte) (T, error)) (map[K]T, map[K]error) {
	decoded := make(map[K]T, len(records))
	failed := make(map[K]error)
	for key, record := range records {
		v, err := decode(record)
		if err != nil {
			failed[key] = err
			continue
		}
		decoded[key] = v
	}
	return decoded, failed
}
