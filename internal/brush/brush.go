// Package brush holds the small binary masks stamped along a stroke. A brush
// has no colour of its own; it draws with whatever colour is active.
package brush

import (
	"errors"
	"fmt"
	"math"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/codec"
)

const MaxSize = codec.MaxBrushSize

var ErrInvalidBrush = errors.New("invalid brush")

type Brush struct {
	Id          int
	Name        string
	Width       int
	Height      int
	Mask        *bitmap.Bitmap
	UserDefined bool
}

// Offset is a cell of a brush relative to its anchor.
type Offset struct {
	X, Y int
}

func clampSize(n int) int {
	return max(1, min(MaxSize, n))
}

func (b *Brush) Validate() error {
	if b.Width < 1 || b.Height < 1 || b.Width > MaxSize || b.Height > MaxSize {
		return fmt.Errorf("%w: %q is %dx%d, brushes are 1x1 to 8x8", ErrInvalidBrush, b.Name, b.Width, b.Height)
	}
	if b.Mask == nil || b.Mask.Size() != MaxSize {
		return fmt.Errorf("%w: %q has no 8x8 mask", ErrInvalidBrush, b.Name)
	}
	return nil
}

// Offsets lists the cells of the brush relative to its centre cell,
// (Width/2, Height/2).
func (b *Brush) Offsets() []Offset {
	ox, oy := b.Width/2, b.Height/2
	offsets := make([]Offset, 0, b.Width*b.Height)
	for y := range b.Height {
		for x := range b.Width {
			if b.Mask.GetBit(x, y) == 1 {
				offsets = append(offsets, Offset{x - ox, y - oy})
			}
		}
	}
	return offsets
}

func (b *Brush) String() string {
	return fmt.Sprintf("Brush(%s, %dx%d)", b.Name, b.Width, b.Height)
}

// Record converts the brush to its storage form.
func (b *Brush) Record() codec.BrushRecord {
	return codec.BrushRecord{
		Name:   b.Name,
		Width:  b.Width,
		Height: b.Height,
		Mask:   b.Mask,
	}
}

func FromRecord(r codec.BrushRecord) *Brush {
	return &Brush{
		Name:   r.Name,
		Width:  r.Width,
		Height: r.Height,
		Mask:   r.Mask,
	}
}

func fromCells(name string, width, height int, on func(x, y int) bool) *Brush {
	mask := bitmap.MustNew(MaxSize)
	for y := range height {
		for x := range width {
			if on(x, y) {
				_ = mask.Set(x, y, true)
			}
		}
	}
	return &Brush{Name: name, Width: width, Height: height, Mask: mask}
}

// Rect is a solid width x height brush. Dimensions are clamped to 1..8.
func Rect(name string, width, height int) *Brush {
	width, height = clampSize(width), clampSize(height)
	return fromCells(name, width, height, func(int, int) bool { return true })
}

func Square(name string, size int) *Brush {
	return Rect(name, size, size)
}

// Round is a disc of the given diameter, clamped to 1..8.
func Round(name string, diameter int) *Brush {
	d := clampSize(diameter)
	r := float64(d-1) / 2
	return fromCells(name, d, d, func(x, y int) bool {
		return math.Hypot(float64(x)-r, float64(y)-r) <= r+0.001
	})
}

// Defaults are the brushes every new database starts with.
func Defaults() []*Brush {
	return []*Brush{
		Square("1x1 (pixel)", 1),
		Rect("2x2 (rect)", 2, 2),
		Round("3x3 (round)", 3),
		Rect("4x2 (rect)", 4, 2),
		Rect("2x4 (rect)", 2, 4),
		Round("5x5 (round)", 5),
	}
}

type EraserShape int

const (
	SquareEraser EraserShape = iota
	RoundEraser
)

// MaxEraserSize is the largest eraser the editor offers.
const MaxEraserSize = 4

// Eraser builds the brush used to clear pixels, 1 to 4 cells across.
func Eraser(shape EraserShape, size int) *Brush {
	size = max(1, min(MaxEraserSize, size))
	name := fmt.Sprintf("eraser %dx%d", size, size)
	if shape == RoundEraser {
		return Round(name, size)
	}
	return Square(name, size)
}
