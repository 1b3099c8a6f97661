// Package shift moves the contents of a bitmap one pixel in a direction,
// either rotating it or parking the lines that fall off the edge in a
// per-direction buffer so that shifting back restores them.
package shift

import (
	"errors"
	"fmt"
	"strings"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

var (
	ErrUnknownDirection = errors.New("unknown shift direction")
	ErrUnknownMode      = errors.New("unknown shift mode")
)

type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Directions lists every direction in buffer order.
var Directions = [4]Direction{Left, Right, Up, Down}

func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

type Mode int

const (
	Wrap Mode = iota
	Buffered
)

func (m Mode) String() string {
	if m == Buffered {
		return "buffer"
	}
	return "wrap"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "wrap":
		return Wrap, nil
	case "buffer", "buf":
		return Buffered, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Shift moves b one pixel towards dir. In Buffered mode the line leaving the
// bitmap is pushed onto bufs' buffer for dir, and the line entering it is
// popped from the buffer of the opposite direction, or blank if that buffer
// is empty. bufs may be nil in Wrap mode.
func Shift(b *bitmap.Bitmap, bufs *Buffers, dir Direction, mode Mode) error {
	if mode == Buffered && bufs == nil {
		return errors.New("buffer shift needs shift buffers")
	}
	if mode == Buffered && bufs.Size() != b.Size() {
		return fmt.Errorf("%w: %d-line buffers for a %dx%d bitmap", bitmap.ErrInvalidSize, bufs.Size(), b.Size(), b.Size())
	}

	last := b.Size() - 1
	var exiting uint16
	switch dir {
	case Left:
		exiting = b.Column(0)
	case Right:
		exiting = b.Column(last)
	case Up:
		exiting = b.Row(0)
	case Down:
		exiting = b.Row(last)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDirection, int(dir))
	}

	entering := exiting
	if mode == Buffered {
		bufs.Get(dir).Push(exiting)
		entering, _ = bufs.Get(dir.Opposite()).Pop()
	}

	switch dir {
	case Left:
		for y := 0; y <= last; y++ {
			b.SetRow(y, b.Row(y)>>1)
		}
		b.SetColumn(last, entering)
	case Right:
		for y := 0; y <= last; y++ {
			b.SetRow(y, b.Row(y)<<1)
		}
		b.SetColumn(0, entering)
	case Up:
		for y := 0; y < last; y++ {
			b.SetRow(y, b.Row(y+1))
		}
		b.SetRow(last, entering)
	case Down:
		for y := last; y > 0; y-- {
			b.SetRow(y, b.Row(y-1))
		}
		b.SetRow(0, entering)
	}
	return nil
}
