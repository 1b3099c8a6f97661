package raster

// Whole-surface edits. Each one reads the full surface before writing, so it
// works the same whether the surface is one sprite or a block of four.

func snapshot(s Surface) ([][]bool, error) {
	w, h := s.Width(), s.Height()
	src := make([][]bool, h)
	for y := range h {
		src[y] = make([]bool, w)
		for x := range w {
			on, err := s.Get(x, y)
			if err != nil {
				return nil, err
			}
			src[y][x] = on
		}
	}
	return src, nil
}

func transform(s Surface, f func(src [][]bool, x, y int) bool) error {
	src, err := snapshot(s)
	if err != nil {
		return err
	}
	for y := range s.Height() {
		for x := range s.Width() {
			if err := s.Set(x, y, f(src, x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlipHorizontal mirrors the surface left to right.
func FlipHorizontal(s Surface) error {
	w := s.Width()
	return transform(s, func(src [][]bool, x, y int) bool { return src[y][w-1-x] })
}

// FlipVertical mirrors the surface top to bottom.
func FlipVertical(s Surface) error {
	h := s.Height()
	return transform(s, func(src [][]bool, x, y int) bool { return src[h-1-y][x] })
}

func Invert(s Surface) error {
	return transform(s, func(src [][]bool, x, y int) bool { return !src[y][x] })
}

func Clear(s Surface) error {
	return transform(s, func([][]bool, int, int) bool { return false })
}

func FillAll(s Surface) error {
	return transform(s, func([][]bool, int, int) bool { return true })
}
