// Package preview renders sprites as in-memory images in the MSX1 palette,
// for thumbnails and previews.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/project"
)

// Palette is the TMS9918A palette. Index 0 is transparent.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0x00},
	color.RGBA{0x00, 0x00, 0x00, 0xFF},
	color.RGBA{0x21, 0xC8, 0x42, 0xFF},
	color.RGBA{0x5E, 0xDC, 0x78, 0xFF},
	color.RGBA{0x54, 0x55, 0xED, 0xFF},
	color.RGBA{0x7D, 0x76, 0xFC, 0xFF},
	color.RGBA{0xD4, 0x52, 0x4D, 0xFF},
	color.RGBA{0x42, 0xEB, 0xF5, 0xFF},
	color.RGBA{0xFC, 0x55, 0x54, 0xFF},
	color.RGBA{0xFF, 0x79, 0x78, 0xFF},
	color.RGBA{0xD4, 0xC1, 0x54, 0xFF},
	color.RGBA{0xE6, 0xCE, 0x80, 0xFF},
	color.RGBA{0x21, 0xB0, 0x3B, 0xFF},
	color.RGBA{0xC9, 0x5B, 0xBA, 0xFF},
	color.RGBA{0xCC, 0xCC, 0xCC, 0xFF},
	color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
}

// Transparent is the palette index of cells that are off.
const Transparent = 0

// CompositeFunc reports whether a cell is on and the colour it shows.
type CompositeFunc func(x, y int) (bool, uint8, error)

// Render paints a width x height image from a composite function, such as
// an editing session's.
func Render(width, height int, at CompositeFunc) (*image.Paletted, error) {
	img := image.NewPaletted(image.Rect(0, 0, width, height), Palette)
	for y := range height {
		for x := range width {
			on, c, err := at(x, y)
			if err != nil {
				return nil, err
			}
			if on {
				img.SetColorIndex(x, y, c)
			}
		}
	}
	return img, nil
}

// Sprite renders one bitmap in its own colour.
func Sprite(b *bitmap.Bitmap) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, b.Width(), b.Height()), Palette)
	drawSprite(img, image.Point{}, b)
	return img
}

func drawSprite(img *image.Paletted, at image.Point, b *bitmap.Bitmap) {
	for y := range b.Height() {
		for x := range b.Width() {
			if b.GetBit(x, y) == 1 {
				img.SetColorIndex(at.X+x, at.Y+y, b.Color())
			}
		}
	}
}

// Sheet lays every sprite of a project out in its grid, with gap transparent
// pixels between sprites.
func Sheet(p *project.Project, gap int) *image.Paletted {
	cell := p.SpriteSize + gap
	img := image.NewPaletted(image.Rect(0, 0, p.Cols*cell-gap, p.Rows*cell-gap), Palette)
	for i, sp := range p.Sprites {
		col, row := p.Position(i)
		drawSprite(img, image.Pt(col*cell, row*cell), sp.Bitmap)
	}
	return img
}

// Scaled enlarges src by an integer factor, keeping pixels square.
func Scaled(src image.Image, scale int) (*image.Paletted, error) {
	if scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale), Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// ANSI draws an image for a true colour terminal, two columns per pixel.
// Transparent pixels use the terminal background.
func ANSI(img image.Image) string {
	var sb strings.Builder
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				sb.WriteString("\x1b[0m  ")
				continue
			}
			fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", r>>8, g>>8, bl>>8)
		}
		sb.WriteString("\x1b[0m\n")
	}
	return sb.String()
}
