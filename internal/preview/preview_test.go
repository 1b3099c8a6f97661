package preview

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/canvas"
	"tomgalvin.uk/msxsprite/internal/project"
)

func TestPalette(t *testing.T) {
	require.Len(t, Palette, bitmap.MaxColor+1)
	_, _, _, a := Palette[Transparent].RGBA()
	assert.Zero(t, a)
}

func TestSprite(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	require.NoError(t, b.Set(2, 5, true))
	require.NoError(t, b.SetColor(8))

	img := Sprite(b)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.Equal(t, uint8(8), img.ColorIndexAt(2, 5))
	assert.Equal(t, uint8(Transparent), img.ColorIndexAt(0, 0))
}

func TestRenderOverlay(t *testing.T) {
	p, err := project.New("p", bitmap.Small)
	require.NoError(t, err)
	require.NoError(t, p.Sprites[0].Bitmap.SetColor(4))
	require.NoError(t, p.Sprites[1].Bitmap.SetColor(9))
	require.NoError(t, p.Sprites[0].Bitmap.Set(1, 1, true))
	require.NoError(t, p.Sprites[1].Bitmap.Set(1, 1, true))
	require.NoError(t, p.Sprites[1].Bitmap.Set(3, 3, true))

	s, err := canvas.New(p, canvas.Overlay, 0, 2)
	require.NoError(t, err)
	o := s.(*canvas.OverlaySurface)

	img, err := Render(o.Width(), o.Height(), o.Composite)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), img.ColorIndexAt(1, 1))
	assert.Equal(t, uint8(9), img.ColorIndexAt(3, 3))
	assert.Equal(t, uint8(Transparent), img.ColorIndexAt(5, 5))

	_, err = Render(9, 9, o.Composite)
	assert.ErrorIs(t, err, bitmap.ErrOutOfBounds)
}

func TestSheet(t *testing.T) {
	p, err := project.New("p", bitmap.Large)
	require.NoError(t, err)
	require.NoError(t, p.Sprites[9].Bitmap.Set(0, 0, true))

	img := Sheet(p, 1)
	assert.Equal(t, 8*17-1, img.Bounds().Dx())
	assert.Equal(t, uint8(bitmap.DefaultColor), img.ColorIndexAt(17, 17))
}

func TestScaled(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	require.NoError(t, b.Set(1, 0, true))

	img, err := Scaled(Sprite(b), 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())
	for y := range 3 {
		for x := 3; x < 6; x++ {
			assert.Equal(t, uint8(bitmap.DefaultColor), img.ColorIndexAt(x, y))
		}
	}
	assert.Equal(t, uint8(Transparent), img.ColorIndexAt(2, 0))

	_, err = Scaled(Sprite(b), 0)
	assert.Error(t, err)
}

func TestANSI(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	require.NoError(t, b.Set(0, 0, true))
	out := ANSI(Sprite(b))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[48;2;255;255;255m  "))
}
