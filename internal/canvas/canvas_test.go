package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/project"
)

func aProject(t *testing.T, size int) *project.Project {
	p, err := project.New("test", size)
	require.NoError(t, err)
	return p
}

func TestSingle(t *testing.T) {
	p := aProject(t, bitmap.Small)
	s, err := New(p, Single, 5, 1)
	require.NoError(t, err)

	assert.Equal(t, 8, s.Width())
	assert.Equal(t, 8, s.Height())
	require.NoError(t, s.Set(2, 3, true))

	on, err := p.Sprites[5].Bitmap.Get(2, 3)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []int{5}, s.Targets())

	assert.ErrorIs(t, s.Set(8, 0, true), bitmap.ErrOutOfBounds)
	_, err = s.Get(-1, 0)
	assert.ErrorIs(t, err, bitmap.ErrOutOfBounds)
}

func TestBlockMapping(t *testing.T) {
	p := aProject(t, bitmap.Small)
	s, err := New(p, Block, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, s.Width())
	assert.Equal(t, 16, s.Height())

	idx, lx, ly, err := s.Locate(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, lx)
	assert.Equal(t, 3, ly)

	cases := []struct {
		x, y, idx int
	}{
		{0, 0, 0},
		{15, 0, 1},
		{0, 8, 16},
		{15, 15, 17},
	}
	for _, c := range cases {
		idx, _, _, err := s.Locate(c.x, c.y)
		require.NoError(t, err)
		assert.Equal(t, c.idx, idx, "(%d, %d)", c.x, c.y)
	}

	require.NoError(t, s.Set(9, 3, true))
	on, err := p.Sprites[1].Bitmap.Get(1, 3)
	require.NoError(t, err)
	assert.True(t, on)
	assert.ElementsMatch(t, []int{0, 1, 16, 17}, s.Targets())

	_, _, _, err = s.Locate(16, 0)
	assert.ErrorIs(t, err, bitmap.ErrOutOfBounds)
}

func TestBlockFromAnyMember(t *testing.T) {
	p := aProject(t, bitmap.Large)
	s, err := New(p, Block, 9, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 8, 9}, s.Targets())
	assert.Equal(t, 32, s.Width())
}

func TestIncompleteBlock(t *testing.T) {
	p := aProject(t, bitmap.Small)
	p.Sprites = p.Sprites[:20]

	_, err := New(p, Block, 4, 1)
	assert.ErrorIs(t, err, ErrInvalidTopology)
	_, err = New(p, Overlay, 4, 1)
	assert.ErrorIs(t, err, ErrInvalidTopology)

	_, err = New(p, Single, 4, 1)
	assert.NoError(t, err)
	_, err = New(p, Single, 40, 1)
	assert.ErrorIs(t, err, ErrInvalidTopology)
}

func TestOverlayWritesActiveLayerOnly(t *testing.T) {
	p := aProject(t, bitmap.Small)
	s, err := New(p, Overlay, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Width())

	require.NoError(t, s.Set(4, 4, true))
	for i, idx := range []int{0, 1, 16, 17} {
		on, err := p.Sprites[idx].Bitmap.Get(4, 4)
		require.NoError(t, err)
		assert.Equal(t, i == 2, on, "layer %d", i+1)
	}
	assert.Equal(t, []int{16}, s.Targets())

	_, err = New(p, Overlay, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidLayer)
}

func TestOverlayComposite(t *testing.T) {
	p := aProject(t, bitmap.Small)
	s, err := New(p, Overlay, 0, 1)
	require.NoError(t, err)
	o := s.(*OverlaySurface)

	colors := []uint8{2, 6, 9, 13}
	for i, idx := range o.Layers() {
		require.NoError(t, p.Sprites[idx].Bitmap.SetColor(colors[i]))
	}

	// Layers 2, 3 and 4 all have (1, 1) on.
	for _, idx := range []int{1, 16, 17} {
		require.NoError(t, p.Sprites[idx].Bitmap.Set(1, 1, true))
	}
	require.NoError(t, p.Sprites[17].Bitmap.Set(6, 0, true))

	on, color, err := o.Composite(1, 1)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, uint8(6), color)

	on, color, err = o.Composite(6, 0)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, uint8(13), color)

	on, _, err = o.Composite(0, 7)
	require.NoError(t, err)
	assert.False(t, on)

	_, _, err = o.Composite(8, 8)
	assert.ErrorIs(t, err, bitmap.ErrOutOfBounds)
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"single": Single, "2x2": Block, "Overlay": Overlay} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, m)
		assert.NotEmpty(t, m.String())
	}
	_, err := ParseMode("3x3")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
