package shift

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

func aRandomBitmap(size int) *bitmap.Bitmap {
	rows := make([]uint16, size)
	for i := range rows {
		rows[i] = uint16(rand.IntN(1 << size))
	}
	b, err := bitmap.FromRows(size, rows)
	if err != nil {
		panic(err)
	}
	return b
}

func TestWrapShiftIsInvertible(t *testing.T) {
	for _, size := range []int{bitmap.Small, bitmap.Large} {
		for _, dir := range Directions {
			t.Run(dir.String(), func(t *testing.T) {
				b := aRandomBitmap(size)
				original := b.Clone()

				require.NoError(t, Shift(b, nil, dir, Wrap))
				require.NoError(t, Shift(b, nil, dir.Opposite(), Wrap))
				assert.True(t, original.Equal(b), "expected\n%s\ngot\n%s", original.Art(), b.Art())
			})
		}
	}
}

func TestWrapShiftFullCycle(t *testing.T) {
	b := aRandomBitmap(bitmap.Small)
	original := b.Clone()
	for i := 0; i < bitmap.Small; i++ {
		require.NoError(t, Shift(b, nil, Right, Wrap))
	}
	assert.True(t, original.Equal(b))
}

func TestShiftMovesPixels(t *testing.T) {
	cases := []struct {
		dir   Direction
		x, y  int
		wantX int
		wantY int
	}{
		{Left, 3, 4, 2, 4},
		{Right, 3, 4, 4, 4},
		{Up, 3, 4, 3, 3},
		{Down, 3, 4, 3, 5},
		{Left, 0, 2, 7, 2},
		{Down, 5, 7, 5, 0},
	}
	for _, c := range cases {
		t.Run(c.dir.String(), func(t *testing.T) {
			b := bitmap.MustNew(bitmap.Small)
			require.NoError(t, b.Set(c.x, c.y, true))
			require.NoError(t, Shift(b, nil, c.dir, Wrap))

			on, err := b.Get(c.wantX, c.wantY)
			require.NoError(t, err)
			assert.True(t, on)
			assert.Equal(t, 1, b.Count())
		})
	}
}

func TestBufferShiftRecoversRow(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	b.SetRow(0, 0xFF)
	bufs := NewBuffers(bitmap.Small)

	require.NoError(t, Shift(b, bufs, Up, Buffered))
	assert.Equal(t, uint16(0), b.Row(0))
	assert.Equal(t, 1, bufs.Get(Up).Len())
	assert.True(t, b.IsEmpty())

	require.NoError(t, Shift(b, bufs, Down, Buffered))
	assert.Equal(t, uint16(0xFF), b.Row(0))
	assert.Equal(t, 0, bufs.Get(Up).Len())
}

func TestBufferShiftRecoversColumns(t *testing.T) {
	b := aRandomBitmap(bitmap.Large)
	original := b.Clone()
	bufs := NewBuffers(bitmap.Large)

	for i := 0; i < 5; i++ {
		require.NoError(t, Shift(b, bufs, Left, Buffered))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, Shift(b, bufs, Right, Buffered))
	}
	assert.True(t, original.Equal(b))
	assert.Equal(t, 0, bufs.Get(Left).Len())
}

func TestBufferCapacity(t *testing.T) {
	for _, size := range []int{bitmap.Small, bitmap.Large} {
		b := aRandomBitmap(size)
		bufs := NewBuffers(size)
		for i := 0; i < size+1; i++ {
			require.NoError(t, Shift(b, bufs, Up, Buffered))
		}
		assert.Equal(t, size, bufs.Get(Up).Len())
		assert.True(t, b.IsEmpty())
	}
}

func TestBufferEvictsOldest(t *testing.T) {
	buf := NewBuffer(3)
	for _, line := range []uint16{1, 2, 3, 4} {
		buf.Push(line)
	}
	assert.Equal(t, []uint16{2, 3, 4}, buf.Entries())

	line, ok := buf.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint16(4), line)

	buf.Pop()
	buf.Pop()
	_, ok = buf.Pop()
	assert.False(t, ok)
}

func TestBuffersCloneIsDeep(t *testing.T) {
	bufs := NewBuffers(bitmap.Small)
	bufs.Get(Right).Push(7)
	clone := bufs.Clone()
	assert.True(t, bufs.Equal(clone))

	bufs.Get(Right).Push(9)
	assert.False(t, bufs.Equal(clone))
	assert.Equal(t, 1, clone.Get(Right).Len())
}

func TestParse(t *testing.T) {
	d, err := ParseDirection("Up")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrUnknownDirection)

	m, err := ParseMode("buffer")
	require.NoError(t, err)
	assert.Equal(t, Buffered, m)
	assert.Equal(t, "buffer", m.String())
	m, err = ParseMode("buf")
	require.NoError(t, err)
	assert.Equal(t, Buffered, m)

	_, err = ParseMode("bounce")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBufferShiftNeedsBuffers(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	assert.Error(t, Shift(b, nil, Left, Buffered))
	assert.ErrorIs(t, Shift(b, NewBuffers(bitmap.Large), Left, Buffered), bitmap.ErrInvalidSize)
}
