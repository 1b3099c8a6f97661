package codec

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

func aRandomBitmap(size int) *bitmap.Bitmap {
	b := bitmap.MustNew(size)
	for y := range size {
		for x := range size {
			_ = b.Set(x, y, rand.IntN(2) == 1)
		}
	}
	_ = b.SetColor(uint8(rand.IntN(bitmap.MaxColor + 1)))
	return b
}

func assertBitmapsIdentical(t *testing.T, b1 bitmap.Reader, b2 bitmap.Reader) {
	if b1.Width() != b2.Width() {
		t.Errorf("Bitmaps not of equal width: %s %s", b1, b2)
	}
	if b1.Height() != b2.Height() {
		t.Errorf("Bitmaps not of equal height: %s %s", b1, b2)
	}
	width, height := b1.Width(), b1.Height()

	for y := range height {
		for x := range width {
			bit1, bit2 := b1.GetBit(x, y), b2.GetBit(x, y)
			if bit1 != bit2 {
				t.Errorf("Bit at (%v, %v) doesn't match: %v vs %v", x, y, bit1, bit2)
			}
		}
	}
}

func TestPack(t *testing.T) {
	b := bitmap.MustNew(bitmap.Small)
	require.NoError(t, b.Set(0, 0, true))
	require.NoError(t, b.Set(7, 1, true))

	packed := Pack(b)
	assertBitmapsIdentical(t, b, packed)
	assert.Equal(t, byte(0x80), packed.Data()[0])
	assert.Equal(t, byte(0x01), packed.Data()[1])
}

func TestPackedGetBit(t *testing.T) {
	t.Run("16 wide rows read left byte first", func(t *testing.T) {
		packed, err := Unpacked([]byte{0x80, 0x01}, bitmap.Large, 1)
		require.NoError(t, err)
		for x := range bitmap.Large {
			expected := byte(0)
			if x == 0 || x == 15 {
				expected = 1
			}
			assert.Equal(t, expected, packed.GetBit(x, 0), "pixel %d", x)
		}
	})

	t.Run("partial last byte is left aligned", func(t *testing.T) {
		packed, err := Unpacked([]byte{0b1010_0000, 0b0100_0000}, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 0, 1}, []byte{packed.GetBit(0, 0), packed.GetBit(1, 0), packed.GetBit(2, 0)})
		assert.Equal(t, []byte{0, 1, 0}, []byte{packed.GetBit(0, 1), packed.GetBit(1, 1), packed.GetBit(2, 1)})

		repacked := Pack(packed)
		assert.Equal(t, packed.Data(), repacked.Data())
		assertBitmapsIdentical(t, packed, repacked)
	})
}

func TestPackMany(t *testing.T) {
	const testCaseCount = 30

	for i := range testCaseCount {
		size := bitmap.Small
		if i%2 == 1 {
			size = bitmap.Large
		}
		testBitmap := aRandomBitmap(size)
		t.Run(fmt.Sprintf("test %v: %s", i, testBitmap.String()), func(t *testing.T) {
			packed := Pack(testBitmap)
			assertBitmapsIdentical(t, testBitmap, packed)
			packedAgain := Pack(packed)
			assertBitmapsIdentical(t, packed, packedAgain)
		})
	}
}

func TestEncodeBitmapLayout(t *testing.T) {
	t.Run("8x8 is one byte per row", func(t *testing.T) {
		b := bitmap.MustNew(bitmap.Small)
		b.SetRow(2, 0x0F)
		data := EncodeBitmap(b)
		require.Len(t, data, 8)
		assert.Equal(t, byte(0xF0), data[2])
	})

	t.Run("16x16 is two bytes per row, left half first", func(t *testing.T) {
		b := bitmap.MustNew(bitmap.Large)
		require.NoError(t, b.Set(0, 0, true))
		require.NoError(t, b.Set(15, 0, true))
		require.NoError(t, b.Set(8, 1, true))
		data := EncodeBitmap(b)
		require.Len(t, data, 32)
		assert.Equal(t, []byte{0x80, 0x01, 0x00, 0x80}, data[:4])
	})
}

func TestBitmapRoundTrip(t *testing.T) {
	for _, size := range []int{bitmap.Small, bitmap.Large} {
		for i := range 10 {
			b := aRandomBitmap(size)
			t.Run(fmt.Sprintf("%d/%d", size, i), func(t *testing.T) {
				decoded, err := DecodeBitmap(size, EncodeBitmap(b))
				require.NoError(t, err)
				assert.Equal(t, b.Rows(), decoded.Rows())
			})
		}
	}
}

func TestDecodeBitmapRejectsBadLength(t *testing.T) {
	_, err := DecodeBitmap(bitmap.Large, make([]byte, 8))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = DecodeBitmap(12, make([]byte, 12))
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSpriteRoundTrip(t *testing.T) {
	for _, size := range []int{bitmap.Small, bitmap.Large} {
		b := aRandomBitmap(size)
		record := EncodeSprite(b)
		assert.Len(t, record, 2+PatternLen(size))

		decoded, err := DecodeSprite(record)
		require.NoError(t, err)
		assert.True(t, b.Equal(decoded))
	}
}

func TestDecodeSpriteRejects(t *testing.T) {
	good := EncodeSprite(aRandomBitmap(bitmap.Small))

	cases := map[string][]byte{
		"empty":         {},
		"size mismatch": append([]byte{16, 1}, good[2:]...),
		"bad colour":    append([]byte{8, 16}, good[2:]...),
		"truncated":     good[:9],
		"bad size":      append([]byte{9, 1}, good[2:]...),
	}
	for name, record := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSprite(record)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestBrushRoundTrip(t *testing.T) {
	mask := bitmap.MustNew(MaxBrushSize)
	for y := range 2 {
		for x := range 4 {
			require.NoError(t, mask.Set(x, y, true))
		}
	}
	record, err := EncodeBrush(BrushRecord{Name: "4x2 (rect)", Width: 4, Height: 2, Mask: mask})
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 2, 0xF0, 0xF0}, record[:4])
	assert.Equal(t, "4x2 (rect)", string(record[4:]))

	decoded, err := DecodeBrush(record)
	require.NoError(t, err)
	assert.Equal(t, "4x2 (rect)", decoded.Name)
	assert.Equal(t, 4, decoded.Width)
	assert.Equal(t, 2, decoded.Height)
	assert.Equal(t, mask.Rows(), decoded.Mask.Rows())
}

func TestDecodeBrushClipsToDimensions(t *testing.T) {
	decoded, err := DecodeBrush([]byte{2, 1, 0xFF, 'x'})
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Mask.Count())
}

func TestBrushRecordRejects(t *testing.T) {
	_, err := EncodeBrush(BrushRecord{Name: "big", Width: 9, Height: 1, Mask: bitmap.MustNew(8)})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = EncodeBrush(BrushRecord{Name: "no mask", Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	for name, record := range map[string][]byte{
		"short":     {1},
		"zero wide": {0, 1, 0x80},
		"truncated": {3, 3, 0xE0},
		"bad name":  {1, 1, 0x80, 0xFF, 0xFE},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBrush(record)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestDecodeAllIsolatesFailures(t *testing.T) {
	good := aRandomBitmap(bitmap.Small)
	records := map[int][]byte{
		0: EncodeSprite(good),
		1: {8, 1, 0x00},
		2: EncodeSprite(aRandomBitmap(bitmap.Small)),
	}

	decoded, failed := DecodeAll(records, DecodeSprite)
	assert.Len(t, decoded, 2)
	assert.True(t, good.Equal(decoded[0]))
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[1], ErrMalformedRecord)
}
