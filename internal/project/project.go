// A project is the full MSX1 sprite pattern table being edited: a grid of
// same-sized sprites, 256 of 8x8 or 64 of 16x16, addressed in row-major order.
package project

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"

	"tomgalvin.uk/msxsprite/internal/bitmap"
)

type Sprite struct {
	Bitmap   *bitmap.Bitmap
	Col, Row int
}

type Project struct {
	Id         int
	Uuid       uuid.UUID
	Name       string
	CreatedAt  time.Time
	SpriteSize int
	Cols, Rows int
	Sprites    []Sprite
}

// GridDims returns the sprite grid used for a sprite size, matching the
// number of patterns the VDP can address.
func GridDims(size int) (cols int, rows int) {
	if size == bitmap.Small {
		return 16, 16
	}
	return 8, 8
}

// New creates a project full of empty sprites in the default colour.
func New(name string, size int) (*Project, error) {
	if !bitmap.ValidSize(size) {
		return nil, fmt.Errorf("Couldn't create project %q: %w", name, bitmap.ErrInvalidSize)
	}
	cols, rows := GridDims(size)
	p := &Project{
		Uuid:       uuid.New(),
		Name:       name,
		CreatedAt:  time.Now(),
		SpriteSize: size,
		Cols:       cols,
		Rows:       rows,
		Sprites:    make([]Sprite, cols*rows),
	}
	for i := range p.Sprites {
		p.Sprites[i] = Sprite{
			Bitmap: bitmap.MustNew(size),
			Col:    i % cols,
			Row:    i / cols,
		}
	}
	return p, nil
}

func (p *Project) Len() int {
	return len(p.Sprites)
}

// Index returns the slice index of the sprite at a grid position.
func (p *Project) Index(col, row int) (int, bool) {
	if col < 0 || row < 0 || col >= p.Cols || row >= p.Rows {
		return 0, false
	}
	idx := row*p.Cols + col
	if idx >= len(p.Sprites) {
		return 0, false
	}
	return idx, true
}

// Position returns the grid position of the sprite at idx.
func (p *Project) Position(idx int) (col int, row int) {
	return idx % p.Cols, idx / p.Cols
}

func (p *Project) Bitmap(idx int) (*bitmap.Bitmap, error) {
	if idx < 0 || idx >= len(p.Sprites) {
		return nil, fmt.Errorf("No sprite at index %d (project has %d)", idx, len(p.Sprites))
	}
	return p.Sprites[idx].Bitmap, nil
}

// BlockOrigin returns the top-left grid position of the 2x2 block containing
// (col, row).
func BlockOrigin(col, row int) (int, int) {
	return col - col%2, row - row%2
}

// Block returns the indices of the four sprites of the 2x2 block containing
// idx, ordered top-left, top-right, bottom-left, bottom-right. ok is false
// when any of the four positions falls outside the grid.
func (p *Project) Block(idx int) (block [4]int, ok bool) {
	if idx < 0 || idx >= len(p.Sprites) {
		return block, false
	}
	oc, or := BlockOrigin(p.Position(idx))
	for i := range block {
		n, exists := p.Index(oc+i%2, or+i/2)
		if !exists {
			return block, false
		}
		block[i] = n
	}
	return block, true
}

// Signature hashes the size, colours and pixels of every sprite. Two projects
// with equal signatures hold the same artwork.
func (p *Project) Signature() uint64 {
	d := xxhash.New()
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(p.SpriteSize))
	d.Write(buf[:])
	for _, s := range p.Sprites {
		d.Write([]byte{s.Bitmap.Color()})
		for _, r := range s.Bitmap.Rows() {
			binary.BigEndian.PutUint16(buf[:], r)
			d.Write(buf[:])
		}
	}
	return d.Sum64()
}
