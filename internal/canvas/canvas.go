// Package canvas presents one or more sprites of a project as a single
// surface to draw on. A surface refers to sprites by their index in the
// project, so every write lands directly in the project's bitmaps.
package canvas

import (
	"errors"
	"fmt"
	"strings"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/project"
)

var (
	ErrInvalidTopology = errors.New("sprite block is incomplete")
	ErrUnknownMode     = errors.New("unknown canvas mode")
	ErrInvalidLayer    = errors.New("overlay layer must be between 1 and 4")
)

type Mode int

const (
	Single Mode = iota
	Block
	Overlay
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Block:
		return "2x2"
	case Overlay:
		return "overlay"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "single", "1x1":
		return Single, nil
	case "2x2", "block":
		return Block, nil
	case "overlay":
		return Overlay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Layers is the number of sprites stacked by an overlay.
const Layers = 4

type Surface interface {
	Mode() Mode
	Width() int
	Height() int
	Get(x, y int) (bool, error)
	Set(x, y int, on bool) error
	// Locate returns the sprite index and local coordinate that a surface
	// coordinate writes to.
	Locate(x, y int) (index int, lx int, ly int, err error)
	// Targets lists the sprites a whole-surface edit changes.
	Targets() []int
}

// New builds the surface for mode around the selected sprite. activeLayer is
// only used by Overlay and counts from 1.
func New(p *project.Project, mode Mode, selected int, activeLayer int) (Surface, error) {
	if selected < 0 || selected >= p.Len() {
		return nil, fmt.Errorf("%w: no sprite %d", ErrInvalidTopology, selected)
	}
	switch mode {
	case Single:
		return &single{p: p, index: selected}, nil
	case Block, Overlay:
		block, ok := p.Block(selected)
		if !ok {
			col, row := p.Position(selected)
			return nil, fmt.Errorf("%w: sprite %d at (%d, %d) has no full 2x2 block", ErrInvalidTopology, selected, col, row)
		}
		if mode == Block {
			return &blockSurface{p: p, indices: block}, nil
		}
		if activeLayer < 1 || activeLayer > Layers {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidLayer, activeLayer)
		}
		return &OverlaySurface{p: p, layers: block, active: activeLayer}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
}

func outOfBounds(s Surface, x, y int) error {
	return fmt.Errorf("%w: (%d, %d) outside %dx%d %s surface", bitmap.ErrOutOfBounds, x, y, s.Width(), s.Height(), s.Mode())
}

func inside(s Surface, x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width() && y < s.Height()
}

type single struct {
	p     *project.Project
	index int
}

func (s *single) Mode() Mode { return Single }

func (s *single) size() int { return s.p.Sprites[s.index].Bitmap.Size() }

func (s *single) Width() int  { return s.size() }
func (s *single) Height() int { return s.size() }

func (s *single) Locate(x, y int) (int, int, int, error) {
	if !inside(s, x, y) {
		return 0, 0, 0, outOfBounds(s, x, y)
	}
	return s.index, x, y, nil
}

func (s *single) Get(x, y int) (bool, error) {
	return get(s.p, s, x, y)
}

func (s *single) Set(x, y int, on bool) error {
	return set(s.p, s, x, y, on)
}

func (s *single) Targets() []int {
	return []int{s.index}
}

// A 2x2 block of sprites drawn on as one surface twice the sprite size.
type blockSurface struct {
	p       *project.Project
	indices [4]int
}

func (b *blockSurface) Mode() Mode { return Block }

func (b *blockSurface) size() int { return b.p.SpriteSize }

func (b *blockSurface) Width() int  { return 2 * b.size() }
func (b *blockSurface) Height() int { return 2 * b.size() }

func (b *blockSurface) Locate(x, y int) (int, int, int, error) {
	if !inside(b, x, y) {
		return 0, 0, 0, outOfBounds(b, x, y)
	}
	size := b.size()
	sub := x / size
	if y >= size {
		sub += 2
	}
	return b.indices[sub], x % size, y % size, nil
}

func (b *blockSurface) Get(x, y int) (bool, error) {
	return get(b.p, b, x, y)
}

func (b *blockSurface) Set(x, y int, on bool) error {
	return set(b.p, b, x, y, on)
}

func (b *blockSurface) Targets() []int {
	return b.indices[:]
}

func get(p *project.Project, s Surface, x, y int) (bool, error) {
	idx, lx, ly, err := s.Locate(x, y)
	if err != nil {
		return false, err
	}
	return p.Sprites[idx].Bitmap.Get(lx, ly)
}

func set(p *project.Project, s Surface, x, y int, on bool) error {
	idx, lx, ly, err := s.Locate(x, y)
	if err != nil {
		return err
	}
	return p.Sprites[idx].Bitmap.Set(lx, ly, on)
}
