package canvas

import "tomgalvin.uk/msxsprite/internal/project"

// OverlaySurface stacks the four sprites of a block on top of each other, the
// way the VDP shows sprites sharing a position. Reads and writes go to the
// active layer; Composite shows what the stack looks like.
type OverlaySurface struct {
	p      *project.Project
	layers [4]int
	active int
}

func (o *OverlaySurface) Mode() Mode { return Overlay }

func (o *OverlaySurface) Width() int  { return o.p.SpriteSize }
func (o *OverlaySurface) Height() int { return o.p.SpriteSize }

// Active returns the layer being edited, 1 to 4.
func (o *OverlaySurface) Active() int {
	return o.active
}

// Layers returns the sprite indices of the four layers, layer 1 first.
func (o *OverlaySurface) Layers() [4]int {
	return o.layers
}

func (o *OverlaySurface) Locate(x, y int) (int, int, int, error) {
	if !inside(o, x, y) {
		return 0, 0, 0, outOfBounds(o, x, y)
	}
	return o.layers[o.active-1], x, y, nil
}

func (o *OverlaySurface) Get(x, y int) (bool, error) {
	return get(o.p, o, x, y)
}

func (o *OverlaySurface) Set(x, y int, on bool) error {
	return set(o.p, o, x, y, on)
}

func (o *OverlaySurface) Targets() []int {
	return []int{o.layers[o.active-1]}
}

// Composite reports whether any layer has (x, y) on, and if so the colour of
// the lowest numbered layer that does.
func (o *OverlaySurface) Composite(x, y int) (on bool, color uint8, err error) {
	if !inside(o, x, y) {
		return false, 0, outOfBounds(o, x, y)
	}
	for _, idx := range o.layers {
		b := o.p.Sprites[idx].Bitmap
		if b.GetBit(x, y) == 1 {
			return true, b.Color(), nil
		}
	}
	return false, 0, nil
}
