package raster

import "image"

var neighbours = [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// FloodRegion returns the 4-connected cells sharing the seed's value. The
// region is collected before anything is written, so the surface is free to
// write extra cells while it is filled.
func FloodRegion(s Surface, seed image.Point) ([]image.Point, error) {
	if err := checkPoints(s, seed); err != nil {
		return nil, err
	}
	target, err := s.Get(seed.X, seed.Y)
	if err != nil {
		return nil, err
	}

	width := s.Width()
	visited := make([]bool, width*s.Height())
	visited[seed.Y*width+seed.X] = true
	queue := []image.Point{seed}
	var region []image.Point

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		region = append(region, p)

		for _, d := range neighbours {
			n := p.Add(d)
			if !inside(s, n) || visited[n.Y*width+n.X] {
				continue
			}
			visited[n.Y*width+n.X] = true
			on, err := s.Get(n.X, n.Y)
			if err != nil {
				return nil, err
			}
			if on == target {
				queue = append(queue, n)
			}
		}
	}
	return region, nil
}

// FloodFill sets the region around seed to on and returns how many cells it
// changed. Filling a cell that already has the value does nothing.
func FloodFill(s Surface, seed image.Point, on bool) (int, error) {
	if err := checkPoints(s, seed); err != nil {
		return 0, err
	}
	current, err := s.Get(seed.X, seed.Y)
	if err != nil {
		return 0, err
	}
	if current == on {
		return 0, nil
	}
	region, err := FloodRegion(s, seed)
	if err != nil {
		return 0, err
	}
	return len(region), plot(s, region, on)
}
