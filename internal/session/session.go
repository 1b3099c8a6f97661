// Package session holds the state of one editing session over a project:
// what is selected, how it is being viewed and the tool settings, plus the
// shift buffers and the undo slot. Every edit goes through a Session.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/brush"
	"tomgalvin.uk/msxsprite/internal/canvas"
	"tomgalvin.uk/msxsprite/internal/project"
	"tomgalvin.uk/msxsprite/internal/raster"
	"tomgalvin.uk/msxsprite/internal/shift"
	"tomgalvin.uk/msxsprite/internal/undo"
)

var ErrInvalidSelection = errors.New("no such sprite")

type Session struct {
	project   *project.Project
	mode      canvas.Mode
	selected  int
	layer     int
	color     uint8
	shiftMode shift.Mode
	mirror    raster.Mirror
	brush     *brush.Brush
	eraser    *brush.Brush
	buffers   map[int]*shift.Buffers
	undo      undo.Slot
	shape     *pendingShape
	baseline  uint64
	logger    *slog.Logger
}

// New starts a session on p with sprite 0 selected in single mode. A nil
// logger logs to slog.Default().
func New(p *project.Project, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		project:   p,
		mode:      canvas.Single,
		layer:     1,
		color:     bitmap.DefaultColor,
		shiftMode: shift.Wrap,
		brush:     brush.Square("1x1 (pixel)", 1),
		eraser:    brush.Eraser(brush.SquareEraser, 1),
		buffers:   make(map[int]*shift.Buffers),
		logger:    logger.With("src", "session", "project", p.Name),
	}
	s.MarkClean()
	return s
}

func (s *Session) Project() *project.Project {
	return s.project
}

func (s *Session) Mode() canvas.Mode {
	return s.mode
}

// SetMode switches topology. The mode is left unchanged when the selected
// sprite can't be edited that way.
func (s *Session) SetMode(mode canvas.Mode) error {
	if _, err := canvas.New(s.project, mode, s.selected, s.layer); err != nil {
		return err
	}
	s.mode = mode
	s.CancelShape()
	return nil
}

func (s *Session) Selected() int {
	return s.selected
}

func (s *Session) Select(index int) error {
	if index < 0 || index >= s.project.Len() {
		return fmt.Errorf("%w: %d", ErrInvalidSelection, index)
	}
	if _, err := canvas.New(s.project, s.mode, index, s.layer); err != nil {
		return err
	}
	s.selected = index
	s.CancelShape()
	return nil
}

// Layer returns the active overlay layer, 1 to 4.
func (s *Session) Layer() int {
	return s.layer
}

func (s *Session) SetLayer(layer int) error {
	if layer < 1 || layer > canvas.Layers {
		return fmt.Errorf("%w: got %d", canvas.ErrInvalidLayer, layer)
	}
	s.layer = layer
	s.CancelShape()
	return nil
}

func (s *Session) Color() uint8 {
	return s.color
}

func (s *Session) ShiftMode() shift.Mode {
	return s.shiftMode
}

func (s *Session) SetShiftMode(m shift.Mode) {
	s.shiftMode = m
}

func (s *Session) Mirror() raster.Mirror {
	return s.mirror
}

func (s *Session) SetMirror(m raster.Mirror) {
	s.mirror = m
}

func (s *Session) Brush() *brush.Brush {
	return s.brush
}

func (s *Session) SetBrush(b *brush.Brush) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.brush = b
	return nil
}

func (s *Session) SetEraser(shape brush.EraserShape, size int) {
	s.eraser = brush.Eraser(shape, size)
}

// Buffers returns the shift buffers of a sprite, creating them on first use.
func (s *Session) Buffers(index int) *shift.Buffers {
	bufs, ok := s.buffers[index]
	if !ok {
		bufs = shift.NewBuffers(s.project.SpriteSize)
		s.buffers[index] = bufs
	}
	return bufs
}

// Surface returns the drawing surface for the current mode and selection.
func (s *Session) Surface() (canvas.Surface, error) {
	return canvas.New(s.project, s.mode, s.selected, s.layer)
}

// Dimensions returns the size of the current surface and its mode.
func (s *Session) Dimensions() (width int, height int, mode canvas.Mode, err error) {
	surf, err := s.Surface()
	if err != nil {
		return 0, 0, s.mode, err
	}
	return surf.Width(), surf.Height(), s.mode, nil
}

func (s *Session) Pixel(x, y int) (bool, error) {
	surf, err := s.Surface()
	if err != nil {
		return false, err
	}
	return surf.Get(x, y)
}

// Composite returns what a surface cell looks like: whether it is on and the
// colour it shows. In overlay mode all four layers are combined.
func (s *Session) Composite(x, y int) (on bool, color uint8, err error) {
	surf, err := s.Surface()
	if err != nil {
		return false, 0, err
	}
	if o, ok := surf.(*canvas.OverlaySurface); ok {
		return o.Composite(x, y)
	}
	idx, lx, ly, err := surf.Locate(x, y)
	if err != nil {
		return false, 0, err
	}
	b := s.project.Sprites[idx].Bitmap
	if b.GetBit(lx, ly) == 0 {
		return false, 0, nil
	}
	return true, b.Color(), nil
}

// Targets lists the sprites the next edit will change.
func (s *Session) Targets() ([]int, error) {
	surf, err := s.Surface()
	if err != nil {
		return nil, err
	}
	return surf.Targets(), nil
}

// MarkClean records the current artwork as saved.
func (s *Session) MarkClean() {
	s.baseline = s.project.Signature()
}

// Dirty reports whether the artwork changed since the last MarkClean.
func (s *Session) Dirty() bool {
	return s.project.Signature() != s.baseline
}

// Undo reverts the last edit. It fails with undo.ErrNoSnapshot when there is
// nothing to revert.
func (s *Session) Undo() ([]int, error) {
	s.CancelShape()
	restored, err := s.undo.Restore()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Undid edit", "sprites", restored)
	return restored, nil
}

// CanUndo reports whether an edit is armed for undo.
func (s *Session) CanUndo() bool {
	return s.undo.Armed()
}
