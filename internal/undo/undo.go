// Package undo keeps a single level of undo: the state of the sprites an
// edit is about to change, captured just before the edit.
package undo

import (
	"errors"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/shift"
)

var ErrNoSnapshot = errors.New("nothing to undo")

// Snapshot is a deep copy of one bitmap, its colour and its shift buffers.
type Snapshot struct {
	bitmap  *bitmap.Bitmap
	buffers *shift.Buffers
}

func Capture(b *bitmap.Bitmap, bufs *shift.Buffers) Snapshot {
	s := Snapshot{bitmap: b.Clone()}
	if bufs != nil {
		s.buffers = bufs.Clone()
	}
	return s
}

// Restore overwrites b and bufs with the captured state.
func (s Snapshot) Restore(b *bitmap.Bitmap, bufs *shift.Buffers) error {
	if err := b.CopyFrom(s.bitmap); err != nil {
		return err
	}
	if bufs != nil {
		if s.buffers != nil {
			bufs.CopyFrom(s.buffers)
		} else {
			bufs.Reset()
		}
	}
	return nil
}

// Entry ties a snapshot to the sprite it was taken from, and to the live
// bitmap and buffers it restores into.
type Entry struct {
	Index    int
	Snapshot Snapshot
	Bitmap   *bitmap.Bitmap
	Buffers  *shift.Buffers
}

func CaptureEntry(index int, b *bitmap.Bitmap, bufs *shift.Buffers) Entry {
	return Entry{
		Index:    index,
		Snapshot: Capture(b, bufs),
		Bitmap:   b,
		Buffers:  bufs,
	}
}

// Slot holds at most one armed undo, covering every sprite a single edit
// touched.
type Slot struct {
	entries []Entry
}

// Arm replaces whatever was armed before.
func (s *Slot) Arm(entries ...Entry) {
	s.entries = entries
}

func (s *Slot) Armed() bool {
	return len(s.entries) > 0
}

func (s *Slot) Clear() {
	s.entries = nil
}

// Restore puts every armed sprite back and disarms the slot. It returns the
// indices of the restored sprites.
func (s *Slot) Restore() ([]int, error) {
	if !s.Armed() {
		return nil, ErrNoSnapshot
	}
	entries := s.entries
	s.entries = nil

	restored := make([]int, 0, len(entries))
	for _, e := range entries {
		if err := e.Snapshot.Restore(e.Bitmap, e.Buffers); err != nil {
			return restored, err
		}
		restored = append(restored, e.Index)
	}
	return restored, nil
}
