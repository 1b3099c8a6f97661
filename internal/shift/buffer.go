package shift

import "slices"

// Buffer is a bounded stack of lines pushed off one edge of a bitmap. Once
// full, pushing drops the oldest line.
type Buffer struct {
	capacity int
	entries  []uint16
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		capacity: capacity,
		entries:  make([]uint16, 0, capacity),
	}
}

func (b *Buffer) Push(line uint16) {
	if b.capacity <= 0 {
		return
	}
	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, line)
}

// Pop removes the newest line. ok is false when the buffer is empty.
func (b *Buffer) Pop() (line uint16, ok bool) {
	if len(b.entries) == 0 {
		return 0, false
	}
	line = b.entries[len(b.entries)-1]
	b.entries = b.entries[:len(b.entries)-1]
	return line, true
}

func (b *Buffer) Len() int {
	return len(b.entries)
}

func (b *Buffer) Cap() int {
	return b.capacity
}

// Entries returns a copy of the buffered lines, oldest first.
func (b *Buffer) Entries() []uint16 {
	return slices.Clone(b.entries)
}

func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.capacity)
	c.entries = append(c.entries, b.entries...)
	return c
}

func (b *Buffer) Equal(other *Buffer) bool {
	return other != nil && b.capacity == other.capacity && slices.Equal(b.entries, other.entries)
}

// Buffers holds the four directional buffers belonging to one bitmap.
type Buffers struct {
	size  int
	byDir [4]*Buffer
}

func NewBuffers(size int) *Buffers {
	bufs := &Buffers{size: size}
	for i := range bufs.byDir {
		bufs.byDir[i] = NewBuffer(size)
	}
	return bufs
}

func (b *Buffers) Size() int {
	return b.size
}

func (b *Buffers) Get(dir Direction) *Buffer {
	return b.byDir[dir]
}

// Reset empties every direction.
func (b *Buffers) Reset() {
	for i := range b.byDir {
		b.byDir[i] = NewBuffer(b.size)
	}
}

func (b *Buffers) Clone() *Buffers {
	c := &Buffers{size: b.size}
	for i, buf := range b.byDir {
		c.byDir[i] = buf.Clone()
	}
	return c
}

// CopyFrom replaces the contents of every direction with a copy of src's.
func (b *Buffers) CopyFrom(src *Buffers) {
	b.size = src.size
	for i, buf := range src.byDir {
		b.byDir[i] = buf.Clone()
	}
}

func (b *Buffers) Equal(other *Buffers) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.byDir {
		if !b.byDir[i].Equal(other.byDir[i]) {
			return false
		}
	}
	return true
}
