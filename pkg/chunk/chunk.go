// Package chunk provides sparse, paged 2D storage keyed by tile index.
//
// Tiles are grouped into square chunks of ChunkSize x ChunkSize slots. A chunk
// is allocated the first time any tile inside it is written and is kept for
// the lifetime of the storage, even when all of its tiles are removed.
package chunk

import "github.com/kelindar/bitmap"

// DefaultChunkSize is used when a storage is created with chunk size 0.
const DefaultChunkSize = 16

// Chunk is one fixed-capacity page of tiles.
type Chunk[T any] struct {
	slots    []T
	occupied bitmap.Bitmap
}

func newChunk[T any](size uint32) *Chunk[T] {
	return &Chunk[T]{slots: make([]T, size*size)}
}

// Len returns the number of occupied slots.
func (c *Chunk[T]) Len() int {
	return c.occupied.Count()
}

// Get returns the value stored at in-chunk slot i.
func (c *Chunk[T]) Get(i int) (T, bool) {
	if !c.occupied.Contains(uint32(i)) {
		var zero T
		return zero, false
	}
	return c.slots[i], true
}

func (c *Chunk[T]) set(i int, v T) {
	c.slots[i] = v
	c.occupied.Set(uint32(i))
}

func (c *Chunk[T]) remove(i int) bool {
	if !c.occupied.Contains(uint32(i)) {
		return false
	}
	var zero T
	c.slots[i] = zero
	c.occupied.Remove(uint32(i))
	return true
}

// Each calls fn for every occupied slot in ascending slot order.
func (c *Chunk[T]) Each(fn func(i int, v T)) {
	c.occupied.Range(func(x uint32) {
		fn(int(x), c.slots[x])
	})
}

func (c *Chunk[T]) clone() *Chunk[T] {
	return &Chunk[T]{
		slots:    append([]T(nil), c.slots...),
		occupied: append(bitmap.Bitmap(nil), c.occupied...),
	}
}
