package chunk

import (
	"cmp"
	"slices"

	tmath "github.com/Faultbox/tilegrid/pkg/math"
)

// Storage is a sparse map from tile index to T. The zero value is not usable;
// create one with New.
//
// Storage is not safe for concurrent mutation. Concurrent readers are fine as
// long as nothing writes; hand other goroutines a Clone when in doubt.
type Storage[T any] struct {
	chunkSize uint32
	chunks    map[tmath.IVec2]*Chunk[T]
}

// New creates an empty storage. A chunkSize of 0 selects DefaultChunkSize.
func New[T any](chunkSize uint32) *Storage[T] {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	return &Storage[T]{
		chunkSize: chunkSize,
		chunks:    make(map[tmath.IVec2]*Chunk[T]),
	}
}

// ChunkSize returns the edge length of a chunk in tiles.
func (s *Storage[T]) ChunkSize() uint32 {
	return s.chunkSize
}

// TransformIndex maps a tile index to its chunk index and the slot inside
// that chunk. Negative indices floor toward negative infinity, so tile -1
// lives in chunk -1 at the last slot of its row.
func (s *Storage[T]) TransformIndex(index tmath.IVec2) (tmath.IVec2, int) {
	size := int64(s.chunkSize)
	cx, rx := floorDiv(int64(index.X), size)
	cy, ry := floorDiv(int64(index.Y), size)
	return tmath.IVec2{X: int32(cx), Y: int32(cy)}, int(ry*size + rx)
}

// Untransform is the inverse of TransformIndex.
func (s *Storage[T]) Untransform(chunkIndex tmath.IVec2, inChunk int) tmath.IVec2 {
	size := int32(s.chunkSize)
	return tmath.IVec2{
		X: chunkIndex.X*size + int32(inChunk)%size,
		Y: chunkIndex.Y*size + int32(inChunk)/size,
	}
}

func floorDiv(a, b int64) (q, r int64) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// Set stores v at index, allocating the chunk if needed.
func (s *Storage[T]) Set(index tmath.IVec2, v T) {
	ci, i := s.TransformIndex(index)
	c, ok := s.chunks[ci]
	if !ok {
		c = newChunk[T](s.chunkSize)
		s.chunks[ci] = c
	}
	c.set(i, v)
}

// Get returns the value at index. Indices outside any allocated chunk read
// as absent.
func (s *Storage[T]) Get(index tmath.IVec2) (T, bool) {
	ci, i := s.TransformIndex(index)
	c, ok := s.chunks[ci]
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get(i)
}

// Has reports whether a value is stored at index.
func (s *Storage[T]) Has(index tmath.IVec2) bool {
	_, ok := s.Get(index)
	return ok
}

// Remove clears index and reports whether anything was stored there. The
// chunk itself stays allocated.
func (s *Storage[T]) Remove(index tmath.IVec2) bool {
	ci, i := s.TransformIndex(index)
	c, ok := s.chunks[ci]
	if !ok {
		return false
	}
	return c.remove(i)
}

// FillRect stores v at every index of area.
func (s *Storage[T]) FillRect(area tmath.TileArea, v T) {
	area.Each(func(index tmath.IVec2) {
		s.Set(index, v)
	})
}

// FillRectCustom calls gen once per index of area and stores the result
// unless gen reports no tile.
func (s *Storage[T]) FillRectCustom(area tmath.TileArea, gen func(index tmath.IVec2) (T, bool)) {
	area.Each(func(index tmath.IVec2) {
		if v, ok := gen(index); ok {
			s.Set(index, v)
		}
	})
}

// Len returns the number of stored values.
func (s *Storage[T]) Len() int {
	n := 0
	for _, c := range s.chunks {
		n += c.Len()
	}
	return n
}

// ChunkCount returns the number of allocated chunks.
func (s *Storage[T]) ChunkCount() int {
	return len(s.chunks)
}

// Chunk returns the chunk at chunkIndex, or nil when it was never allocated.
func (s *Storage[T]) Chunk(chunkIndex tmath.IVec2) *Chunk[T] {
	return s.chunks[chunkIndex]
}

// ChunkIndices returns the allocated chunk indices ordered by y, then x.
func (s *Storage[T]) ChunkIndices() []tmath.IVec2 {
	indices := make([]tmath.IVec2, 0, len(s.chunks))
	for ci := range s.chunks {
		indices = append(indices, ci)
	}
	slices.SortFunc(indices, func(a, b tmath.IVec2) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return indices
}

// Each visits every stored value. Chunks are visited in ChunkIndices order
// and slots in ascending order within a chunk, so iteration is deterministic.
func (s *Storage[T]) Each(fn func(index tmath.IVec2, v T)) {
	for _, ci := range s.ChunkIndices() {
		s.chunks[ci].Each(func(i int, v T) {
			fn(s.Untransform(ci, i), v)
		})
	}
}

// Clone returns a deep copy of the storage. Values are copied with plain
// assignment; T holding pointers or slices shares their targets.
func (s *Storage[T]) Clone() *Storage[T] {
	out := &Storage[T]{
		chunkSize: s.chunkSize,
		chunks:    make(map[tmath.IVec2]*Chunk[T], len(s.chunks)),
	}
	for ci, c := range s.chunks {
		out.chunks[ci] = c.clone()
	}
	return out
}
