package async

import "sync/atomic"

// generationCounter hands out strictly increasing run generations.
//
// Thread-safety: safe for concurrent use (atomic operations).
type generationCounter struct {
	seq atomic.Uint64
}

// next returns the next generation, starting at 1.
func (g *generationCounter) next() uint64 {
	return g.seq.Add(1)
}

// current returns the last generation handed out, 0 if none.
func (g *generationCounter) current() uint64 {
	return g.seq.Load()
}
