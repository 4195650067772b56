package buffer

import "sync"

// Pool provides sync.Pool-based Quantum reuse for scratch buffers in the
// render loop.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Quantum{}
			},
		},
	}
}

// Get returns a zeroed Quantum with the requested layout.
// Callers must return it via Put when done.
func (p *Pool) Get(channels, length int) *Quantum {
	q := p.pool.Get().(*Quantum)
	if q.length != length {
		q.length = length
		q.channels = allocChannels(channels, length)
		return q
	}
	q.SetChannels(channels)
	q.Zero()
	return q
}

// Put returns a Quantum to the pool for reuse.
// The caller must not use the quantum after calling Put.
func (p *Pool) Put(q *Quantum) {
	if q == nil {
		return
	}
	p.pool.Put(q)
}
