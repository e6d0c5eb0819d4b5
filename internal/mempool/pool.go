// Package mempool keeps size classed slice pools for the scoring hot path.
package mempool

import (
	"sync"
)

// classStep is the granularity of size classes. Candidate sets rarely
// exceed a single class.
const classStep = 64

// Pool hands out zeroed slices of T grouped by size class.
type Pool[T any] struct {
	classes sync.Map // key: size class (int), value: *sync.Pool
}

var (
	float64Pool Pool[float64]
	intPool     Pool[int]
)

// sizeClass rounds n up to the next multiple of classStep.
func sizeClass(n int) int {
	if n <= classStep {
		return classStep
	}
	return (n + classStep - 1) / classStep * classStep
}

func (p *Pool[T]) pool(cls int) *sync.Pool {
	if v, ok := p.classes.Load(cls); ok {
		return v.(*sync.Pool) //nolint:forcetypeassert // only *sync.Pool is stored
	}
	v, _ := p.classes.LoadOrStore(cls, &sync.Pool{New: func() any {
		buf := make([]T, cls)
		return &buf
	}})
	return v.(*sync.Pool) //nolint:forcetypeassert // only *sync.Pool is stored
}

// Get returns a zeroed slice of length n. Return it with Put when done.
func (p *Pool[T]) Get(n int) []T {
	if n < 0 {
		n = 0
	}
	cls := sizeClass(n)
	ptr, ok := p.pool(cls).Get().(*[]T)
	if !ok || cap(*ptr) < cls {
		return make([]T, n, cls)
	}
	buf := (*ptr)[:n]
	clear(buf)
	return buf
}

// Put returns buf to its size class. Nil slices are ignored.
func (p *Pool[T]) Put(buf []T) {
	if buf == nil {
		return
	}
	c := cap(buf)
	if c < classStep || c%classStep != 0 {
		return
	}
	buf = buf[:c]
	p.pool(c).Put(&buf)
}

// GetFloat64 returns a zeroed []float64 of length n.
func GetFloat64(n int) []float64 { return float64Pool.Get(n) }

// PutFloat64 returns a buffer obtained from GetFloat64.
func PutFloat64(buf []float64) { float64Pool.Put(buf) }

// GetInt returns a zeroed []int of length n.
func GetInt(n int) []int { return intPool.Get(n) }

// PutInt returns a buffer obtained from GetInt.
func PutInt(buf []int) { intPool.Put(buf) }
