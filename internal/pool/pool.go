// Package pool provides object pooling for go-opttab parse operations.
// Matching produces short-lived value slices per argument record; pooling
// them keeps repeated parses against a shared table off the GC.
package pool

import (
	"sync"
)

// Pool is a generic, type-safe object pool with an optional reset hook.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called before an object is handed back out
}

// NewPool creates a pool backed by the given factory function.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool whose objects are reset before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// StringSlicePool pools the value slices attached to argument records.
type StringSlicePool struct {
	*Pool[[]string]
}

// NewStringSlicePool creates a string slice pool with the given default
// capacity per slice.
func NewStringSlicePool(defaultCap int) *StringSlicePool {
	return &StringSlicePool{
		Pool: NewPoolWithReset(
			func() *[]string {
				s := make([]string, 0, defaultCap)
				return &s
			},
			func(s *[]string) {
				*s = (*s)[:0] // keep capacity
			},
		),
	}
}

// IDSlicePool pools small uint32 slices used for alias-chain walks and
// group membership scans.
type IDSlicePool struct {
	*Pool[[]uint32]
}

// NewIDSlicePool creates an ID slice pool with the given default capacity.
func NewIDSlicePool(defaultCap int) *IDSlicePool {
	return &IDSlicePool{
		Pool: NewPoolWithReset(
			func() *[]uint32 {
				s := make([]uint32, 0, defaultCap)
				return &s
			},
			func(s *[]uint32) {
				*s = (*s)[:0]
			},
		),
	}
}

// Global pool instances shared by all parsers.
var (
	// GlobalStringSlicePool holds value slices for argument records.
	GlobalStringSlicePool = NewStringSlicePool(8)

	// GlobalIDSlicePool holds scratch ID slices for alias resolution.
	GlobalIDSlicePool = NewIDSlicePool(8)
)

//nolint:gochecknoinits // pre-warm so the first parse doesn't pay for cold pools
func init() {
	for i := 0; i < 4; i++ {
		s := GlobalStringSlicePool.Get()
		GlobalStringSlicePool.Put(s)

		ids := GlobalIDSlicePool.Get()
		GlobalIDSlicePool.Put(ids)
	}
}

// GetStringSlice retrieves a value slice from the global pool.
func GetStringSlice() *[]string {
	return GlobalStringSlicePool.Get()
}

// PutStringSlice returns a value slice to the global pool.
func PutStringSlice(s *[]string) {
	GlobalStringSlicePool.Put(s)
}

// GetIDSlice retrieves a scratch ID slice from the global pool.
func GetIDSlice() *[]uint32 {
	return GlobalIDSlicePool.Get()
}

// PutIDSlice returns a scratch ID slice to the global pool.
func PutIDSlice(s *[]uint32) {
	GlobalIDSlicePool.Put(s)
}
