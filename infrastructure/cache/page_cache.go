package cache

import (
	"sync"
	"time"
)

type pageEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// PageCache stores per-visitor page state by token.
type PageCache[T any] struct {
	mu    sync.RWMutex
	pages map[string]*pageEntry[T]
	now   func() time.Time
}

func NewPageCache[T any]() *PageCache[T] {
	return &PageCache[T]{pages: make(map[string]*pageEntry[T]), now: time.Now}
}

func (c *PageCache[T]) Add(token string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[token] = &pageEntry[T]{value: value, lastSeen: c.now()}
}

// Find returns the page for token and marks it as recently used.
func (c *PageCache[T]) Find(token string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.pages[token]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = c.now()
	return e.value, true
}

// FindOrAdd returns the page for token, storing newFn() first if none exists.
func (c *PageCache[T]) FindOrAdd(token string, newFn func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.pages[token]; ok {
		e.lastSeen = c.now()
		return e.value
	}
	v := newFn()
	c.pages[token] = &pageEntry[T]{value: v, lastSeen: c.now()}
	return v
}

func (c *PageCache[T]) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, token)
}

func (c *PageCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Sweep drops pages not used within maxIdle and returns how many were removed.
func (c *PageCache[T]) Sweep(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxIdle)
	removed := 0
	for token, e := range c.pages {
		if e.lastSeen.Before(cutoff) {
			delete(c.pages, token)
			removed++
		}
	}
	return removed
}
