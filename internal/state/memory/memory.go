// Package memory provides an in-memory StateContext. It is safe for
// concurrent use and is primarily intended for tests and local development.
package memory

import (
	"context"
	"sync"
)

// Context is an in-memory implementation of state.StateContext backed by a
// map from address to raw container bytes.
type Context struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// New creates an empty context.
func New() *Context {
	return &Context{entries: make(map[string][]byte)}
}

// GetState returns the stored bytes for each requested address. Addresses
// with no stored value are absent from the result.
func (c *Context) GetState(ctx context.Context, addresses []string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]byte, len(addresses))
	for _, address := range addresses {
		if raw, ok := c.entries[address]; ok {
			result[address] = cloneBytes(raw)
		}
	}
	return result, nil
}

// SetState stores the given bytes at each address and returns the committed
// addresses.
func (c *Context) SetState(ctx context.Context, entries map[string][]byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	committed := make([]string, 0, len(entries))
	for address, raw := range entries {
		c.entries[address] = cloneBytes(raw)
		committed = append(committed, address)
	}
	return committed, nil
}

// Len returns the number of addresses holding a value.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneBytes(b []byte) []byte {
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}
