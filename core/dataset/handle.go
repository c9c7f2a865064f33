package dataset

import (
	"context"
	"sync"

	"gapminder/core/types"
)

// Handle owns the process's dataset. The first successful Get builds it and
// every later call returns the same immutable value. A failed build is not
// kept, so the next Get builds again.
type Handle struct {
	builder *Builder

	mu sync.Mutex
	ds *types.Dataset
}

// NewHandle creates a handle that builds with b on first access
func NewHandle(b *Builder) *Handle {
	return &Handle{builder: b}
}

// Get returns the dataset, building it if no build has succeeded yet.
func (h *Handle) Get(ctx context.Context) (*types.Dataset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ds != nil {
		return h.ds, nil
	}
	ds, err := h.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	h.ds = ds
	return ds, nil
}

// Built reports whether the dataset has been built
func (h *Handle) Built() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ds != nil
}
