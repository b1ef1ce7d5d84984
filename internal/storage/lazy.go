package storage

import (
	"context"
	"sync"
)

// A Lazy backend defers the construction of its delegate until the first
// metadata lookup. A delivery whose events need no lookup never opens a
// storage connection.
type Lazy struct {
	// Open builds the delegate. A failed Open is reported to the caller
	// and attempted again on the next lookup.
	Open func(ctx context.Context) (Backend, error)

	mu      sync.Mutex
	backend Backend
}

// Name returns the name of the delegate, once opened.
func (b *Lazy) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.backend == nil {
		return "unopened"
	}
	return b.backend.Name()
}

// ObjectMetadata opens the delegate on first use and forwards the lookup.
func (b *Lazy) ObjectMetadata(ctx context.Context, container, object string) (*ObjectInfo, error) {
	backend, err := b.open(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ObjectMetadata(ctx, container, object)
}

func (b *Lazy) open(ctx context.Context) (Backend, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.backend == nil {
		backend, err := b.Open(ctx)
		if err != nil {
			return nil, err
		}
		b.backend = backend
	}
	return b.backend, nil
}
