package storage

import (
	"context"
	"path"

	"github.com/pkg/errors"
)

// A Memory backend holds object metadata in a map.
// It is intended for tests and dry runs without a reachable Swift endpoint.
type Memory struct {
	objects map[string]*ObjectInfo
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		objects: map[string]*ObjectInfo{},
	}
}

func (b *Memory) Name() string {
	return "memory"
}

// Store registers the metadata of an object.
func (b *Memory) Store(container, object string, metadata map[string]string) {
	b.objects[path.Join(container, object)] = &ObjectInfo{
		Name:     object,
		Metadata: metadata,
	}
}

func (b *Memory) ObjectMetadata(_ context.Context, container, object string) (*ObjectInfo, error) {
	info, ok := b.objects[path.Join(container, object)]
	if !ok {
		return nil, errors.Errorf("could not fetch object metadata: %s does not exist", path.Join(container, object))
	}
	return info, nil
}
