package storage

import "context"

// Backend is the interface that wraps the object metadata lookup.
type Backend interface {
	// Name returns the name of the backend implementation.
	Name() string

	// ObjectMetadata returns the stored details of the given object.
	ObjectMetadata(ctx context.Context, container, object string) (*ObjectInfo, error)
}

// An ObjectInfo holds the details of a stored object.
type ObjectInfo struct {
	Name     string
	Metadata map[string]string
}
