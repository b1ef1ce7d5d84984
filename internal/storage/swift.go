package storage

import (
	"context"

	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/ncw/swift/v2"
	"github.com/pkg/errors"
)

type swiftBackend struct {
	connection *swift.Connection
}

// OpenSwift authenticates against the endpoint configured in cfg and returns
// a Swift backend. Auth v1 is used unless a tenant or a domain is configured.
func OpenSwift(ctx context.Context, cfg config.Config) (Backend, error) {
	c := &swift.Connection{
		AuthUrl:  cfg.StorageAuthURL,
		UserName: cfg.StorageUsername,
		ApiKey:   cfg.StorageAPIKey,
		Region:   cfg.StorageRegion,
		Tenant:   cfg.StorageTenant,
		Domain:   cfg.StorageDomain,
	}

	if err := c.Authenticate(ctx); err != nil {
		return nil, errors.Wrap(err, "could not authenticate against storage")
	}

	return &swiftBackend{connection: c}, nil
}

func (b *swiftBackend) Name() string {
	return "swift"
}

func (b *swiftBackend) ObjectMetadata(ctx context.Context, container, object string) (*ObjectInfo, error) {
	_, headers, err := b.connection.Object(ctx, container, object)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch object metadata")
	}

	return &ObjectInfo{
		Name:     object,
		Metadata: headers.ObjectMetadata(),
	}, nil
}
