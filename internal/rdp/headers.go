package rdp

import (
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/pkg/errors"
)

// ErrTenantMissing means the object's metadata carries no tenant id.
// The object cannot be registered anywhere; the invocation completes
// without any downstream call.
var ErrTenantMissing = errors.New("TenantId missing")

// Headers identify the tenant, client and user on behalf of which the
// object is registered. They are sent with the create request and echoed
// into the descriptor properties.
type Headers struct {
	TenantID      string
	ClientID      string
	UserID        string
	UserRoles     string
	OwnershipData string // optional, empty means absent
}

// DeriveHeaders builds the request headers from normalized metadata,
// falling back on the configured defaults for everything but the tenant id.
func DeriveHeaders(metadata map[string]string, cfg config.Config) (Headers, error) {
	headers := Headers{
		TenantID:      metadata[KeyTenantID],
		ClientID:      cfg.DefaultClientID,
		UserID:        cfg.DefaultUserID,
		UserRoles:     cfg.DefaultUserRoles,
		OwnershipData: metadata[KeyOwnershipData],
	}
	if headers.TenantID == "" {
		return Headers{}, ErrTenantMissing
	}

	if clientID := metadata[KeyClientID]; clientID != "" {
		headers.ClientID = clientID
	}
	if userID := metadata[KeyUserID]; userID != "" {
		headers.UserID = userID
	}
	if userRoles := metadata[KeyUserRoles]; userRoles != "" {
		headers.UserRoles = userRoles
	}

	return headers, nil
}
