package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names read by Load.
const (
	EnvStorageAuthURL  = "STORAGE_AUTH_URL"
	EnvStorageUsername = "STORAGE_USERNAME"
	EnvStorageAPIKey   = "STORAGE_API_KEY"
	EnvStorageRegion   = "STORAGE_REGION"
	EnvStorageTenant   = "STORAGE_TENANT"
	EnvStorageDomain   = "STORAGE_DOMAIN"

	EnvHost             = "RDP_HOST"
	EnvPort             = "RDP_PORT"
	EnvDefaultClientID  = "RDP_DEFAULT_CLIENT_ID"
	EnvDefaultUserID    = "RDP_DEFAULT_USER_ID"
	EnvDefaultUserRoles = "RDP_DEFAULT_USER_ROLES"

	// EnvWebhookToken is read once at boot, not by Load.
	EnvWebhookToken = "WEBHOOK_TOKEN"
)

// A Config holds everything one invocation needs: the storage connection,
// the downstream API target and the header fallbacks.
// It is loaded from the process environment on every invocation so a
// configuration change takes effect without a restart.
type Config struct {
	StorageAuthURL  string
	StorageUsername string
	StorageAPIKey   string
	StorageRegion   string
	StorageTenant   string
	StorageDomain   string

	Host             string
	Port             string
	DefaultClientID  string
	DefaultUserID    string
	DefaultUserRoles string
}

// A MissingError lists the required environment variables that are not set.
type MissingError struct {
	Variables []string
}

// Error stringifies the error.
func (e *MissingError) Error() string {
	return fmt.Sprintf("missing environment variables: %s", strings.Join(e.Variables, ", "))
}

// Load reads the configuration from the environment.
// It returns a MissingError naming every absent required variable so the
// invocation can abort before any network call is attempted.
func Load() (Config, error) {
	cfg := Config{
		StorageAuthURL:  os.Getenv(EnvStorageAuthURL),
		StorageUsername: os.Getenv(EnvStorageUsername),
		StorageAPIKey:   os.Getenv(EnvStorageAPIKey),
		StorageRegion:   os.Getenv(EnvStorageRegion),
		StorageTenant:   os.Getenv(EnvStorageTenant),
		StorageDomain:   os.Getenv(EnvStorageDomain),

		Host:             os.Getenv(EnvHost),
		Port:             os.Getenv(EnvPort),
		DefaultClientID:  os.Getenv(EnvDefaultClientID),
		DefaultUserID:    os.Getenv(EnvDefaultUserID),
		DefaultUserRoles: os.Getenv(EnvDefaultUserRoles),
	}

	missing := &MissingError{}
	for _, required := range []struct {
		name  string
		value string
	}{
		{EnvStorageAuthURL, cfg.StorageAuthURL},
		{EnvStorageUsername, cfg.StorageUsername},
		{EnvStorageAPIKey, cfg.StorageAPIKey},
		{EnvHost, cfg.Host},
		{EnvPort, cfg.Port},
		{EnvDefaultClientID, cfg.DefaultClientID},
		{EnvDefaultUserID, cfg.DefaultUserID},
		{EnvDefaultUserRoles, cfg.DefaultUserRoles},
	} {
		if required.value == "" {
			missing.Variables = append(missing.Variables, required.name)
		}
	}

	if len(missing.Variables) > 0 {
		return Config{}, missing
	}
	return cfg, nil
}
