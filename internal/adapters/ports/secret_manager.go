package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (e.g., POS authentication code)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretRotationInfo contains information about secret rotation
type SecretRotationInfo struct {
	CurrentVersion  string // Currently active version
	PreviousVersion string // Previous version (for graceful rotation)
}

// SecretManagerAdapter defines the port for retrieving secrets from a secret
// management service. Supported backends: local filesystem (development),
// HashiCorp Vault, AWS Secrets Manager.
// Implementations are responsible for authentication with the backend and for
// caching secrets appropriately (with TTL).
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - local: "vinti4/{pos_id}/aut_code"
	//   - Vault: "vinti4/{pos_id}" (relative to the KV mount)
	//   - AWS:   "vinti4-payment-service/{pos_id}/aut_code" or a full ARN
	GetSecret(ctx context.Context, path string) (*Secret, error)

	// PutSecret creates or updates a secret (admin/rotation operations)
	// Returns the new version identifier
	PutSecret(ctx context.Context, path string, value string, metadata map[string]string) (version string, err error)

	// RotateSecret rotates a secret by writing a new version.
	// The POS authentication code is issued by the gateway, so rotation here only
	// updates the stored copy after the gateway side has been rotated.
	RotateSecret(ctx context.Context, path string, newValue string) (*SecretRotationInfo, error)

	// DeleteSecret permanently deletes a secret (admin operations only)
	DeleteSecret(ctx context.Context, path string) error
}
