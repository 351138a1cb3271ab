package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erilshackle/vinti4-payment-service/internal/domain"
)

func TestLocalSecretManager_RoundTrip(t *testing.T) {
	manager := NewLocalSecretManager(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	version, err := manager.PutSecret(ctx, "vinti4/9999/aut_code", "ABC123", map[string]string{"env": "test"})
	require.NoError(t, err)
	assert.Equal(t, "v1", version)

	secret, err := manager.GetSecret(ctx, "vinti4/9999/aut_code")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", secret.Value)
	assert.Equal(t, "test", secret.Metadata["env"])
}

func TestLocalSecretManager_PlainTextFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aut_code"), []byte("ABC123\n"), 0600))

	manager := NewLocalSecretManager(dir, zap.NewNop())

	secret, err := manager.GetSecret(context.Background(), "aut_code")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", secret.Value)
}

func TestLocalSecretManager_NotFound(t *testing.T) {
	manager := NewLocalSecretManager(t.TempDir(), zap.NewNop())

	secret, err := manager.GetSecret(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, secret)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeSecretNotFound))
}

func TestLocalSecretManager_Delete(t *testing.T) {
	manager := NewLocalSecretManager(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	_, err := manager.PutSecret(ctx, "aut_code", "ABC123", nil)
	require.NoError(t, err)

	require.NoError(t, manager.DeleteSecret(ctx, "aut_code"))

	_, err = manager.GetSecret(ctx, "aut_code")
	assert.Error(t, err)
}

func TestLocalSecretManager_Rotate(t *testing.T) {
	manager := NewLocalSecretManager(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	_, err := manager.PutSecret(ctx, "aut_code", "old", nil)
	require.NoError(t, err)

	info, err := manager.RotateSecret(ctx, "aut_code", "new")
	require.NoError(t, err)
	assert.NotEmpty(t, info.CurrentVersion)

	secret, err := manager.GetSecret(ctx, "aut_code")
	require.NoError(t, err)
	assert.Equal(t, "new", secret.Value)
}
