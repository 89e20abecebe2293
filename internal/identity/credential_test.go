package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvCredential(t *testing.T) {
	t.Run("token present", func(t *testing.T) {
		t.Setenv("DROPGATE_STORAGE_TOKEN", "env-token-1")

		token, err := EnvCredential{}.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "env-token-1", token)
	})

	t.Run("custom variable", func(t *testing.T) {
		t.Setenv("CUSTOM_TOKEN", "  custom-token  ")

		token, err := EnvCredential{Var: "CUSTOM_TOKEN"}.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "custom-token", token)
	})

	t.Run("token absent", func(t *testing.T) {
		t.Setenv("DROPGATE_STORAGE_TOKEN", "")

		_, err := EnvCredential{}.Token(context.Background())
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestFileCredential(t *testing.T) {
	t.Run("token file present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("file-token\n"), 0600))

		token, err := FileCredential{Path: path}.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FileCredential{Path: "/nonexistent/token"}.Token(context.Background())
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := FileCredential{}.Token(context.Background())
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestChain(t *testing.T) {
	t.Run("first source wins", func(t *testing.T) {
		t.Setenv("DROPGATE_STORAGE_TOKEN", "env-token")
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("file-token"), 0600))

		chain := NewChain(EnvCredential{}, FileCredential{Path: path})
		token, err := chain.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("falls through to later source", func(t *testing.T) {
		t.Setenv("DROPGATE_STORAGE_TOKEN", "")
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("file-token"), 0600))

		chain := NewChain(EnvCredential{}, FileCredential{Path: path})
		token, err := chain.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("empty chain", func(t *testing.T) {
		t.Setenv("DROPGATE_STORAGE_TOKEN", "")

		_, err := NewChain(EnvCredential{}).Token(context.Background())
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}
