package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("no credentials is a setup error", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		t.Setenv("FIREBASE_CREDENTIALS_JSON", "")

		_, err := Load()
		require.ErrorContains(t, err, "no service credentials found")
	})

	t.Run("inline credential blob", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"project_id":"portfolio-test"}`)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "portfolio-test", cfg.ProjectID)
	})

	t.Run("credentials file preferred over blob", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"project_id":"from-file"}`), 0o600))
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
		t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"project_id":"from-env"}`)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "from-file", cfg.ProjectID)
	})

	t.Run("missing file falls back to blob", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "nope.json"))
		t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"project_id":"from-env"}`)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "from-env", cfg.ProjectID)
	})

	t.Run("blob without project_id", func(t *testing.T) {
		t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
		t.Setenv("FIREBASE_CREDENTIALS_JSON", `{"type":"service_account"}`)

		_, err := Load()
		require.ErrorContains(t, err, "missing project_id")
	})
}
