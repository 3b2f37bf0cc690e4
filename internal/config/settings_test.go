package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "hyperview.toml")
	require.NoError(os.WriteFile(path, []byte(`
client_id = "loader"
client_secret = "s3cret"
scope = "HyperviewManagerApi"
auth_url = "https://example.hyperviewhq.com/connect/authorize"
token_url = "https://example.hyperviewhq.com/connect/token"
instance_url = "https://example.hyperviewhq.com/"
request_timeout = "30s"
`), 0o600))

	settings, err := LoadSettings(path)
	require.NoError(err)
	require.Equal("loader", settings.ClientID)
	require.Equal("HyperviewManagerApi", settings.Scope)
	require.Equal("https://example.hyperviewhq.com", settings.InstanceURL)
	require.Equal(30*time.Second, settings.RequestTimeout)
	require.NoError(settings.Validate())
	require.Equal("*redacted*", settings.Redacted().ClientSecret)
	require.Equal("s3cret", settings.ClientSecret)
}

func TestLoadSettingsEnvironmentOverride(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "hyperview.toml")
	require.NoError(os.WriteFile(path, []byte(`client_secret = "from-file"`), 0o600))
	t.Setenv("HYPERVIEW_CLIENT_SECRET", "from-env")

	settings, err := LoadSettings(path)
	require.NoError(err)
	require.Equal("from-env", settings.ClientSecret)
}

func TestLoadOrInitializeSettingsWritesTemplate(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), ".hyperview", "hyperview.toml")

	created, settings, err := LoadOrInitializeSettings(path)
	require.NoError(err)
	require.True(created)
	require.FileExists(path)
	require.Error(settings.Validate())

	info, err := os.Stat(path)
	require.NoError(err)
	require.Equal(os.FileMode(0o600), info.Mode().Perm())

	created, _, err = LoadOrInitializeSettings(path)
	require.NoError(err)
	require.False(created)
}

func TestValidateListsMissingKeys(t *testing.T) {
	err := (&Settings{ClientID: "id"}).Validate()

	assert.EqualError(t, err, "config params must be set: instance_url, token_url, client_secret")
}
