package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AUTHCTL_SERVER_URL", "AUTHCTL_GRPC_ADDR", "AUTHCTL_TOKEN_FILE", "AUTHCTL_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000", c.ServerURL)
	assert.Equal(t, "localhost:50051", c.GRPCAddr)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.NotEmpty(t, c.TokenFile)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "authctl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://json:1",
		"grpc_addr": "json:2",
		"token_file": "/tmp/json-token",
		"timeout": "3s"
	}`), 0o600))
	t.Setenv("AUTHCTL_GRPC_ADDR", "env:2")

	cfg, rest, err := LoadConfig([]string{"-c", path, "-u", "http://flag:1", "login", "extra"})
	require.NoError(t, err)

	want := &Config{
		ServerURL: "http://flag:1",
		GRPCAddr:  "env:2",
		TokenFile: "/tmp/json-token",
		Timeout:   3 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"login", "extra"}, rest)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, _, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	t.Setenv("AUTHCTL_TIMEOUT", "soon")
	_, _, err = LoadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	t.Setenv("AUTHCTL_TIMEOUT", "")
	_, _, err = LoadConfig([]string{"-t", "never"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse flags")
}
