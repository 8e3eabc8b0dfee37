// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "mediarr", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	// Check for key sections
	assert.Contains(t, string(content), "[server]")
	assert.Contains(t, string(content), "[catchup]")
	assert.Contains(t, string(content), "[catchup.queues.fingerprint]")
	assert.Contains(t, string(content), "[maintenance]")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "deep", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	_, err = os.Stat(path)
	assert.False(t, os.IsNotExist(err), "file was not created")
}

func TestConfig_Write(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 9000},
		Catchup: CatchupConfig{
			Enabled: true,
			Tasks:   []string{"mediainfo"},
		},
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	err := cfg.Write(path)
	require.NoError(t, err, "Write failed")

	content, _ := os.ReadFile(path)
	assert.Contains(t, string(content), "127.0.0.1")
	assert.Contains(t, string(content), "9000")
	assert.Contains(t, string(content), "mediainfo")
}

func TestConfig_WriteRoundTrip(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Catchup.Enabled = true
	cfg.Catchup.FingerprintLibraries = []string{"TV Shows"}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	require.NoError(t, cfg.Write(path))

	got, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.Port, got.Server.Port)
	assert.Equal(t, cfg.Catchup.FingerprintLibraries, got.Catchup.FingerprintLibraries)
	assert.Equal(t, cfg.Catchup.Queues.MediaInfo.RetryBackoff, got.Catchup.Queues.MediaInfo.RetryBackoff)
}
