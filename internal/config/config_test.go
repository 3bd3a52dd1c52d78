// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaziapp/shiftsheet/internal/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8081", c.Listen)
	assert.Equal(t, int64(5<<20), c.MaxUploadBytes())
	assert.Equal(t, 15*time.Second, c.ParseTimeout())
	assert.Equal(t, 30, c.RetentionDays)
	assert.True(t, c.Metrics)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shiftsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen: \":9090\"\nmax_upload_mb: 2\nmetrics: false\n"), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Listen)
	assert.Equal(t, int64(2<<20), c.MaxUploadBytes())
	assert.False(t, c.Metrics)
	assert.Equal(t, 30, c.RetentionDays, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shiftsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\nmax_upload_mb: 2\n"), 0o600))

	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("MAX_UPLOAD_MB", "8")
	t.Setenv("METRICS", "false")

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", c.Listen)
	assert.Equal(t, int64(8<<20), c.MaxUploadBytes())
	assert.False(t, c.Metrics)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("non-numeric env", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_MB", "huge")
		_, err := config.Load("")
		assert.Error(t, err)
	})

	t.Run("non-boolean metrics env", func(t *testing.T) {
		t.Setenv("METRICS", "maybe")
		_, err := config.Load("")
		assert.Error(t, err)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		t.Setenv("RETENTION_DAYS", "0")
		_, err := config.Load("")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))
		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
