package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFallsBackToServiceConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"region": "us-east", "datacenter": "us-east-1"}`), 0o644))

	prev := serviceConfig
	serviceConfig = path
	viper.Reset()
	t.Cleanup(func() {
		serviceConfig = prev
		viper.Reset()
	})

	initConfig()
	assert.Equal(t, "us-east", viper.GetString("region"))
	assert.Equal(t, path, viper.ConfigFileUsed())
}

func TestInitConfigPrefersExplicitFile(t *testing.T) {
	dir := t.TempDir()
	service := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(service, []byte(`{"region": "from-service"}`), 0o644))
	explicit := filepath.Join(dir, "checker-hosts.yml")
	require.NoError(t, os.WriteFile(explicit, []byte("region: from-flag\n"), 0o644))

	prevService, prevFile := serviceConfig, cfgFile
	serviceConfig, cfgFile = service, explicit
	viper.Reset()
	t.Cleanup(func() {
		serviceConfig, cfgFile = prevService, prevFile
		viper.Reset()
	})

	initConfig()
	assert.Equal(t, "from-flag", viper.GetString("region"))
}

func TestInitConfigWithoutAnyFile(t *testing.T) {
	prev := serviceConfig
	serviceConfig = filepath.Join(t.TempDir(), "missing.json")
	viper.Reset()
	t.Cleanup(func() {
		serviceConfig = prev
		viper.Reset()
	})

	initConfig()
	assert.Empty(t, viper.ConfigFileUsed())
	assert.Empty(t, viper.GetString("region"))
}
