// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
)

// isolate the global viper and point the INI at a throwaway home
func settingsFixture(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return filepath.Join(home, config.IniName)
}

func TestDefaultsApplyWithoutIni(t *testing.T) {
	settingsFixture(t)
	require.NoError(t, config.RegisterIniWithViper())
	assert.Equal(t, "data.ideafast.eu", viper.GetString(config.KeyServer))
	assert.Equal(t, "dmpapp", viper.GetString(config.KeyAppName))
}

func TestIniOverridesDefaults(t *testing.T) {
	path := settingsFixture(t)
	ini := "[default]\ndmp_server = custom.example.org\nmirror_bucket = backups\n"
	require.NoError(t, os.WriteFile(path, []byte(ini), 0o644))

	require.NoError(t, config.RegisterIniWithViper())

	// persisted values win over the struct-tag defaults...
	assert.Equal(t, "custom.example.org", viper.GetString(config.KeyServer))
	assert.Equal(t, "backups", viper.GetString(config.KeyMirrorBucket))
	// ...while untouched keys keep their defaults
	assert.Equal(t, "dmpapp", viper.GetString(config.KeyAppName))
}

func TestEnvOverridesIni(t *testing.T) {
	path := settingsFixture(t)
	ini := "[default]\ndmp_server = custom.example.org\n"
	require.NoError(t, os.WriteFile(path, []byte(ini), 0o644))
	t.Setenv("DMP_SERVER", "env.example.org")

	require.NoError(t, config.RegisterIniWithViper())
	assert.Equal(t, "env.example.org", viper.GetString(config.KeyServer))
}

func TestWriteIniRoundTrip(t *testing.T) {
	settingsFixture(t)
	require.NoError(t, config.RegisterIniWithViper())

	viper.Set(config.KeyServer, "written.example.org")
	require.NoError(t, config.WriteIniFromStruct())

	// a fresh viper (a later CLI run) must pick the written value up
	viper.Reset()
	require.NoError(t, config.RegisterIniWithViper())
	assert.Equal(t, "written.example.org", viper.GetString(config.KeyServer))
	assert.Equal(t, "written.example.org", config.LoadConfig().Core.Server)
}
