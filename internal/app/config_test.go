package app

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nxload/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	valid := Config{InputPath: "data", Workers: 1, StartGroupID: 0}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing input", mutate: func(c *Config) { c.InputPath = "" }, wantErr: "InputPath"},
		{name: "no workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: "workers"},
		{name: "negative start id", mutate: func(c *Config) { c.StartGroupID = -1 }, wantErr: "start group id"},
		{name: "negative port", mutate: func(c *Config) { c.HealthcheckPort = -5 }, wantErr: "healthcheck port"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestLoadConfigFile_AppliesUnsetKeysOnly(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"nxload.yaml": `
input: /archive
workers: 8
log_level: debug
viewer_url: http://localhost:4000
`,
	})
	fc, err := LoadConfigFile(filepath.Join(dir, "nxload.yaml"))
	require.NoError(t, err)

	cfg := Config{InputPath: "cli-input", Workers: DefaultWorkers, LogLevel: DefaultLogLevel, LogFormat: DefaultLogFormat}
	explicit := map[string]bool{"input": true}
	fc.ApplyTo(&cfg, func(flag string) bool { return explicit[flag] })

	assert.Equal(t, "cli-input", cfg.InputPath, "explicit flags win")
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat, "unset keys keep defaults")
	assert.Equal(t, "http://localhost:4000", cfg.ViewerURL)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"unknown.yaml": "colour: blue\n",
		"broken.yaml":  "workers: [\n",
	})
	testCases := []struct {
		name string
		file string
	}{
		{name: "missing file", file: "absent.yaml"},
		{name: "unknown key", file: "unknown.yaml"},
		{name: "malformed yaml", file: "broken.yaml"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfigFile(filepath.Join(dir, tc.file))
			assert.Error(t, err)
		})
	}
}

func TestFileConfig_NilIsNoop(t *testing.T) {
	var fc *FileConfig
	cfg := Config{Workers: 3}
	fc.ApplyTo(&cfg, func(string) bool { return false })
	assert.Equal(t, Config{Workers: 3}, cfg)
}

func TestLoadConfigFile_Empty(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"empty.yaml": ""})
	fc, err := LoadConfigFile(filepath.Join(dir, "empty.yaml"))
	require.NoError(t, err)
	assert.Nil(t, fc.Workers)
}
