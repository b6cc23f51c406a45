package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreHonorsConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "endpoints": {"static": {"endpoint": "https://api.example.com"}},
  "common": {}
}`), 0600))

	flagConfigPath = path
	defer func() { flagConfigPath = "" }()

	store, err := openStore()
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.Equal(t, []string{"static"}, store.EndpointNames())
}

func TestOpenStoreMissingExplicitConfig(t *testing.T) {
	flagConfigPath = filepath.Join(t.TempDir(), "absent.json")
	defer func() { flagConfigPath = "" }()

	_, err := openStore()
	require.Error(t, err)
}

func TestVersionOutput(t *testing.T) {
	SetVersionInfo("1.2.3", "abc1234", "2026-01-01")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "camgr 1.2.3")
	assert.Contains(t, out.String(), "Commit: abc1234")
}
