package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "pipeline.json5"), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, DefaultFilterUserID, cfg.FilterUserID)
}

func TestLoadMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.json5")
	write(t, path, `{
		// comments and trailing commas are fine in json5
		sourceUrl: "http://localhost:9000/posts",
		outputFile: "out/posts.csv",
		requestTimeout: "5s",
	}`)
	write(t, filepath.Join(dir, "pipeline.local.json5"), `{outputFile: "local.csv", verbose: true}`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/posts", cfg.SourceURL)
	assert.Equal(t, "local.csv", cfg.OutputFile)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	// untouched fields come from defaults
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultFilterUserID, cfg.FilterUserID)
}

func TestLoadOnlyLocalFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "pipeline.local.json5"), `{filterUserId: 3}`)

	cfg, err := Load(filepath.Join(dir, "pipeline.json5"), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.FilterUserID)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json5")
	write(t, path, `{sourceUrl: `)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestTimeoutFallsBackOnGarbage(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = "soon"
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout())
}
