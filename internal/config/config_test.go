package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, tmpFile, "filter: example.com/...")

	path, err := findConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, tmpFile, path)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	configPath := filepath.Join(root, "model-usage.yaml")
	writeFile(t, configPath, "filter: x")

	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	path, err := findConfigFile("")
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedPath, _ := filepath.EvalSymlinks(configPath)
	actualPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expectedPath, actualPath)
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, "model-usage.yaml"), "filter: x")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	t.Chdir(repo)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	t.Chdir(root)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, []string{"./..."}, cfg.Patterns)
	assert.Equal(t, "Assoc", cfg.Vocabulary.MixinSuffix)
	assert.Equal(t, "Model", cfg.Discover.Base)
	assert.Equal(t, "%", cfg.Grants.Host)
	assert.True(t, cfg.Grants.Flush)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, "model-usage.yaml"), `
patterns: [./internal/..., ./cmd/...]
registry: models.yaml
filter: example.com/shop/store
vocabulary:
  update: [touch]
grants:
  user: shop_app
  database: shop
`)
	t.Chdir(root)
	t.Setenv("MODEL_USAGE_GRANTS_USER", "from_env")

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	assert.Equal(t, []string{"./internal/...", "./cmd/..."}, cfg.Patterns)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "models.yaml"), cfg.Registry)
	assert.Equal(t, "example.com/shop/store", cfg.Filter)
	assert.Equal(t, "from_env", cfg.Grants.User)
	assert.Equal(t, "shop", cfg.Grants.Database)

	vocab := cfg.VocabularyValue()
	assert.Contains(t, vocab.Update, "touch")
	assert.Contains(t, vocab.Update, "save")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".env"), "MODEL_USAGE_GRANTS_DSN=app:secret@tcp(db:3306)/\n")
	t.Chdir(root)
	t.Cleanup(func() { _ = os.Unsetenv("MODEL_USAGE_GRANTS_DSN") })

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "app:secret@tcp(db:3306)/", cfg.Grants.DSN)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model-usage.yaml")
	writeFile(t, path, "patterns: [unclosed")

	_, _, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Grants: GrantsConfig{DSN: "root:pw@tcp(127.0.0.1:3306)/", Database: "shop"}}

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/shop", dsn)

	cfg.Grants.DSN = "root:pw@tcp(127.0.0.1:3306)/other"
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/other", dsn)

	cfg.Grants.DSN = ""
	_, err = cfg.DSN()
	require.Error(t, err)

	cfg.Grants.DSN = "not a dsn"
	_, err = cfg.DSN()
	require.Error(t, err)
}
