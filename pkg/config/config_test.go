package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
[tree]
kind = "simple"
weight_mode = "average"

[engine]
kind = "sentence"
source = "data/searches.csv"
cache_size = 0

[server]
max_limit = 32
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "simple", cfg.Tree.Kind)
	assert.Equal(t, "average", cfg.Tree.WeightMode)
	assert.Equal(t, EngineSentence, cfg.Engine.Kind)
	assert.Equal(t, "data/searches.csv", cfg.Engine.Source)
	assert.Zero(t, cfg.Engine.CacheSize)
	assert.Equal(t, 32, cfg.Server.MaxLimit)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().CLI, cfg.CLI)
	assert.Equal(t, DefaultConfig().Log, cfg.Log)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, so the strict decode fails.
	path := writeFile(t, `
[tree]
weight_mode = "avg"

[server]
max_limit = "lots"
max_prefix = 40

[engine]
default_weight = 3
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "avg", cfg.Tree.WeightMode)
	assert.Equal(t, DefaultConfig().Server.MaxLimit, cfg.Server.MaxLimit)
	assert.Equal(t, 40, cfg.Server.MaxPrefix)
	assert.Equal(t, 3.0, cfg.Engine.DefaultWeight)
}

func TestLoadConfigBrokenFile(t *testing.T) {
	path := writeFile(t, "[tree\nkind = ")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tree.Kind = "trie"
	cfg.Tree.WeightMode = "median"
	cfg.Engine.Kind = " Melody "
	cfg.Engine.CacheSize = -4
	cfg.Engine.DefaultWeight = -1
	cfg.Server.MaxLimit = 0
	cfg.Server.MinPrefix = 5
	cfg.Server.MaxPrefix = 2
	cfg.Server.DefaultLimit = 500
	cfg.Log.Level = "loud"
	cfg.Validate()

	def := DefaultConfig()
	assert.Equal(t, def.Tree.Kind, cfg.Tree.Kind)
	assert.Equal(t, def.Tree.WeightMode, cfg.Tree.WeightMode)
	assert.Equal(t, EngineMelody, cfg.Engine.Kind)
	assert.Zero(t, cfg.Engine.CacheSize)
	assert.Equal(t, def.Engine.DefaultWeight, cfg.Engine.DefaultWeight)
	assert.Equal(t, def.Server.MaxLimit, cfg.Server.MaxLimit)
	assert.Equal(t, def.Server.MaxPrefix, cfg.Server.MaxPrefix)
	assert.Equal(t, def.Server.DefaultLimit, cfg.Server.DefaultLimit)
	assert.Equal(t, def.Log.Level, cfg.Log.Level)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixrank", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestUpdatePersists(t *testing.T) {
	path := writeFile(t, "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	maxLimit, maxPrefix := 16, 30
	require.NoError(t, cfg.Update(path, &maxLimit, nil, &maxPrefix))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Server.MaxLimit)
	assert.Equal(t, 30, reloaded.Server.MaxPrefix)
	assert.Equal(t, 16, reloaded.Server.DefaultLimit)
	assert.Equal(t, DefaultConfig().Server.MinPrefix, reloaded.Server.MinPrefix)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "[cli]\ndefault_limit = 3\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)
}
