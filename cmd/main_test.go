package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettbedarf/nstree/internal/util"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests reset the global logger and so do not run in parallel.

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_LoadAndSeed(t *testing.T) {
	dir := t.TempDir()
	saved := writeFile(t, dir, "saved.txt", "/ 1\n  a 1\n")
	nodes := writeFile(t, dir, "nodes.json", `[{"type":"file","path":"a/f"},{"type":"dir","path":"b"}]`)

	out, err := execute(t, "tree\nquit\n", "--load", saved, "--nodes", nodes, "--no-save-prompt")

	require.NoError(t, err)
	want := "/$ " +
		".\n" +
		"├── a/\n" +
		"│   └── f\n" +
		"└── b/\n" +
		"/$ "
	assert.Equal(t, want, out)
}

func TestRoot_VerboseFlag(t *testing.T) {
	out, err := execute(t, "ls\n", "-v")

	require.NoError(t, err)
	assert.Equal(t, "/$ Executing command: ls \nDirectory is empty.\n/$ ", out)
}

func TestRoot_StartupFailures(t *testing.T) {
	dir := t.TempDir()
	odd := writeFile(t, dir, "odd.txt", " / 1\n")
	badNodes := writeFile(t, dir, "nodes.json", `{"type":"dir"}`)
	badCfg := writeFile(t, dir, "cfg.toml", "verbose = true\n")

	tests := map[string][]string{
		"missing_load":   {"--load", filepath.Join(dir, "missing.txt")},
		"fatal_load":     {"--load", odd},
		"missing_nodes":  {"--nodes", filepath.Join(dir, "missing.json")},
		"bad_nodes":      {"--nodes", badNodes},
		"bad_config_ext": {"--config", badCfg},
		"missing_env":    {"--env-file", filepath.Join(dir, "missing.env")},
		"positional_arg": {"extra"},
	}
	for name, args := range tests {
		_, err := execute(t, "", args...)
		assert.Error(t, err, name)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "cfg.yaml", "verbose: true\nmax_name_len: 10\nmax_depth: 50\n")
	envFile := writeFile(t, dir, ".env", "NSTREE_MAX_NAME_LEN=20\nNSTREE_LOG_LEVEL=4\n")

	var opts options
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(flags, &opts)
	require.NoError(t, flags.Parse([]string{
		"--config", cfgFile,
		"--env-file", envFile,
		"--verbose=false",
		"--no-color",
		"--no-save-prompt",
	}))

	cfg, err := loadConfig(flags, &opts)

	require.NoError(t, err)
	assert.False(t, cfg.Verbose, "flags beat the config file")
	assert.Equal(t, 20, cfg.MaxNameLen, "env file beats the config file")
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, util.DebugLevel, cfg.LogLvl)
	assert.False(t, cfg.Color)
	assert.False(t, cfg.PromptOnExit)
}

func TestLoadConfig_Defaults(t *testing.T) {
	var opts options
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(flags, &opts)
	require.NoError(t, flags.Parse(nil))

	cfg, err := loadConfig(flags, &opts)

	require.NoError(t, err)
	assert.Equal(t, util.WarnLevel, cfg.LogLvl)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.PromptOnExit)
	assert.True(t, cfg.Color)
}
