package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// savedConfig mirrors the YAML keys written by the save functions. Config
// itself carries mapstructure tags, so it cannot decode the file directly.
type savedConfig struct {
	SourceDirs []string        `yaml:"source_dirs"`
	Output     string          `yaml:"output"`
	Flags      map[string]bool `yaml:"flags"`
}

func TestSaveSourceDirs_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gumup.yaml")

	require.NoError(t, SaveSourceDirs(path, []string{"src", "vendor/js"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg savedConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, []string{"src", "vendor/js"}, cfg.SourceDirs)
}

func TestSaveSourceDirs_ReplacesExistingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gumup.yaml")
	initial := "source_dirs:\n  - old\noutput: dist/app.js\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	require.NoError(t, SaveSourceDirs(path, []string{"src"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg savedConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, []string{"src"}, cfg.SourceDirs)
	require.Equal(t, "dist/app.js", cfg.Output, "other sections must survive")
}

func TestSaveSourceDirs_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gumup.yaml")
	initial := "# build output\noutput: dist/app.js\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	require.NoError(t, SaveSourceDirs(path, []string{"src"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# build output")
}

func TestSaveFlags_SortedAndTyped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gumup.yaml")

	require.NoError(t, SaveFlags(path, map[string]bool{
		"watch-flush-cache":  true,
		"strict-annotations": false,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg savedConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, map[string]bool{
		"strict-annotations": false,
		"watch-flush-cache":  true,
	}, cfg.Flags)

	// strict-annotations sorts before watch-flush-cache
	text := string(data)
	require.Less(t,
		indexOf(t, text, "strict-annotations"),
		indexOf(t, text, "watch-flush-cache"))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	t.Fatalf("substring %q not found", sub)
	return -1
}
