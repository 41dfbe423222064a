package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gumup/gumup/internal/config"
	"github.com/gumup/gumup/internal/domain/unit"
	"github.com/gumup/gumup/internal/pubsub"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) (config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0755))

	cfg := config.Defaults()
	cfg.SourceDirs = []string{src}
	cfg.Output = filepath.Join(dir, "dist", "bundle.js")
	return cfg, src
}

func TestApp_Build(t *testing.T) {
	cfg, src := testConfig(t)
	writeSource(t, src, "config.js", "// @unit app.config\nvar cfg = {};\n")
	writeSource(t, src, "router.js", "// @unit app.router\n// @require app.config\nvar router = cfg;\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	result, err := a.Build(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.Files, 2)

	bundle, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	text := string(bundle)
	require.Contains(t, text, "var cfg = {};")
	require.Less(t,
		indexOf(t, text, "var cfg"),
		indexOf(t, text, "var router"),
		"dependency must precede dependent in the bundle")
}

func TestApp_Build_PublishesEvents(t *testing.T) {
	cfg, src := testConfig(t)
	writeSource(t, src, "app.js", "// @unit app\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.Events().Subscribe(ctx)

	_, err = a.Build(context.Background())
	require.NoError(t, err)

	var types []pubsub.EventType
	timeout := time.After(time.Second)
	for len(types) < 2 {
		select {
		case evt := <-events:
			types = append(types, evt.Type)
		case <-timeout:
			t.Fatalf("expected 2 events, got %v", types)
		}
	}
	require.Equal(t, []pubsub.EventType{pubsub.BuildStartedEvent, pubsub.BuildFinishedEvent}, types)
}

func TestApp_Build_CycleFails(t *testing.T) {
	cfg, src := testConfig(t)
	writeSource(t, src, "a.js", "// @unit a\n// @require b\n")
	writeSource(t, src, "b.js", "// @unit b\n// @require a\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	_, err = a.Build(context.Background())
	require.ErrorIs(t, err, unit.ErrRecursiveDependency)

	_, statErr := os.Stat(cfg.Output)
	require.True(t, os.IsNotExist(statErr), "failed build must not write a bundle")
}

func TestApp_Order(t *testing.T) {
	cfg, src := testConfig(t)
	a1 := writeSource(t, src, "a.js", "// @unit a\n")
	b1 := writeSource(t, src, "b.js", "// @unit b\n// @require a\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	files, err := a.Order(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{a1, b1}, files)

	_, statErr := os.Stat(cfg.Output)
	require.True(t, os.IsNotExist(statErr), "order must not write a bundle")
}

func TestApp_Units(t *testing.T) {
	cfg, src := testConfig(t)
	writeSource(t, src, "a.js", "// @unit a\n// @require b\n")
	writeSource(t, src, "b.js", "// @unit b\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	units, err := a.Units(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
}

func TestApp_ManifestUnits(t *testing.T) {
	cfg, src := testConfig(t)
	// Plain sources with no annotations, declared by the manifest instead.
	writeSource(t, src, "legacy.js", "var legacy = true;\n")
	writeSource(t, src, "main.js", "// @unit main\n// @require legacy\n")

	manifest := filepath.Join(src, "units.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(
		"units:\n  - name: legacy\n    file: legacy.js\n"), 0644))
	cfg.Manifest = manifest

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	files, err := a.Order(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(src, "legacy.js"),
		filepath.Join(src, "main.js"),
	}, files)
}

func TestNew_DefaultsNeedNoManifestFile(t *testing.T) {
	// Defaults leave the manifest unset, so New must not require a
	// units.yaml in the working directory.
	cfg, _ := testConfig(t)
	require.Empty(t, cfg.Manifest)

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close(context.Background()))
}

func TestApp_Build_FailureEventCarriesError(t *testing.T) {
	cfg, src := testConfig(t)
	writeSource(t, src, "a.js", "// @unit a\n// @require b\n")
	writeSource(t, src, "b.js", "// @unit b\n// @require a\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := a.Events().Subscribe(ctx)

	_, err = a.Build(context.Background())
	require.Error(t, err)

	timeout := time.After(time.Second)
	for {
		select {
		case evt := <-events:
			if evt.Type != pubsub.BuildFailedEvent {
				continue
			}
			require.NotEmpty(t, evt.Payload.RunID)
			require.Contains(t, evt.Payload.Err, "recursive dependency")
			return
		case <-timeout:
			t.Fatal("no failure event published")
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.SourceDirs = nil

	_, err := New(cfg)
	require.Error(t, err)
}

func TestApp_Watch_RebuildsOnChange(t *testing.T) {
	cfg, src := testConfig(t)
	cfg.Watch.Debounce = 50 * time.Millisecond
	writeSource(t, src, "app.js", "// @unit app\nvar rev = 1;\n")

	a, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = a.Close(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(cfg.Output)
		return err == nil && string(data) == "// @unit app\nvar rev = 1;\n"
	}, 2*time.Second, 20*time.Millisecond, "initial build")

	writeSource(t, src, "app.js", "// @unit app\nvar rev = 2;\n")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(cfg.Output)
		return err == nil && string(data) == "// @unit app\nvar rev = 2;\n"
	}, 2*time.Second, 20*time.Millisecond, "rebuild after change")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancel")
	}
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
