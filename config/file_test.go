package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Resolution != "1920x1080" || cfg.Render.FPS != 30 || !cfg.Media.Probe {
		t.Fatalf("defaults %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidestack.yaml")
	data := "render:\n  fps: 24\n  poll_interval: 2s\nmedia:\n  probe: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.FPS != 24 || cfg.Render.PollInterval != 2*time.Second || cfg.Media.Probe {
		t.Fatalf("loaded %+v", cfg)
	}
	if cfg.Render.Resolution != "1920x1080" || cfg.Render.Planners != 2 {
		t.Fatalf("unset keys must keep defaults: %+v", cfg.Render)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("render: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()).Render.FPS != 30 {
		t.Fatal("empty context gives defaults")
	}
	cfg := Default()
	cfg.Render.FPS = 60
	if FromContext(WithConfig(context.Background(), cfg)).Render.FPS != 60 {
		t.Fatal("stored config not returned")
	}
}

func TestEnvGetters(t *testing.T) {
	t.Setenv("SLIDESTACK_DATA_DIR", "/srv/slides")
	t.Setenv("SLIDESTACK_CONFIG_DIR", "")
	os.Unsetenv("SLIDESTACK_CONFIG_DIR")
	if got := GetConfigDir(); got != "/srv/slides/config" {
		t.Fatalf("config dir %q", got)
	}
	t.Setenv("SLIDESTACK_DEBUG", "Yes")
	if !GetDebug() {
		t.Fatal("debug flag")
	}
}
