package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nruntime_url: http://localhost:8500\ndefault_model: blip-base\ndefault_llm: phi3-mini\nmax_upload_mb: 10\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.RuntimeURL != "http://localhost:8500" || cfg.DefaultImageModel != "blip-base" || cfg.DefaultTextModel != "phi3-mini" || cfg.MaxUploadMB != 10 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","runtime_url":"http://r:1","default_model":"vit-gpt2","log_level":"debug"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.RuntimeURL != "http://r:1" || cfg.DefaultImageModel != "vit-gpt2" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nruntime_url=\"http://r:2\"\ndefault_llm=\"gemma2-2b\"\ndebug=true\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.RuntimeURL != "http://r:2" || cfg.DefaultTextModel != "gemma2-2b" || !cfg.Debug {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error on missing file")
	}
	p := writeTempFile(t, d, "cfg.ini", "addr=:1")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error on unsupported extension")
	}
	p = writeTempFile(t, d, "bad.yaml", ":\n  - {")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error on invalid yaml")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CAPTIOND_ADDR", ":1234")
	t.Setenv("CAPTIOND_RUNTIME_URL", "http://env:9")
	t.Setenv("CAPTIOND_DEFAULT_MODEL", "moondream-2")
	t.Setenv("CAPTIOND_MAX_UPLOAD_MB", "5")
	t.Setenv("CAPTIOND_DEBUG", "1")

	cfg := ApplyEnv(Config{Addr: ":8080", MaxUploadMB: 50})
	if cfg.Addr != ":1234" || cfg.RuntimeURL != "http://env:9" || cfg.DefaultImageModel != "moondream-2" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.MaxUploadMB != 5 || !cfg.Debug {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestApplyEnvIgnoresInvalidInt(t *testing.T) {
	t.Setenv("CAPTIOND_MAX_UPLOAD_MB", "not-a-number")
	cfg := ApplyEnv(Config{MaxUploadMB: 50})
	if cfg.MaxUploadMB != 50 {
		t.Fatalf("invalid int should be ignored: %+v", cfg)
	}
}
