package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "treewalk" {
		t.Errorf("backend = %q, want treewalk", cfg.Backend)
	}
	if cfg.MailboxCapacity != DefaultMailboxCapacity {
		t.Errorf("mailbox capacity = %d, want %d", cfg.MailboxCapacity, DefaultMailboxCapacity)
	}
}

func TestLoadReadsYaml(t *testing.T) {
	dir := t.TempDir()
	content := "backend: vm\nmailbox_capacity: 50\ndebug: true\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "vm" || cfg.MailboxCapacity != 50 || !cfg.Debug {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("backend: vm\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "vm" {
		t.Errorf("backend = %q, want vm from ancestor config", cfg.Backend)
	}
}
