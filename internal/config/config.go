package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the script
// directory upward.
const FileName = "ruvy.yaml"

// Config is the optional per-project configuration.
type Config struct {
	// Backend selects the default execution backend: "treewalk" or "vm".
	Backend string `yaml:"backend"`
	// MailboxCapacity overrides the actor mailbox bound.
	MailboxCapacity int `yaml:"mailbox_capacity"`
	// HistoryPath overrides the REPL history database location.
	HistoryPath string `yaml:"history_path"`
	// Debug enables diagnostic output.
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no ruvy.yaml is found.
func Default() *Config {
	return &Config{
		Backend:         "treewalk",
		MailboxCapacity: DefaultMailboxCapacity,
	}
}

// Load reads ruvy.yaml from dir or the nearest ancestor. A missing file
// is not an error; the defaults apply.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path, ok := findConfig(dir)
	if !ok {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Backend == "" {
		cfg.Backend = "treewalk"
	}
	if cfg.MailboxCapacity <= 0 {
		cfg.MailboxCapacity = DefaultMailboxCapacity
	}
	return cfg, nil
}

func findConfig(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
