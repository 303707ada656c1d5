package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Theme         string `toml:"theme"`
	Accent        string `toml:"accent"`
	Locale        string `toml:"locale"`
	DocumentsRoot string `toml:"documents_root"`
	ExportsOutput string `toml:"exports_output"`
	SignedURLTTL  int    `toml:"signed_url_ttl_minutes"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Theme:         "dark",
		Accent:        "212",
		Locale:        "en",
		DocumentsRoot: filepath.Join(homeDir, ".jobdeck", "documents"),
		ExportsOutput: filepath.Join(homeDir, "Documents", "jobdeck-exports"),
		SignedURLTTL:  15,
	}
}

func JobdeckDir() (string, error) {
	if dir := os.Getenv("JOBDECK_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".jobdeck"), nil
}

func ConfigPath() (string, error) {
	dir, err := JobdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := JobdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "jobdeck.sqlite"), nil
}

func SessionPath() (string, error) {
	dir, err := JobdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.toml"), nil
}

func StatePath() (string, error) {
	dir, err := JobdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.toml"), nil
}

func ErrorLogPath() (string, error) {
	dir, err := JobdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors.log"), nil
}

func EnsureDirectories() error {
	dir, err := JobdeckDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	// Optional .env next to the binary overrides paths, useful in dev
	_ = godotenv.Load()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	cfg.DocumentsRoot = expandPath(cfg.DocumentsRoot)
	cfg.ExportsOutput = expandPath(cfg.ExportsOutput)

	if root := os.Getenv("JOBDECK_DOCUMENTS_ROOT"); root != "" {
		cfg.DocumentsRoot = expandPath(root)
	}

	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 15
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
