package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings are the defaults for command line flags. They come from a YAML
// file and the environment.
type Settings struct {
	CacheDir  string `yaml:"cache_dir"`
	Edition   string `yaml:"edition"`
	Release   bool   `yaml:"release"`
	Cached    bool   `yaml:"cached"`
	Toolchain string `yaml:"toolchain"`
	LogLevel  string `yaml:"log_level"`
}

func defaultSettings() Settings {
	return Settings{
		Edition:  string(DefaultEdition),
		LogLevel: "warn",
	}
}

// LoadSettings reads .env from the working directory, then the settings
// file, then PLAY_* environment variables. Later sources win.
func LoadSettings() (Settings, error) {
	if err := loadDotEnv(".env"); err != nil {
		return defaultSettings(), err
	}
	return loadSettings(settingsPath(os.Getenv), os.Getenv)
}

func loadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fsError("load", file, err)
		}
	}
	return nil
}

func settingsPath(getenv func(string) string) string {
	if path := strings.TrimSpace(getenv("PLAY_CONFIG")); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "play", "config.yaml")
}

func loadSettings(path string, getenv func(string) string) (Settings, error) {
	s := defaultSettings()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fsError("open", path, err)
		default:
			defer func() { _ = f.Close() }()
			if err := yaml.NewDecoder(f).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
				return s, fsError("parse", path, err)
			}
		}
	}

	s.CacheDir = firstNonEmpty(getenv("PLAY_CACHE_DIR"), s.CacheDir)
	s.Edition = firstNonEmpty(getenv("PLAY_EDITION"), s.Edition)
	s.Toolchain = firstNonEmpty(getenv("PLAY_TOOLCHAIN"), s.Toolchain)
	s.LogLevel = firstNonEmpty(getenv("PLAY_LOG"), s.LogLevel)
	return s, nil
}
