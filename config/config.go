// Package config loads the untisgo client profile.
// The profile is stored in ~/.config/untisgo/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the connection profile a frontend needs to build a
// session: where the server is, who logs in, where the persistence
// collaborators keep their files, and how long one wire attempt may take.
type Config struct {
	Server         string
	School         string
	User           string
	CredentialPath string
	CachePath      string
	Timeout        time.Duration
}

const (
	defaultConfigPath     = "~/.config/untisgo/config.toml"
	defaultCredentialPath = "~/.config/untisgo/credentials.toml"
	defaultCachePath      = "~/.local/share/untisgo/timetables.db"
	defaultTimeout        = 10 * time.Second
)

// DefaultPath returns the default profile location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the profile, falling back to defaults when the
// file is missing. Server, school, and user have no defaults; they stay
// empty until the profile provides them.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CredentialPath: mustExpand(defaultCredentialPath),
		CachePath:      mustExpand(defaultCachePath),
		Timeout:        defaultTimeout,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server         string `toml:"server"`
		School         string `toml:"school"`
		User           string `toml:"user"`
		CredentialPath string `toml:"credential_path"`
		CachePath      string `toml:"cache_path"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server = strings.TrimSpace(raw.Server)
	cfg.School = strings.TrimSpace(raw.School)
	cfg.User = strings.TrimSpace(raw.User)

	if p := strings.TrimSpace(raw.CredentialPath); p != "" {
		cfg.CredentialPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.CachePath); p != "" {
		cfg.CachePath = mustExpand(p)
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
