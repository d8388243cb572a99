// Package config handles configuration loading and context home resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rev4nchist/FastMCP/internal/models"
)

// StoreFileName is the backing JSON file inside the context home.
const StoreFileName = "context_store.json"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// DefaultsConfig supplies field values when an add omits them.
type DefaultsConfig struct {
	Type     string `yaml:"type"`
	Priority string `yaml:"priority"`
}

// ListConfig controls listing behavior.
type ListConfig struct {
	RecentLimit int `yaml:"recent_limit"`
}

// ContextConfig is the root per-home configuration.
type ContextConfig struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	List     ListConfig     `yaml:"list"`
}

// Default returns a ContextConfig populated with sensible defaults.
func Default() *ContextConfig {
	return &ContextConfig{
		Defaults: DefaultsConfig{
			Type:     string(models.TypeConversation),
			Priority: string(models.PriorityMedium),
		},
		List: ListConfig{
			RecentLimit: 10,
		},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values; invalid enum defaults are rejected.
func Load(path string) (*ContextConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if defaults, ok := raw["defaults"].(map[string]any); ok {
		if v, ok := defaults["type"].(string); ok && v != "" {
			cfg.Defaults.Type = v
		}
		if v, ok := defaults["priority"].(string); ok && v != "" {
			cfg.Defaults.Priority = v
		}
	}

	if list, ok := raw["list"].(map[string]any); ok {
		if v, ok := list["recent_limit"].(int); ok && v > 0 {
			cfg.List.RecentLimit = v
		}
	}

	if _, err := models.ParseContextType(cfg.Defaults.Type); err != nil {
		return nil, fmt.Errorf("config: defaults.type: %w", err)
	}
	if _, err := models.ParsePriority(cfg.Defaults.Priority); err != nil {
		return nil, fmt.Errorf("config: defaults.priority: %w", err)
	}

	return cfg, nil
}

// StorePath returns the backing JSON file path inside the given context home.
func StorePath(home string) string {
	return filepath.Join(home, StoreFileName)
}

// ---------------------------------------------------------------------------
// Context home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global contextman config file.
// This file stores only context_home (and future global settings).
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "contextman", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveContextHome returns the context home path and the source of the
// resolution. Priority: CONTEXT_HOME env → persisted global config → ~/.contextman
// source is one of "env", "config", or "default".
func ResolveContextHome() (path, source string) {
	if env := os.Getenv("CONTEXT_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedContextHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".contextman"), "default"
}

// GetContextHome returns the resolved context home path.
func GetContextHome() string {
	path, _ := ResolveContextHome()
	return path
}

// GetPersistedContextHome reads context_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedContextHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["context_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedContextHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedContextHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Read existing global config, preserving any other keys.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["context_home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedContextHome removes context_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedContextHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["context_home"]; !ok {
		return false, nil
	}
	delete(raw, "context_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
