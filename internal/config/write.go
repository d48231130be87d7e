package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// document returns the configuration as nested maps with durations
// rendered as strings, the form both TOML and YAML files use.
func (c Config) document() map[string]any {
	return map[string]any{
		"history": map[string]any{
			"max_entries": c.History.MaxEntries,
		},
		"tablemap": map[string]any{
			"cache_ttl":        c.TableMap.CacheTTL.String(),
			"cleanup_interval": c.TableMap.CleanupInterval.String(),
		},
		"lua": map[string]any{
			"call_limit":      c.Lua.CallLimit,
			"timeout":         c.Lua.Timeout.String(),
			"allow_file_read": c.Lua.AllowFileRead,
		},
		"dispatcher": map[string]any{
			"recover_panics":   c.Dispatcher.RecoverPanics,
			"max_repeat_count": c.Dispatcher.MaxRepeatCount,
			"timeout":          c.Dispatcher.Timeout.String(),
			"metrics":          c.Dispatcher.Metrics,
			"audit":            c.Dispatcher.Audit,
			"performance":      c.Dispatcher.Performance,
			"slow_threshold":   c.Dispatcher.SlowThreshold.String(),
			"sample_rate":      c.Dispatcher.SampleRate,
		},
		"output": map[string]any{
			"format": c.Output.Format,
		},
	}
}

// Marshal encodes the configuration in the format named by ext
// (".toml", ".yaml" or ".yml").
func (c Config) Marshal(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Marshal(c.document())
	case ".yaml", ".yml":
		return yaml.Marshal(c.document())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// WriteDefault writes the default configuration to path, creating parent
// directories as needed. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	data, err := Defaults().Marshal(filepath.Ext(path))
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	glog.V(1).Infof("config: wrote defaults to %s", path)
	return nil
}
