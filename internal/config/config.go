package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/plugin/lua"
	"github.com/dshills/gridstorm/internal/table/tablemap"
)

// EnvPrefix is the prefix of environment variable overrides.
// GRIDSTORM_LUA_TIMEOUT overrides lua.timeout.
const EnvPrefix = "GRIDSTORM"

// Output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Config holds all gridstorm settings.
type Config struct {
	History    HistoryConfig    `mapstructure:"history"`
	TableMap   TableMapConfig   `mapstructure:"tablemap"`
	Lua        LuaConfig        `mapstructure:"lua"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Output     OutputConfig     `mapstructure:"output"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack.
	MaxEntries int `mapstructure:"max_entries"`
}

// TableMapConfig configures the grid map cache.
type TableMapConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LuaConfig configures script execution.
type LuaConfig struct {
	// CallLimit bounds host API calls per script run. Zero disables it.
	CallLimit int64         `mapstructure:"call_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// AllowFileRead gives scripts io.lines and io.read_all.
	AllowFileRead bool `mapstructure:"allow_file_read"`
}

// DispatcherConfig configures action dispatch.
type DispatcherConfig struct {
	RecoverPanics  bool          `mapstructure:"recover_panics"`
	MaxRepeatCount int           `mapstructure:"max_repeat_count"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Metrics        bool          `mapstructure:"metrics"`
	Audit          bool          `mapstructure:"audit"`

	// Performance enables per-action latency tracking.
	Performance   bool          `mapstructure:"performance"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	SampleRate    float64       `mapstructure:"sample_rate"`
}

// OutputConfig configures how documents are written.
type OutputConfig struct {
	// Format is "json" or "html".
	Format string `mapstructure:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries: engine.DefaultMaxUndoEntries,
		},
		TableMap: TableMapConfig{
			CacheTTL:        tablemap.DefaultExpiration,
			CleanupInterval: tablemap.DefaultCleanupInterval,
		},
		Lua: LuaConfig{
			CallLimit: lua.DefaultCallLimit,
			Timeout:   lua.DefaultExecutionTimeout,
		},
		Dispatcher: DispatcherConfig{
			RecoverPanics:  true,
			MaxRepeatCount: dispatcher.DefaultConfig().MaxRepeatCount,
			Metrics:        true,
			Audit:          true,
			SlowThreshold:  dispatcher.DefaultSystemConfig().SlowActionThreshold,
			SampleRate:     1.0,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// defaultValues flattens Defaults into viper keys.
func defaultValues() map[string]any {
	d := Defaults()
	return map[string]any{
		"history.max_entries":         d.History.MaxEntries,
		"tablemap.cache_ttl":          d.TableMap.CacheTTL,
		"tablemap.cleanup_interval":   d.TableMap.CleanupInterval,
		"lua.call_limit":              d.Lua.CallLimit,
		"lua.timeout":                 d.Lua.Timeout,
		"lua.allow_file_read":         d.Lua.AllowFileRead,
		"dispatcher.recover_panics":   d.Dispatcher.RecoverPanics,
		"dispatcher.max_repeat_count": d.Dispatcher.MaxRepeatCount,
		"dispatcher.timeout":          d.Dispatcher.Timeout,
		"dispatcher.metrics":          d.Dispatcher.Metrics,
		"dispatcher.audit":            d.Dispatcher.Audit,
		"dispatcher.performance":      d.Dispatcher.Performance,
		"dispatcher.slow_threshold":   d.Dispatcher.SlowThreshold,
		"dispatcher.sample_rate":      d.Dispatcher.SampleRate,
		"output.format":               d.Output.Format,
	}
}

// newViper returns a viper instance with defaults and environment
// overrides registered.
func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path, applying defaults and environment
// overrides. An empty path loads defaults and environment only. The file
// type follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml", ".yaml", ".yml":
		default:
			return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return Config{}, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with. All failures are
// joined into one error; each is a *ValidationError.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: ErrCodeOutOfRange})
		}
	}

	check(c.History.MaxEntries > 0, "history.max_entries", "must be positive", c.History.MaxEntries)
	check(c.TableMap.CacheTTL > 0, "tablemap.cache_ttl", "must be positive", c.TableMap.CacheTTL)
	check(c.TableMap.CleanupInterval > 0, "tablemap.cleanup_interval", "must be positive", c.TableMap.CleanupInterval)
	check(c.Lua.CallLimit >= 0, "lua.call_limit", "must not be negative", c.Lua.CallLimit)
	check(c.Lua.Timeout >= 0, "lua.timeout", "must not be negative", c.Lua.Timeout)
	check(c.Dispatcher.MaxRepeatCount >= 0, "dispatcher.max_repeat_count", "must not be negative", c.Dispatcher.MaxRepeatCount)
	check(c.Dispatcher.Timeout >= 0, "dispatcher.timeout", "must not be negative", c.Dispatcher.Timeout)
	check(c.Dispatcher.SlowThreshold >= 0, "dispatcher.slow_threshold", "must not be negative", c.Dispatcher.SlowThreshold)
	check(c.Dispatcher.SampleRate > 0 && c.Dispatcher.SampleRate <= 1, "dispatcher.sample_rate", "must be in (0, 1]", c.Dispatcher.SampleRate)

	switch c.Output.Format {
	case FormatJSON, FormatHTML:
	default:
		errs = append(errs, &ValidationError{
			Path:    "output.format",
			Message: fmt.Sprintf("must be %q or %q", FormatJSON, FormatHTML),
			Value:   c.Output.Format,
			Code:    ErrCodeInvalidEnum,
		})
	}

	return errors.Join(errs...)
}

// EngineOptions returns the engine options these settings imply.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{engine.WithMaxUndoEntries(c.History.MaxEntries)}
}

// SystemConfig returns the dispatcher system configuration.
func (c Config) SystemConfig() dispatcher.SystemConfig {
	sc := dispatcher.DefaultSystemConfig()
	dc := dispatcher.DefaultConfig().
		WithPanicRecovery(c.Dispatcher.RecoverPanics).
		WithMaxRepeatCount(c.Dispatcher.MaxRepeatCount).
		WithTimeout(c.Dispatcher.Timeout)
	if c.Dispatcher.Metrics {
		dc = dc.WithMetrics()
	}
	sc.DispatcherConfig = dc
	sc.EnableAudit = c.Dispatcher.Audit
	sc.EnablePerformanceMonitor = c.Dispatcher.Performance
	sc.SlowActionThreshold = c.Dispatcher.SlowThreshold
	sc.PerformanceSampleRate = c.Dispatcher.SampleRate
	return sc
}

// LuaOptions returns the script state options.
func (c Config) LuaOptions() []lua.StateOption {
	opts := []lua.StateOption{
		lua.WithCallLimit(c.Lua.CallLimit),
		lua.WithExecutionTimeout(c.Lua.Timeout),
	}
	if c.Lua.AllowFileRead {
		opts = append(opts, lua.WithCapabilities(lua.CapabilityFileRead))
	}
	return opts
}

// Apply installs process-wide settings: the grid map cache.
func (c Config) Apply() {
	tablemap.SetDefaultCache(tablemap.NewCache(c.TableMap.CacheTTL, c.TableMap.CleanupInterval))
}
