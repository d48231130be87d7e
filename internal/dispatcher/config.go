package dispatcher

import "time"

// Config tunes a Dispatcher. The zero value dispatches without metrics,
// panic recovery, timeout or repeat limit.
type Config struct {
	// EnableMetrics counts dispatches per action and status.
	EnableMetrics bool

	// RecoverFromPanic turns a handler panic into an ErrPanic result.
	RecoverFromPanic bool

	// DefaultTimeout bounds each dispatch. Zero disables the bound.
	DefaultTimeout time.Duration

	// MaxRepeatCount caps Action.Count. Zero leaves counts alone.
	MaxRepeatCount int
}

// DefaultConfig recovers from panics and caps repeat counts at 10000.
func DefaultConfig() Config {
	return Config{RecoverFromPanic: true, MaxRepeatCount: 10000}
}

func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

func (c Config) WithPanicRecovery(on bool) Config {
	c.RecoverFromPanic = on
	return c
}

func (c Config) WithTimeout(d time.Duration) Config {
	c.DefaultTimeout = d
	return c
}

func (c Config) WithMaxRepeatCount(n int) Config {
	c.MaxRepeatCount = n
	return c
}
