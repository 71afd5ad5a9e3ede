package ringlog

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Config holds the tunables for a Runtime. Build one with Options passed
// to New rather than constructing the struct directly — defaultConfig
// supplies every field New needs before applying overrides.
type Config struct {
	InputBufferSize     int
	SharedQueueCapacity int
	MaxOutputBufferSize int
	MaxFlushRetries     int

	BackoffStart time.Duration
	BackoffMax   time.Duration

	ErrorHandler func(error)

	RateLimit        int // events/sec; 0 disables the limiter
	MetricsRegistry  prometheus.Registerer
	MetricsNamespace string
}

// Option mutates a Config, the way the teacher's logging libraries expose
// functional-option configuration.
type Option func(*Config)

func WithInputBufferSize(n int) Option {
	return func(c *Config) { c.InputBufferSize = n }
}

func WithSharedQueueCapacity(n int) Option {
	return func(c *Config) { c.SharedQueueCapacity = n }
}

func WithMaxOutputBufferSize(n int) Option {
	return func(c *Config) { c.MaxOutputBufferSize = n }
}

func WithMaxFlushRetries(n int) Option {
	return func(c *Config) { c.MaxFlushRetries = n }
}

func WithBackoffSchedule(start, max time.Duration) Option {
	return func(c *Config) { c.BackoffStart = start; c.BackoffMax = max }
}

func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) { c.ErrorHandler = fn }
}

// WithRateLimit caps how many Commit calls per second the Producers of a
// Runtime may make in total, using one token-bucket limiter shared by all
// of them. A rate-limited producer does not lose
// data: frames already written to its ring stay there, and Commit simply
// waits for a token rather than dropping the extent — stricter than the
// teacher's own drop-on-limit behavior.
func WithRateLimit(eventsPerSecond int) Option {
	return func(c *Config) { c.RateLimit = eventsPerSecond }
}

// WithMetricsRegisterer enables Prometheus instrumentation, registering
// collectors against reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) { c.MetricsRegistry = reg }
}

func WithMetricsNamespace(ns string) Option {
	return func(c *Config) { c.MetricsNamespace = ns }
}

func defaultConfig() Config {
	return Config{
		InputBufferSize:     DefaultInputBufferSize,
		SharedQueueCapacity: DefaultSharedQueueCapacity,
		MaxOutputBufferSize: DefaultMaxOutputBufferSize,
		MaxFlushRetries:     3,
		BackoffStart:        time.Millisecond,
		BackoffMax:          time.Second,
		MetricsNamespace:    "ringlog",
	}
}

func (c *Config) validate() error {
	if c.InputBufferSize < 0 {
		return fmt.Errorf("%w: InputBufferSize cannot be negative", ErrInvalidConfig)
	}
	if c.SharedQueueCapacity < 0 {
		return fmt.Errorf("%w: SharedQueueCapacity cannot be negative", ErrInvalidConfig)
	}
	if c.MaxOutputBufferSize <= 0 {
		return fmt.Errorf("%w: MaxOutputBufferSize must be positive", ErrInvalidConfig)
	}
	if c.MaxFlushRetries < 0 {
		return fmt.Errorf("%w: MaxFlushRetries cannot be negative", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: RateLimit cannot be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) rateLimiter() *rate.Limiter {
	if c.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimit), c.RateLimit)
}
