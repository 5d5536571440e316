package exprbox

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/podhmo/exprbox/cache"
	"github.com/podhmo/exprbox/evaluator"
)

// Config holds the settings an Interpreter is built from. The zero value of
// each field selects its default; see DefaultConfig.
type Config struct {
	// Logger receives debug output about caching and evaluation.
	Logger *slog.Logger

	// EntryPoint is the name of the function a snippet body is wrapped in.
	EntryPoint string

	// MaxDepth bounds the nesting of nodes visited during one evaluation.
	MaxDepth int

	// CacheSize is the number of parsed snippets kept for reuse. A negative
	// value disables the cache.
	CacheSize int

	// Concurrency bounds the number of requests EvalBatch evaluates at once.
	Concurrency int
}

// DefaultConfig returns the configuration used by New without options.
func DefaultConfig() Config {
	return Config{
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		EntryPoint:  evaluator.DefaultEntryPoint,
		MaxDepth:    evaluator.DefaultMaxDepth,
		CacheSize:   cache.DefaultSize,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.EntryPoint == "" {
		c.EntryPoint = def.EntryPoint
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.CacheSize == 0 {
		c.CacheSize = def.CacheSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	return c
}
