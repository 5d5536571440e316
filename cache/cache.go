package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/podhmo/exprbox/ast"
)

// DefaultSize is the number of programs kept when no size is configured.
const DefaultSize = 256

type key struct {
	entry string
	body  string
}

// ProgramCache keeps parsed programs keyed by entry point and body source so
// that evaluating the same snippet again skips parsing.
//
// Cached trees are shared between callers and must not be modified. When the
// cache is full the oldest entry is evicted.
type ProgramCache struct {
	mu      sync.RWMutex
	entries map[key]*ast.Program
	order   []key // insertion order, oldest first
	size    int
	logger  *slog.Logger
}

// NewProgramCache creates a cache holding at most size programs.
// A size of zero or less disables caching.
func NewProgramCache(size int, logger *slog.Logger) *ProgramCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProgramCache{
		entries: make(map[key]*ast.Program),
		size:    size,
		logger:  logger,
	}
}

// IsEnabled returns true if the cache stores anything.
func (c *ProgramCache) IsEnabled() bool {
	return c != nil && c.size > 0
}

// Get returns the cached program for (entry, body).
func (c *ProgramCache) Get(ctx context.Context, entry, body string) (*ast.Program, bool) {
	if !c.IsEnabled() {
		return nil, false
	}
	c.mu.RLock()
	prog, ok := c.entries[key{entry, body}]
	c.mu.RUnlock()

	if ok {
		c.logger.DebugContext(ctx, "CACHE HIT", slog.String("entry", entry), slog.Int("body_len", len(body)))
	} else {
		c.logger.DebugContext(ctx, "CACHE MISS", slog.String("entry", entry), slog.Int("body_len", len(body)))
	}
	return prog, ok
}

// Set stores prog for (entry, body), evicting the oldest entry if needed.
func (c *ProgramCache) Set(ctx context.Context, entry, body string, prog *ast.Program) {
	if !c.IsEnabled() || prog == nil {
		return
	}
	k := key{entry, body}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; exists {
		c.entries[k] = prog
		return
	}
	for len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.logger.DebugContext(ctx, "CACHE EVICT", slog.String("entry", oldest.entry))
	}
	c.entries[k] = prog
	c.order = append(c.order, k)
}

// GetOrLoad returns the cached program for (entry, body), calling load and
// caching its result on a miss. Errors from load are not cached.
func (c *ProgramCache) GetOrLoad(ctx context.Context, entry, body string, load func() (*ast.Program, error)) (*ast.Program, error) {
	if prog, ok := c.Get(ctx, entry, body); ok {
		return prog, nil
	}
	prog, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(ctx, entry, body, prog)
	return prog, nil
}

// Len returns the number of cached programs.
func (c *ProgramCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
