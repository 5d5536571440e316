// Package exprbox evaluates short, data-driven snippets written in a small
// JavaScript-like expression language.
//
// A snippet is the body of a single function:
//
//	return [1, 2, 3].includes(x) && Math.abs(y) > 1;
//
// It is evaluated against caller-supplied global bindings and either yields a
// value or fails with an *Error describing exactly which construct is not
// supported. Nothing outside the language (I/O, globals of the host, loops)
// is reachable from a snippet.
package exprbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/podhmo/exprbox/ast"
	"github.com/podhmo/exprbox/cache"
	"github.com/podhmo/exprbox/evaluator"
	"github.com/podhmo/exprbox/object"
	"github.com/podhmo/exprbox/parser"
	"golang.org/x/sync/errgroup"
)

// Error is the error type returned for every rejected or failed snippet.
type Error = evaluator.Error

// Sentinels for errors.Is.
var (
	ErrParseFailed                 = evaluator.ErrParseFailed
	ErrUnsupportedShape            = evaluator.ErrUnsupportedShape
	ErrUnsupportedFunction         = evaluator.ErrUnsupportedFunction
	ErrAsyncOrGeneratorUnsupported = evaluator.ErrAsyncOrGeneratorUnsupported
	ErrUndefinedVariable           = evaluator.ErrUndefinedVariable
	ErrUnsupportedOperator         = evaluator.ErrUnsupportedOperator
	ErrUnsupportedCall             = evaluator.ErrUnsupportedCall
	ErrUnsupportedNodeType         = evaluator.ErrUnsupportedNodeType
	ErrDepthExceeded               = evaluator.ErrDepthExceeded
	ErrTypeMismatch                = evaluator.ErrTypeMismatch
)

// Interpreter evaluates snippets. It is safe for concurrent use.
type Interpreter struct {
	config Config
	cache  *cache.ProgramCache
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Config)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithEntryPoint sets the name of the function snippets are wrapped in.
func WithEntryPoint(name string) Option {
	return func(c *Config) {
		c.EntryPoint = name
	}
}

// WithMaxDepth bounds the nesting of nodes visited during one evaluation.
func WithMaxDepth(n int) Option {
	return func(c *Config) {
		c.MaxDepth = n
	}
}

// WithCacheSize sets how many parsed snippets are kept. Pass a negative
// value to disable caching.
func WithCacheSize(n int) Option {
	return func(c *Config) {
		c.CacheSize = n
	}
}

// WithConcurrency bounds the number of requests EvalBatch runs at once.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

// New creates an Interpreter configured with options.
func New(options ...Option) *Interpreter {
	var cfg Config
	for _, opt := range options {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()
	return &Interpreter{
		config: cfg,
		cache:  cache.NewProgramCache(cfg.CacheSize, cfg.Logger),
	}
}

// Config returns the effective configuration.
func (i *Interpreter) Config() Config {
	return i.config
}

// wrap embeds body in the entry point function. The header takes a line of
// its own so that line 1 of the body is line 1 of the parsed source.
func (i *Interpreter) wrap(body string) string {
	return "function " + i.config.EntryPoint + "() {\n" + body + "\n}"
}

func (i *Interpreter) parse(ctx context.Context, body string) (*ast.Program, error) {
	return i.cache.GetOrLoad(ctx, i.config.EntryPoint, body, func() (*ast.Program, error) {
		prog, err := parser.ParseWithOffset(i.wrap(body), -1)
		if err != nil {
			perr := &Error{Kind: evaluator.ParseFailed, Err: err}
			var syntaxErr *parser.Error
			if errors.As(err, &syntaxErr) {
				perr.Pos = syntaxErr.Pos
			}
			return nil, perr
		}
		return prog, nil
	})
}

// Check parses body and verifies its shape without evaluating it.
func (i *Interpreter) Check(body string) error {
	ctx := context.Background()
	prog, err := i.parse(ctx, body)
	if err != nil {
		return err
	}
	_, err = evaluator.Check(prog, i.config.EntryPoint)
	return err
}

// Eval evaluates body with globals bound in the outermost scope. The result
// is the returned value, or object.UNDEFINED if body does not return.
func (i *Interpreter) Eval(ctx context.Context, body string, globals map[string]object.Object) (object.Object, error) {
	prog, err := i.parse(ctx, body)
	if err != nil {
		return nil, err
	}
	e := evaluator.New(evaluator.Config{
		Logger:     i.config.Logger,
		EntryPoint: i.config.EntryPoint,
		MaxDepth:   i.config.MaxDepth,
	})
	return e.EvalProgram(ctx, prog, globals)
}

// Evaluate is Eval with Go values as bindings. See object.FromGo for the
// supported types.
func (i *Interpreter) Evaluate(ctx context.Context, body string, globals map[string]any) (*Result, error) {
	objs := make(map[string]object.Object, len(globals))
	for name, v := range globals {
		obj, err := object.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		objs[name] = obj
	}
	val, err := i.Eval(ctx, body, objs)
	if err != nil {
		return nil, err
	}
	return &Result{Value: val}, nil
}

// Evaluate evaluates body with a default Interpreter.
func Evaluate(body string, globals map[string]any) (*Result, error) {
	return New(WithCacheSize(-1)).Evaluate(context.Background(), body, globals)
}

// Request is one snippet of a batch.
type Request struct {
	Body    string
	Globals map[string]any
}

// BatchResult is the outcome of one Request. Exactly one of Result and Err
// is set.
type BatchResult struct {
	Result *Result
	Err    error
}

// EvalBatch evaluates reqs concurrently and returns their outcomes in the
// same order. A failing snippet only affects its own BatchResult; the batch
// as a whole fails only when ctx is done.
func (i *Interpreter) EvalBatch(ctx context.Context, reqs []Request) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.config.Concurrency)
	for idx, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := i.Evaluate(gctx, req.Body, req.Globals)
			results[idx] = BatchResult{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	i.config.Logger.DebugContext(ctx, "batch done", slog.Int("requests", len(reqs)), slog.Int("cached", i.cache.Len()))
	return results, nil
}
