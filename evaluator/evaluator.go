// Package evaluator computes the value of a parsed snippet.
//
// An Evaluator walks the tree produced by the parser package, resolving
// identifiers through a scope.Scope and dispatching calls to a closed table
// of builtins. Anything outside the supported subset fails with an *Error;
// evaluation never returns a partial value.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/podhmo/exprbox/ast"
	"github.com/podhmo/exprbox/object"
	"github.com/podhmo/exprbox/scope"
)

// DefaultMaxDepth bounds the nesting of nodes visited during one evaluation.
const DefaultMaxDepth = 512

// Config holds the settings for an Evaluator.
type Config struct {
	Logger     *slog.Logger
	EntryPoint string // name of the wrapping function; DefaultEntryPoint if empty
	MaxDepth   int    // DefaultMaxDepth if zero
}

// Evaluator holds the state of one evaluation. It is not safe for concurrent
// use; create one per call.
type Evaluator struct {
	logger     *slog.Logger
	entryPoint string
	maxDepth   int
	depth      int
}

// New creates a new Evaluator.
func New(cfg Config) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	entry := cfg.EntryPoint
	if entry == "" {
		entry = DefaultEntryPoint
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Evaluator{logger: logger, entryPoint: entry, maxDepth: maxDepth}
}

// EvalProgram checks prog and evaluates it against globals. The result is the
// value of the first return statement reached, or UNDEFINED when none is.
func (e *Evaluator) EvalProgram(ctx context.Context, prog *ast.Program, globals map[string]object.Object) (object.Object, error) {
	stmts, err := Check(prog, e.entryPoint)
	if err != nil {
		return nil, err
	}
	e.logc(ctx, slog.LevelDebug, "shape check passed", slog.String("entry", e.entryPoint), slog.Int("globals", len(globals)))

	result, err := e.evalStatements(ctx, stmts, scope.NewGlobal(globals))
	if err != nil {
		return nil, err
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return object.UNDEFINED, nil
}

// Eval is the main dispatch loop for the evaluator.
//
// For statements the result is nil (no outcome), a plain value, or an
// *object.ReturnValue that the caller must propagate.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, s *scope.Scope) (object.Object, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth {
		e.logc(ctx, slog.LevelWarn, "evaluation depth exceeded", slog.Int("max", e.maxDepth))
		return nil, newError(DepthExceeded, node.Pos(), fmt.Sprintf("limit is %d", e.maxDepth))
	}

	switch n := node.(type) {
	// Statements
	case *ast.BlockStatement:
		return e.evalStatements(ctx, n.Body, s)
	case *ast.IfStatement:
		return e.evalIfStatement(ctx, n, s)
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return &object.ReturnValue{Value: object.UNDEFINED}, nil
		}
		val, err := e.Eval(ctx, n.Argument, s)
		if err != nil {
			return nil, err
		}
		return &object.ReturnValue{Value: val}, nil
	case *ast.ExpressionStatement:
		return e.Eval(ctx, n.Expression, s)

	// Expressions
	case *ast.BinaryExpression:
		return e.evalBinaryExpression(ctx, n, s)
	case *ast.LogicalExpression:
		return e.evalLogicalExpression(ctx, n, s)
	case *ast.CallExpression:
		return e.evalCallExpression(ctx, n, s)
	case *ast.Identifier:
		if val, ok := s.Get(n.Name); ok {
			return val, nil
		}
		err := newError(UndefinedVariable, n.Pos(), "")
		err.Name = n.Name
		return nil, err
	case *ast.ArrayExpression:
		elems, err := e.evalExpressions(ctx, n.Elements, s)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elems}, nil
	case *ast.ArrowFunctionExpression:
		if n.Async {
			return nil, newError(AsyncOrGeneratorUnsupported, n.Pos(), "")
		}
		return e.evalArrowBody(ctx, n, s)

	// Literals
	case *ast.NumericLiteral:
		return &object.Number{Value: n.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: n.Value}, nil
	case *ast.BooleanLiteral:
		return object.NativeBool(n.Value), nil
	}

	err := newError(UnsupportedNodeType, node.Pos(), "")
	err.NodeKind = node.Kind()
	return nil, err
}

// evalStatements runs stmts in order and stops at the first return.
func (e *Evaluator) evalStatements(ctx context.Context, stmts []ast.Statement, s *scope.Scope) (object.Object, error) {
	for _, stmt := range stmts {
		result, err := e.Eval(ctx, stmt, s)
		if err != nil {
			return nil, err
		}
		if rv, ok := result.(*object.ReturnValue); ok {
			return rv, nil
		}
	}
	return nil, nil
}

func (e *Evaluator) evalIfStatement(ctx context.Context, n *ast.IfStatement, s *scope.Scope) (object.Object, error) {
	test, err := e.Eval(ctx, n.Test, s)
	if err != nil {
		return nil, err
	}
	if object.Truthy(test) {
		return e.Eval(ctx, n.Consequent, s)
	}
	if n.Alternate != nil {
		return e.Eval(ctx, n.Alternate, s)
	}
	return nil, nil
}

func (e *Evaluator) evalExpressions(ctx context.Context, exprs []ast.Expression, s *scope.Scope) ([]object.Object, error) {
	out := make([]object.Object, 0, len(exprs))
	for _, x := range exprs {
		val, err := e.Eval(ctx, x, s)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// evalArrowBody evaluates the body of fn in s. A block body yields the value
// of its return statement, or UNDEFINED.
func (e *Evaluator) evalArrowBody(ctx context.Context, fn *ast.ArrowFunctionExpression, s *scope.Scope) (object.Object, error) {
	result, err := e.Eval(ctx, fn.Body, s)
	if err != nil {
		return nil, err
	}
	if _, isBlock := fn.Body.(*ast.BlockStatement); !isBlock {
		return result, nil
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value, nil
	}
	return object.UNDEFINED, nil
}

func (e *Evaluator) evalBinaryExpression(ctx context.Context, n *ast.BinaryExpression, s *scope.Scope) (object.Object, error) {
	left, err := e.Eval(ctx, n.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(ctx, n.Right, s)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "+", "-", "*", "/":
		l, lok := left.(*object.Number)
		r, rok := right.(*object.Number)
		if !lok || !rok {
			return nil, typeMismatch(n, left, right)
		}
		return &object.Number{Value: arithmetic(n.Operator, l.Value, r.Value)}, nil
	case "<", ">", "<=", ">=":
		return e.evalComparison(n, left, right)
	case "==", "===":
		return object.NativeBool(strictEquals(left, right)), nil
	case "!=", "!==":
		return object.NativeBool(!strictEquals(left, right)), nil
	}
	opErr := newError(UnsupportedOperator, n.Pos(), "")
	opErr.Op = n.Operator
	return nil, opErr
}

func arithmetic(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	}
	return l / r
}

func (e *Evaluator) evalComparison(n *ast.BinaryExpression, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return object.NativeBool(compare(n.Operator, l.Value, r.Value)), nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return object.NativeBool(compare(n.Operator, l.Value, r.Value)), nil
		}
	}
	return nil, typeMismatch(n, left, right)
}

// compare follows IEEE 754 for numbers: every comparison with NaN is false.
func compare[T float64 | string](op string, l, r T) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	}
	return l >= r
}

// strictEquals never converts between types. Arrays are equal only to
// themselves.
func strictEquals(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Number:
		r, ok := right.(*object.Number)
		return ok && l.Value == r.Value
	case *object.String:
		r, ok := right.(*object.String)
		return ok && l.Value == r.Value
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && l.Value == r.Value
	case *object.Undefined:
		_, ok := right.(*object.Undefined)
		return ok
	case *object.Array:
		r, ok := right.(*object.Array)
		return ok && l == r
	}
	return false
}

func typeMismatch(n *ast.BinaryExpression, left, right object.Object) *Error {
	err := newError(TypeMismatch, n.Pos(), fmt.Sprintf("cannot apply to %s and %s", left.Type(), right.Type()))
	err.Op = n.Operator
	return err
}

// evalLogicalExpression evaluates both operands before choosing one, so an
// error on the right side is reported even when the left side decides.
func (e *Evaluator) evalLogicalExpression(ctx context.Context, n *ast.LogicalExpression, s *scope.Scope) (object.Object, error) {
	left, err := e.Eval(ctx, n.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(ctx, n.Right, s)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "&&":
		if !object.Truthy(left) {
			return left, nil
		}
		return right, nil
	case "||":
		if object.Truthy(left) {
			return left, nil
		}
		return right, nil
	}
	opErr := newError(UnsupportedOperator, n.Pos(), "")
	opErr.Op = n.Operator
	return nil, opErr
}
