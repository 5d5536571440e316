package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/podhmo/exprbox/ast"
	"github.com/podhmo/exprbox/object"
	"github.com/podhmo/exprbox/scope"
)

// receiverShape is the syntactic form of a method call's receiver.
type receiverShape int

const (
	mathReceiver         receiverShape = iota + 1 // the identifier Math
	arrayLiteralReceiver                          // an array literal such as [1, 2]
)

func (r receiverShape) String() string {
	switch r {
	case mathReceiver:
		return "Math"
	case arrayLiteralReceiver:
		return "array literal"
	}
	return "unknown"
}

type builtinKey struct {
	receiver receiverShape
	method   string
}

type builtinFunc func(ctx context.Context, e *Evaluator, call *ast.CallExpression, callee *ast.MemberExpression, s *scope.Scope) (object.Object, error)

// builtins is the complete set of callable functions. It is filled in init
// because its entries call back into Eval.
var builtins map[builtinKey]builtinFunc

func init() {
	builtins = map[builtinKey]builtinFunc{
		{mathReceiver, "abs"}:   mathFunc("abs", math.Abs),
		{mathReceiver, "floor"}: mathFunc("floor", math.Floor),
		{mathReceiver, "ceil"}:  mathFunc("ceil", math.Ceil),
		{mathReceiver, "round"}: mathFunc("round", roundHalfUp),

		{arrayLiteralReceiver, "includes"}: arrayIncludes,
		{arrayLiteralReceiver, "map"}:      arrayMap,
		{arrayLiteralReceiver, "find"}:     arrayFind,
	}
}

func shapeOf(recv ast.Expression) receiverShape {
	switch r := recv.(type) {
	case *ast.Identifier:
		if r.Name == "Math" {
			return mathReceiver
		}
	case *ast.ArrayExpression:
		return arrayLiteralReceiver
	}
	return 0
}

func unsupportedCall(call *ast.CallExpression, format string, args ...any) *Error {
	desc := fmt.Sprintf(format, args...)
	return newError(UnsupportedCall, call.Pos(), fmt.Sprintf("%s: %s", ast.String(call.Callee), desc))
}

func (e *Evaluator) evalCallExpression(ctx context.Context, call *ast.CallExpression, s *scope.Scope) (object.Object, error) {
	callee, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil, unsupportedCall(call, "only Math functions and array literal methods can be called")
	}
	prop, ok := callee.Property.(*ast.Identifier)
	if !ok || callee.Computed {
		return nil, unsupportedCall(call, "computed method names are not supported")
	}
	shape := shapeOf(callee.Object)
	if shape == 0 {
		return nil, unsupportedCall(call, "receiver must be Math or an array literal")
	}
	fn, ok := builtins[builtinKey{shape, prop.Name}]
	if !ok {
		return nil, unsupportedCall(call, "unknown %s method %q", shape, prop.Name)
	}
	e.logc(ctx, slog.LevelDebug, "builtin call", slog.String("receiver", shape.String()), slog.String("method", prop.Name))
	return fn(ctx, e, call, callee, s)
}

// mathFunc adapts a unary float function. A missing argument is NaN; extra
// arguments are evaluated and ignored.
func mathFunc(name string, f func(float64) float64) builtinFunc {
	return func(ctx context.Context, e *Evaluator, call *ast.CallExpression, _ *ast.MemberExpression, s *scope.Scope) (object.Object, error) {
		args, err := e.evalExpressions(ctx, call.Arguments, s)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return &object.Number{Value: math.NaN()}, nil
		}
		n, ok := args[0].(*object.Number)
		if !ok {
			err := newError(TypeMismatch, call.Arguments[0].Pos(), fmt.Sprintf("expected NUMBER, got %s", args[0].Type()))
			err.Op = "Math." + name
			return nil, err
		}
		return &object.Number{Value: f(n.Value)}, nil
	}
}

// roundHalfUp rounds to the nearest integer, with ties going toward +Inf.
// Results in (-0.5, 0] keep the sign of zero.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return r
}

func (e *Evaluator) evalReceiver(ctx context.Context, callee *ast.MemberExpression, s *scope.Scope) (*object.Array, error) {
	val, err := e.Eval(ctx, callee.Object, s)
	if err != nil {
		return nil, err
	}
	return val.(*object.Array), nil
}

func arrayIncludes(ctx context.Context, e *Evaluator, call *ast.CallExpression, callee *ast.MemberExpression, s *scope.Scope) (object.Object, error) {
	arr, err := e.evalReceiver(ctx, callee, s)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExpressions(ctx, call.Arguments, s)
	if err != nil {
		return nil, err
	}
	var needle object.Object = object.UNDEFINED
	if len(args) > 0 {
		needle = args[0]
	}
	for _, el := range arr.Elements {
		if sameValueZero(el, needle) {
			return object.TRUE, nil
		}
	}
	return object.FALSE, nil
}

// sameValueZero is strict equality except that NaN equals NaN.
func sameValueZero(a, b object.Object) bool {
	if x, ok := a.(*object.Number); ok {
		if y, ok := b.(*object.Number); ok && math.IsNaN(x.Value) && math.IsNaN(y.Value) {
			return true
		}
	}
	return strictEquals(a, b)
}

func callbackOf(call *ast.CallExpression) (*ast.ArrowFunctionExpression, error) {
	if len(call.Arguments) == 0 {
		return nil, unsupportedCall(call, "missing callback")
	}
	fn, ok := call.Arguments[0].(*ast.ArrowFunctionExpression)
	if !ok {
		return nil, unsupportedCall(call, "callback must be an arrow function, got %s", call.Arguments[0].Kind())
	}
	if fn.Async {
		return nil, newError(AsyncOrGeneratorUnsupported, fn.Pos(), "")
	}
	return fn, nil
}

// invoke runs fn for one element. The element is bound to the first
// parameter in a new local scope enclosed by s.
func (e *Evaluator) invoke(ctx context.Context, fn *ast.ArrowFunctionExpression, elem object.Object, s *scope.Scope) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	local := s
	if len(fn.Params) > 0 {
		local = s.Extend(fn.Params[0].Name, elem)
	}
	return e.evalArrowBody(ctx, fn, local)
}

func arrayMap(ctx context.Context, e *Evaluator, call *ast.CallExpression, callee *ast.MemberExpression, s *scope.Scope) (object.Object, error) {
	arr, err := e.evalReceiver(ctx, callee, s)
	if err != nil {
		return nil, err
	}
	fn, err := callbackOf(call)
	if err != nil {
		return nil, err
	}
	out := make([]object.Object, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		val, err := e.invoke(ctx, fn, el, s)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return &object.Array{Elements: out}, nil
}

func arrayFind(ctx context.Context, e *Evaluator, call *ast.CallExpression, callee *ast.MemberExpression, s *scope.Scope) (object.Object, error) {
	arr, err := e.evalReceiver(ctx, callee, s)
	if err != nil {
		return nil, err
	}
	fn, err := callbackOf(call)
	if err != nil {
		return nil, err
	}
	for _, el := range arr.Elements {
		val, err := e.invoke(ctx, fn, el, s)
		if err != nil {
			return nil, err
		}
		if object.Truthy(val) {
			return el, nil
		}
	}
	return object.UNDEFINED, nil
}
