package evaluator

import (
	"fmt"
	"strings"

	"github.com/podhmo/exprbox/ast"
)

// Kind classifies an evaluation failure.
type Kind int

const (
	ParseFailed Kind = iota + 1
	UnsupportedShape
	UnsupportedFunction
	AsyncOrGeneratorUnsupported
	UndefinedVariable
	UnsupportedOperator
	UnsupportedCall
	UnsupportedNodeType
	DepthExceeded
	TypeMismatch
)

var kindNames = [...]string{
	ParseFailed:                 "ParseFailed",
	UnsupportedShape:            "UnsupportedShape",
	UnsupportedFunction:         "UnsupportedFunction",
	AsyncOrGeneratorUnsupported: "AsyncOrGeneratorUnsupported",
	UndefinedVariable:           "UndefinedVariable",
	UnsupportedOperator:         "UnsupportedOperator",
	UnsupportedCall:             "UnsupportedCall",
	UnsupportedNodeType:         "UnsupportedNodeType",
	DepthExceeded:               "DepthExceeded",
	TypeMismatch:                "TypeMismatch",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is. An *Error matches the sentinel of the same Kind.
var (
	ErrParseFailed                 = &Error{Kind: ParseFailed}
	ErrUnsupportedShape            = &Error{Kind: UnsupportedShape}
	ErrUnsupportedFunction         = &Error{Kind: UnsupportedFunction}
	ErrAsyncOrGeneratorUnsupported = &Error{Kind: AsyncOrGeneratorUnsupported}
	ErrUndefinedVariable           = &Error{Kind: UndefinedVariable}
	ErrUnsupportedOperator         = &Error{Kind: UnsupportedOperator}
	ErrUnsupportedCall             = &Error{Kind: UnsupportedCall}
	ErrUnsupportedNodeType         = &Error{Kind: UnsupportedNodeType}
	ErrDepthExceeded               = &Error{Kind: DepthExceeded}
	ErrTypeMismatch                = &Error{Kind: TypeMismatch}
)

// Error is the single error type returned by evaluation. Which detail
// fields are set depends on Kind.
type Error struct {
	Kind Kind
	Pos  ast.Pos

	Name        string   // UndefinedVariable, UnsupportedFunction
	Op          string   // UnsupportedOperator, TypeMismatch
	Description string   // UnsupportedCall, UnsupportedShape, TypeMismatch
	NodeKind    ast.Kind // UnsupportedNodeType
	Err         error    // ParseFailed
}

func (e *Error) Error() string {
	var b strings.Builder
	// a parse cause carries its own position
	if e.Pos.IsValid() && (e.Kind != ParseFailed || e.Err == nil) {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	switch e.Kind {
	case ParseFailed:
		b.WriteString("parse failed")
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	case UnsupportedShape:
		b.WriteString("unsupported shape")
	case UnsupportedFunction:
		fmt.Fprintf(&b, "unsupported function %q", e.Name)
	case AsyncOrGeneratorUnsupported:
		b.WriteString("async functions and generators are not supported")
	case UndefinedVariable:
		fmt.Fprintf(&b, "undefined variable %q", e.Name)
	case UnsupportedOperator:
		fmt.Fprintf(&b, "unsupported operator %q", e.Op)
	case UnsupportedCall:
		b.WriteString("unsupported call")
	case UnsupportedNodeType:
		fmt.Fprintf(&b, "unsupported node type %s", e.NodeKind)
	case DepthExceeded:
		b.WriteString("maximum evaluation depth exceeded")
	case TypeMismatch:
		fmt.Fprintf(&b, "type mismatch for %q", e.Op)
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Description != "" && e.Kind != ParseFailed {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, pos ast.Pos, description string) *Error {
	return &Error{Kind: kind, Pos: pos, Description: description}
}
