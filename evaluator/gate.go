package evaluator

import (
	"fmt"

	"github.com/podhmo/exprbox/ast"
	"github.com/podhmo/exprbox/astwalk"
)

// DefaultEntryPoint is the function name a snippet is wrapped in.
const DefaultEntryPoint = "f"

// Check verifies that prog has the shape the evaluator accepts and returns
// the statements to evaluate. No part of the program is evaluated.
//
// The program must consist of exactly one statement. When that statement is
// a function declaration it must be a plain (neither async nor generator)
// function named entryPoint whose body holds exactly one statement. Async
// arrow functions anywhere in the tree are rejected up front.
func Check(prog *ast.Program, entryPoint string) ([]ast.Statement, error) {
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	if prog == nil || len(prog.Body) != 1 {
		n := 0
		var pos ast.Pos
		if prog != nil {
			n, pos = len(prog.Body), prog.Start
		}
		return nil, newError(UnsupportedShape, pos, fmt.Sprintf("program must have exactly one statement, got %d", n))
	}

	stmts := prog.Body
	if fn, ok := prog.Body[0].(*ast.FunctionDeclaration); ok {
		if fn.Async || fn.Generator {
			return nil, newError(AsyncOrGeneratorUnsupported, fn.Pos(), "")
		}
		name := ""
		if fn.Name != nil {
			name = fn.Name.Name
		}
		if name != entryPoint {
			err := newError(UnsupportedFunction, fn.Pos(), "")
			err.Name = name
			return nil, err
		}
		if fn.Body == nil || len(fn.Body.Body) != 1 {
			n := 0
			if fn.Body != nil {
				n = len(fn.Body.Body)
			}
			return nil, newError(UnsupportedShape, fn.Pos(), fmt.Sprintf("function body must have exactly one statement, got %d", n))
		}
		stmts = fn.Body.Body
	}

	if n, found := astwalk.Find(prog, isSuspending); found {
		return nil, newError(AsyncOrGeneratorUnsupported, n.Pos(), "")
	}
	return stmts, nil
}

func isSuspending(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.ArrowFunctionExpression:
		return n.Async
	case *ast.FunctionDeclaration:
		return n.Async || n.Generator
	}
	return false
}
