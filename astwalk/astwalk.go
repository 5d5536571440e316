package astwalk

import "github.com/podhmo/exprbox/ast"

// Nodes returns an iterator over root and every node below it, depth-first,
// parents before children.
// This function is designed to be used with Go 1.23's range-over-function feature.
// Example:
//
//	for n := range Nodes(program) {
//		// use n
//	}
func Nodes(root ast.Node) func(yield func(ast.Node) bool) {
	return func(yield func(ast.Node) bool) {
		if root == nil {
			return
		}
		walk(root, yield)
	}
}

// Find returns the first node under root, in Nodes order, for which match
// reports true.
func Find(root ast.Node, match func(ast.Node) bool) (ast.Node, bool) {
	for n := range Nodes(root) {
		if match(n) {
			return n, true
		}
	}
	return nil, false
}

func walk(n ast.Node, yield func(ast.Node) bool) bool {
	if !yield(n) {
		return false // Stop iteration if yield returns false
	}
	for _, c := range Children(n) {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// Children returns the direct children of n in source order. Nil fields are skipped.
func Children(n ast.Node) []ast.Node {
	var out []ast.Node
	add := func(c ast.Node) {
		if c == nil || isNilPointer(c) {
			return
		}
		out = append(out, c)
	}

	switch n := n.(type) {
	case *ast.Program:
		for _, s := range n.Body {
			add(s)
		}
	case *ast.FunctionDeclaration:
		if n.Name != nil {
			add(n.Name)
		}
		for _, p := range n.Params {
			add(p)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *ast.BlockStatement:
		for _, s := range n.Body {
			add(s)
		}
	case *ast.IfStatement:
		add(n.Test)
		add(n.Consequent)
		add(n.Alternate)
	case *ast.ReturnStatement:
		add(n.Argument)
	case *ast.ExpressionStatement:
		add(n.Expression)
	case *ast.VariableDeclaration:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Init)
	case *ast.BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *ast.LogicalExpression:
		add(n.Left)
		add(n.Right)
	case *ast.AssignmentExpression:
		add(n.Left)
		add(n.Right)
	case *ast.UnaryExpression:
		add(n.Argument)
	case *ast.CallExpression:
		add(n.Callee)
		for _, a := range n.Arguments {
			add(a)
		}
	case *ast.MemberExpression:
		add(n.Object)
		add(n.Property)
	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			add(e)
		}
	case *ast.ArrowFunctionExpression:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	}
	return out
}

// isNilPointer catches typed nils stored in interface fields, e.g. a nil
// *ast.BlockStatement assigned to an ast.Statement.
func isNilPointer(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.BlockStatement:
		return n == nil
	case *ast.Identifier:
		return n == nil
	}
	return false
}
