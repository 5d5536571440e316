package ast

import (
	"strconv"
	"strings"
)

// String renders n back into compact source form. It is meant for error
// messages and logs, not for round-tripping.
func String(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Program:
		for i, s := range n.Body {
			if i > 0 {
				b.WriteString(" ")
			}
			write(b, s)
		}
	case *FunctionDeclaration:
		if n.Async {
			b.WriteString("async ")
		}
		b.WriteString("function")
		if n.Generator {
			b.WriteString("*")
		}
		b.WriteString(" ")
		if n.Name != nil {
			b.WriteString(n.Name.Name)
		}
		writeParams(b, n.Params)
		b.WriteString(" ")
		write(b, n.Body)
	case *BlockStatement:
		b.WriteString("{")
		for _, s := range n.Body {
			b.WriteString(" ")
			write(b, s)
		}
		b.WriteString(" }")
	case *IfStatement:
		b.WriteString("if (")
		write(b, n.Test)
		b.WriteString(") ")
		write(b, n.Consequent)
		if n.Alternate != nil {
			b.WriteString(" else ")
			write(b, n.Alternate)
		}
	case *ReturnStatement:
		b.WriteString("return")
		if n.Argument != nil {
			b.WriteString(" ")
			write(b, n.Argument)
		}
		b.WriteString(";")
	case *ExpressionStatement:
		write(b, n.Expression)
		b.WriteString(";")
	case *VariableDeclaration:
		b.WriteString(n.Keyword)
		b.WriteString(" ")
		write(b, n.Name)
		if n.Init != nil {
			b.WriteString(" = ")
			write(b, n.Init)
		}
		b.WriteString(";")
	case *EmptyStatement:
		b.WriteString(";")
	case *BinaryExpression:
		writeInfix(b, n.Left, n.Operator, n.Right)
	case *LogicalExpression:
		writeInfix(b, n.Left, n.Operator, n.Right)
	case *AssignmentExpression:
		writeInfix(b, n.Left, n.Operator, n.Right)
	case *UnaryExpression:
		b.WriteString(n.Operator)
		write(b, n.Argument)
	case *CallExpression:
		write(b, n.Callee)
		b.WriteString("(")
		for i, a := range n.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, a)
		}
		b.WriteString(")")
	case *MemberExpression:
		write(b, n.Object)
		if n.Computed {
			b.WriteString("[")
			write(b, n.Property)
			b.WriteString("]")
		} else {
			b.WriteString(".")
			write(b, n.Property)
		}
	case *Identifier:
		b.WriteString(n.Name)
	case *NumericLiteral:
		if n.Raw != "" {
			b.WriteString(n.Raw)
		} else {
			b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
		}
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *NullLiteral:
		b.WriteString("null")
	case *ArrayExpression:
		b.WriteString("[")
		for i, e := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			write(b, e)
		}
		b.WriteString("]")
	case *ArrowFunctionExpression:
		if n.Async {
			b.WriteString("async ")
		}
		writeParams(b, n.Params)
		b.WriteString(" => ")
		write(b, n.Body)
	default:
		b.WriteString(n.Kind().String())
	}
}

func writeInfix(b *strings.Builder, left Node, op string, right Node) {
	b.WriteString("(")
	write(b, left)
	b.WriteString(" ")
	b.WriteString(op)
	b.WriteString(" ")
	write(b, right)
	b.WriteString(")")
}

func writeParams(b *strings.Builder, params []*Identifier) {
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
	b.WriteString(")")
}
