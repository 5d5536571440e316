// Package ast declares the syntax tree consumed by the evaluator.
//
// The node set mirrors the ESTree shapes produced by common JavaScript parsers,
// restricted to what the snippet language can express. Nodes are immutable once
// built; the evaluator only reads them.
package ast

import "fmt"

// Pos is a source position. Line and Column are 1-based.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies the type of a node.
type Kind int

const (
	Invalid Kind = iota
	ProgramKind
	FunctionDeclarationKind
	BlockStatementKind
	IfStatementKind
	ReturnStatementKind
	ExpressionStatementKind
	VariableDeclarationKind
	EmptyStatementKind
	BinaryExpressionKind
	LogicalExpressionKind
	UnaryExpressionKind
	AssignmentExpressionKind
	CallExpressionKind
	MemberExpressionKind
	IdentifierKind
	NumericLiteralKind
	StringLiteralKind
	BooleanLiteralKind
	NullLiteralKind
	ArrayExpressionKind
	ArrowFunctionExpressionKind
)

var kindNames = [...]string{
	Invalid:                     "Invalid",
	ProgramKind:                 "Program",
	FunctionDeclarationKind:     "FunctionDeclaration",
	BlockStatementKind:          "BlockStatement",
	IfStatementKind:             "IfStatement",
	ReturnStatementKind:         "ReturnStatement",
	ExpressionStatementKind:     "ExpressionStatement",
	VariableDeclarationKind:     "VariableDeclaration",
	EmptyStatementKind:          "EmptyStatement",
	BinaryExpressionKind:        "BinaryExpression",
	LogicalExpressionKind:       "LogicalExpression",
	UnaryExpressionKind:         "UnaryExpression",
	AssignmentExpressionKind:    "AssignmentExpression",
	CallExpressionKind:          "CallExpression",
	MemberExpressionKind:        "MemberExpression",
	IdentifierKind:              "Identifier",
	NumericLiteralKind:          "NumericLiteral",
	StringLiteralKind:           "StringLiteral",
	BooleanLiteralKind:          "BooleanLiteral",
	NullLiteralKind:             "NullLiteral",
	ArrayExpressionKind:         "ArrayExpression",
	ArrowFunctionExpressionKind: "ArrowFunctionExpression",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Pos() Pos
}

// Statement is a node that may appear in a statement list.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// --- Statements ---

// Program is the root of a parsed source.
type Program struct {
	Start Pos
	Body  []Statement
}

// FunctionDeclaration is `function name(params) { ... }`.
type FunctionDeclaration struct {
	Start     Pos
	Name      *Identifier
	Params    []*Identifier
	Body      *BlockStatement
	Async     bool
	Generator bool
}

// BlockStatement is a brace-delimited statement list.
type BlockStatement struct {
	Start Pos
	Body  []Statement
}

// IfStatement is `if (Test) Consequent else Alternate`. Alternate may be nil.
type IfStatement struct {
	Start      Pos
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

// ReturnStatement is `return Argument`. Argument is nil for a bare return.
type ReturnStatement struct {
	Start    Pos
	Argument Expression
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Expression Expression
}

// VariableDeclaration is `let|const|var Name = Init`.
type VariableDeclaration struct {
	Start   Pos
	Keyword string
	Name    *Identifier
	Init    Expression
}

// EmptyStatement is a lone `;`.
type EmptyStatement struct {
	Start Pos
}

// --- Expressions ---

// BinaryExpression covers arithmetic, relational and equality operators.
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

// LogicalExpression covers `&&`, `||` and `??`.
type LogicalExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

// UnaryExpression is a prefix operator applied to Argument.
type UnaryExpression struct {
	Start    Pos
	Operator string
	Argument Expression
}

// AssignmentExpression is `Left = Right`.
type AssignmentExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

// CallExpression is `Callee(Arguments...)`.
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

// MemberExpression is `Object.Property` or, when Computed, `Object[Property]`.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool
}

// Identifier is a bare name.
type Identifier struct {
	Start Pos
	Name  string
}

// NumericLiteral holds a number literal. Raw keeps the source spelling.
type NumericLiteral struct {
	Start Pos
	Raw   string
	Value float64
}

// StringLiteral holds the unescaped value of a string literal.
type StringLiteral struct {
	Start Pos
	Value string
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Start Pos
	Value bool
}

// NullLiteral is `null`.
type NullLiteral struct {
	Start Pos
}

// ArrayExpression is `[Elements...]`.
type ArrayExpression struct {
	Start    Pos
	Elements []Expression
}

// ArrowFunctionExpression is `(Params) => Body`. Body is either an Expression
// or a *BlockStatement.
type ArrowFunctionExpression struct {
	Start  Pos
	Params []*Identifier
	Body   Node
	Async  bool
}

func (n *Program) Kind() Kind                 { return ProgramKind }
func (n *FunctionDeclaration) Kind() Kind     { return FunctionDeclarationKind }
func (n *BlockStatement) Kind() Kind          { return BlockStatementKind }
func (n *IfStatement) Kind() Kind             { return IfStatementKind }
func (n *ReturnStatement) Kind() Kind         { return ReturnStatementKind }
func (n *ExpressionStatement) Kind() Kind     { return ExpressionStatementKind }
func (n *VariableDeclaration) Kind() Kind     { return VariableDeclarationKind }
func (n *EmptyStatement) Kind() Kind          { return EmptyStatementKind }
func (n *BinaryExpression) Kind() Kind        { return BinaryExpressionKind }
func (n *LogicalExpression) Kind() Kind       { return LogicalExpressionKind }
func (n *UnaryExpression) Kind() Kind         { return UnaryExpressionKind }
func (n *AssignmentExpression) Kind() Kind    { return AssignmentExpressionKind }
func (n *CallExpression) Kind() Kind          { return CallExpressionKind }
func (n *MemberExpression) Kind() Kind        { return MemberExpressionKind }
func (n *Identifier) Kind() Kind              { return IdentifierKind }
func (n *NumericLiteral) Kind() Kind          { return NumericLiteralKind }
func (n *StringLiteral) Kind() Kind           { return StringLiteralKind }
func (n *BooleanLiteral) Kind() Kind          { return BooleanLiteralKind }
func (n *NullLiteral) Kind() Kind             { return NullLiteralKind }
func (n *ArrayExpression) Kind() Kind         { return ArrayExpressionKind }
func (n *ArrowFunctionExpression) Kind() Kind { return ArrowFunctionExpressionKind }

func (n *Program) Pos() Pos                 { return n.Start }
func (n *FunctionDeclaration) Pos() Pos     { return n.Start }
func (n *BlockStatement) Pos() Pos          { return n.Start }
func (n *IfStatement) Pos() Pos             { return n.Start }
func (n *ReturnStatement) Pos() Pos         { return n.Start }
func (n *ExpressionStatement) Pos() Pos     { return n.Expression.Pos() }
func (n *VariableDeclaration) Pos() Pos     { return n.Start }
func (n *EmptyStatement) Pos() Pos          { return n.Start }
func (n *BinaryExpression) Pos() Pos        { return n.Left.Pos() }
func (n *LogicalExpression) Pos() Pos       { return n.Left.Pos() }
func (n *UnaryExpression) Pos() Pos         { return n.Start }
func (n *AssignmentExpression) Pos() Pos    { return n.Left.Pos() }
func (n *CallExpression) Pos() Pos          { return n.Callee.Pos() }
func (n *MemberExpression) Pos() Pos        { return n.Object.Pos() }
func (n *Identifier) Pos() Pos              { return n.Start }
func (n *NumericLiteral) Pos() Pos          { return n.Start }
func (n *StringLiteral) Pos() Pos           { return n.Start }
func (n *BooleanLiteral) Pos() Pos          { return n.Start }
func (n *NullLiteral) Pos() Pos             { return n.Start }
func (n *ArrayExpression) Pos() Pos         { return n.Start }
func (n *ArrowFunctionExpression) Pos() Pos { return n.Start }

func (*FunctionDeclaration) stmtNode() {}
func (*BlockStatement) stmtNode()      {}
func (*IfStatement) stmtNode()         {}
func (*ReturnStatement) stmtNode()     {}
func (*ExpressionStatement) stmtNode() {}
func (*VariableDeclaration) stmtNode() {}
func (*EmptyStatement) stmtNode()      {}

func (*BinaryExpression) exprNode()        {}
func (*LogicalExpression) exprNode()       {}
func (*UnaryExpression) exprNode()         {}
func (*AssignmentExpression) exprNode()    {}
func (*CallExpression) exprNode()          {}
func (*MemberExpression) exprNode()        {}
func (*Identifier) exprNode()              {}
func (*NumericLiteral) exprNode()          {}
func (*StringLiteral) exprNode()           {}
func (*BooleanLiteral) exprNode()          {}
func (*NullLiteral) exprNode()             {}
func (*ArrayExpression) exprNode()         {}
func (*ArrowFunctionExpression) exprNode() {}
