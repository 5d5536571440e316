package ast

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{ProgramKind, "Program"},
		{ArrowFunctionExpressionKind, "ArrowFunctionExpression"},
		{Invalid, "Invalid"},
		{Kind(999), "Kind(999)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	x := &Identifier{Name: "x"}
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "member call",
			node: &CallExpression{
				Callee: &MemberExpression{
					Object:   &ArrayExpression{Elements: []Expression{&NumericLiteral{Raw: "1"}, &NumericLiteral{Value: 2}}},
					Property: &Identifier{Name: "map"},
				},
				Arguments: []Expression{&ArrowFunctionExpression{
					Params: []*Identifier{{Name: "n"}},
					Body:   &BinaryExpression{Operator: "*", Left: &Identifier{Name: "n"}, Right: &NumericLiteral{Raw: "2"}},
				}},
			},
			want: "[1, 2].map((n) => (n * 2))",
		},
		{
			name: "if with return",
			node: &IfStatement{
				Test:       &LogicalExpression{Operator: "&&", Left: x, Right: &BooleanLiteral{Value: true}},
				Consequent: &BlockStatement{Body: []Statement{&ReturnStatement{Argument: &StringLiteral{Value: "ok"}}}},
			},
			want: `if ((x && true)) { return "ok"; }`,
		},
		{
			name: "computed member",
			node: &MemberExpression{Object: x, Property: &NumericLiteral{Raw: "0"}, Computed: true},
			want: "x[0]",
		},
		{
			name: "bare return",
			node: &ReturnStatement{},
			want: "return;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.node); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPos(t *testing.T) {
	call := &CallExpression{Callee: &Identifier{Start: Pos{Line: 2, Column: 5}, Name: "f"}}
	if got := call.Pos().String(); got != "2:5" {
		t.Errorf("call.Pos() = %s, want 2:5", got)
	}
	if (Pos{}).IsValid() {
		t.Error("zero Pos should be invalid")
	}
}
