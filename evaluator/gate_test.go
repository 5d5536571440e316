package evaluator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/exprbox/ast"
	"github.com/podhmo/exprbox/parser"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		entry    string
		wantKind Kind // zero means success
		wantName string
	}{
		{name: "wrapped body", src: "function f() { return 1; }"},
		{name: "bare statement", src: "return 1;"},
		{name: "custom entry point", src: "function main() { return 1; }", entry: "main"},
		{name: "two top-level statements", src: "function f() { return 1; }\nfunction g() {}", wantKind: UnsupportedShape},
		{name: "empty program", src: "", wantKind: UnsupportedShape},
		{name: "wrong name", src: "function g() { return 1; }", wantKind: UnsupportedFunction, wantName: "g"},
		{name: "async", src: "async function f() { return 1; }", wantKind: AsyncOrGeneratorUnsupported},
		{name: "generator", src: "function* f() { return 1; }", wantKind: AsyncOrGeneratorUnsupported},
		{name: "async wins over wrong name", src: "async function g() { return 1; }", wantKind: AsyncOrGeneratorUnsupported},
		{name: "two body statements", src: "function f() { return 1; return 2; }", wantKind: UnsupportedShape},
		{name: "empty body", src: "function f() {}", wantKind: UnsupportedShape},
		{name: "async arrow inside", src: "function f() { return [1].map(async x => x); }", wantKind: AsyncOrGeneratorUnsupported},
		{name: "nested generator declaration", src: "function f() { function* g() {} }", wantKind: AsyncOrGeneratorUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			stmts, err := Check(prog, tt.entry)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(stmts) != 1 {
					t.Errorf("len(stmts) = %d, want 1", len(stmts))
				}
				return
			}
			var got *Error
			if !errors.As(err, &got) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if diff := cmp.Diff(tt.wantKind, got.Kind); diff != "" {
				t.Errorf("kind mismatch (-want +got):\n%s", diff)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestCheck_ReturnsFunctionBody(t *testing.T) {
	prog, err := parser.Parse("function f() { return x; }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmts, err := Check(prog, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stmts[0].Kind(); got != ast.ReturnStatementKind {
		t.Errorf("stmts[0].Kind() = %s, want ReturnStatement", got)
	}
}

func TestKind_String(t *testing.T) {
	if got := DepthExceeded.String(); got != "DepthExceeded" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(0).String(); got != "Kind(0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := &parser.Error{Pos: ast.Pos{Line: 1, Column: 2}, Msg: "boom"}
	err := &Error{Kind: ParseFailed, Err: cause}

	var perr *parser.Error
	if !errors.As(err, &perr) || perr != cause {
		t.Error("errors.As should reach the parse error")
	}
	if !errors.Is(err, ErrParseFailed) {
		t.Error("errors.Is(err, ErrParseFailed) = false")
	}
	if errors.Is(err, ErrUnsupportedShape) {
		t.Error("errors.Is(err, ErrUnsupportedShape) = true")
	}
	if want := "parse failed: 1:2: boom"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
