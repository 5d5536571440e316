package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/podhmo/exprbox/object"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		globals map[string]any
		want    any
	}{
		{name: "abs", body: "return Math.abs(0 - 3.5);", want: 3.5},
		{name: "floor", body: "return Math.floor(x);", globals: map[string]any{"x": 2.7}, want: 2.0},
		{name: "floor negative", body: "return Math.floor(0 - 2.5);", want: -3.0},
		{name: "ceil", body: "return Math.ceil(2.1);", want: 3.0},
		{name: "round half up", body: "return Math.round(2.5);", want: 3.0},
		{name: "round negative half", body: "return Math.round(0 - 2.5);", want: -2.0},
		{name: "round down", body: "return Math.round(2.49);", want: 2.0},
		{name: "missing argument", body: "return Math.abs();", want: math.NaN()},
		{name: "nested math", body: "return Math.abs(Math.floor(0 - 1.5));", want: 2.0},

		{name: "includes hit", body: "return [1, 2, 3].includes(y);", globals: map[string]any{"y": 2}, want: true},
		{name: "includes miss", body: "return [1, 2, 3].includes(4);", want: false},
		{name: "includes is strict", body: `return [1, 2].includes("1");`, want: false},
		{name: "includes NaN", body: "return [0 / 0].includes(0 / 0);", want: true},
		{name: "includes strings", body: `return ["a", "b"].includes(s);`, globals: map[string]any{"s": "b"}, want: true},

		{name: "map", body: "return [1, 2, 3].map(n => n * 2);", want: []any{2.0, 4.0, 6.0}},
		{name: "map with block body", body: "return [1, 2].map((n) => { if (n > 1) { return 'big'; } return 'small'; });", want: []any{"small", "big"}},
		{name: "map with block body no return", body: "return [1].map(n => { n; });", want: []any{nil}},
		{name: "map with global", body: "return [1, 2].map(n => n + k);", globals: map[string]any{"k": 10}, want: []any{11.0, 12.0}},
		{name: "map without params", body: "return [1, 2].map(() => 0);", want: []any{0.0, 0.0}},
		{name: "map over empty", body: "return [].map(n => n);", want: []any{}},
		{name: "local shadows global", body: "return [1].map(x => x);", globals: map[string]any{"x": 99}, want: []any{1.0}},
		{name: "nested callbacks", body: "return [1, 2].map(a => [10].map(b => a + b));", want: []any{[]any{11.0}, []any{12.0}}},
		{name: "map result feeds comparison", body: "return [1].map(n => n) === [1];", want: false},

		{name: "find", body: "return [2, 3, 1].find(a => a === x);", globals: map[string]any{"x": 1}, want: 1.0},
		{name: "find first truthy", body: "return [1, 2, 3, 4].find(n => n > 2);", want: 3.0},
		{name: "find miss", body: "return [1, 2].find(n => n > 5);", want: nil},
		{name: "find uses truthiness", body: `return ["", "x"].find(s => s);`, want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalBody(t, tt.body, tt.globals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, object.ToGo(got), cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 1},
		{1.5, 2},
		{-0.5, 0},
		{-1.5, -1},
		{-1.6, -2},
		{0.49999999999999994, 0},
		{1e300, 1e300},
		{math.Inf(-1), math.Inf(-1)},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := roundHalfUp(-0.2); !math.Signbit(got) || got != 0 {
		t.Errorf("roundHalfUp(-0.2) = %v, want -0", got)
	}
	if got := roundHalfUp(math.NaN()); !math.IsNaN(got) {
		t.Errorf("roundHalfUp(NaN) = %v, want NaN", got)
	}
}

func TestBuiltins_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		globals map[string]any
		kind    Kind
	}{
		{name: "unknown Math method", body: "return Math.max(1, 2);", kind: UnsupportedCall},
		{name: "unknown array method", body: "return [1].filter(n => n);", kind: UnsupportedCall},
		{name: "identifier receiver", body: "return xs.includes(1);", globals: map[string]any{"xs": []int{1}}, kind: UnsupportedCall},
		{name: "custom function", body: "return customFunction(1);", kind: UnsupportedCall},
		{name: "computed method", body: `return [1]["map"](n => n);`, kind: UnsupportedCall},
		{name: "callback is not an arrow", body: "return [1].map(x);", globals: map[string]any{"x": 1}, kind: UnsupportedCall},
		{name: "missing callback", body: "return [1].find();", kind: UnsupportedCall},
		{name: "math on string", body: `return Math.abs("1");`, kind: TypeMismatch},
		{name: "async callback", body: "return [1].map(async n => n);", kind: AsyncOrGeneratorUnsupported},
		{name: "undefined inside callback", body: "return [1].map(n => m);", kind: UndefinedVariable},
		{name: "parameter gone after callback", body: "return [1].map(n => n) && n;", kind: UndefinedVariable},
		{name: "error in receiver", body: "return [q].includes(1);", kind: UndefinedVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalBody(t, tt.body, tt.globals)
			var got *Error
			if !errors.As(err, &got) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if got.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s (%v)", got.Kind, tt.kind, err)
			}
		})
	}
}

func TestBuiltins_UnsupportedCallDescription(t *testing.T) {
	_, err := evalBody(t, "return Math.max(1);", nil)
	var got *Error
	if !errors.As(err, &got) {
		t.Fatalf("expected *Error, got %v", err)
	}
	want := `Math.max: unknown Math method "max"`
	if got.Description != want {
		t.Errorf("Description = %q, want %q", got.Description, want)
	}
}
