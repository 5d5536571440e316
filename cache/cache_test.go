package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/podhmo/exprbox/ast"
)

func program(n int) *ast.Program {
	return &ast.Program{Body: []ast.Statement{
		&ast.ReturnStatement{Argument: &ast.NumericLiteral{Value: float64(n)}},
	}}
}

func TestProgramCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewProgramCache(4, nil)

	if _, ok := c.Get(ctx, "f", "return 1;"); ok {
		t.Fatal("Get() on empty cache should miss")
	}
	want := program(1)
	c.Set(ctx, "f", "return 1;", want)

	got, ok := c.Get(ctx, "f", "return 1;")
	if !ok {
		t.Fatal("Get() should hit after Set()")
	}
	if got != want {
		t.Errorf("Get() returned a different program")
	}
	if _, ok := c.Get(ctx, "main", "return 1;"); ok {
		t.Error("entry point is part of the key")
	}
}

func TestProgramCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewProgramCache(2, nil)
	c.Set(ctx, "f", "a", program(1))
	c.Set(ctx, "f", "b", program(2))
	c.Set(ctx, "f", "a", program(3)) // overwrite keeps position
	c.Set(ctx, "f", "c", program(4))

	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if _, ok := c.Get(ctx, "f", "a"); ok {
		t.Error("oldest entry a should have been evicted")
	}
	for _, body := range []string{"b", "c"} {
		if _, ok := c.Get(ctx, "f", body); !ok {
			t.Errorf("entry %q should be present", body)
		}
	}
}

func TestProgramCache_Disabled(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*ProgramCache{"zero size": NewProgramCache(0, nil), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			if c.IsEnabled() {
				t.Error("IsEnabled() = true")
			}
			c.Set(ctx, "f", "a", program(1))
			if _, ok := c.Get(ctx, "f", "a"); ok {
				t.Error("disabled cache should never hit")
			}
			if got := c.Len(); got != 0 {
				t.Errorf("Len() = %d, want 0", got)
			}
		})
	}
}

func TestProgramCache_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := NewProgramCache(DefaultSize, nil)

	calls := 0
	load := func() (*ast.Program, error) {
		calls++
		return program(calls), nil
	}
	first, err := c.GetOrLoad(ctx, "f", "x", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.GetOrLoad(ctx, "f", "x", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || first != second {
		t.Errorf("load called %d times, want 1 (same program: %v)", calls, first == second)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad(ctx, "f", "bad", func() (*ast.Program, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v, want boom", err)
	}
	if _, ok := c.Get(ctx, "f", "bad"); ok {
		t.Error("failed loads must not be cached")
	}
}

func TestProgramCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewProgramCache(8, nil)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := fmt.Sprintf("return %d;", i%10)
			if _, err := c.GetOrLoad(ctx, "f", body, func() (*ast.Program, error) { return program(i), nil }); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := c.Len(); got > 8 {
		t.Errorf("Len() = %d, exceeds size 8", got)
	}
}
