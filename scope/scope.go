// Package scope resolves identifiers against the two tiers of bindings an
// evaluation sees: the caller's globals and the parameters of the callbacks
// currently being invoked.
package scope

import "github.com/podhmo/exprbox/object"

// Scope holds the bindings for one tier. A Scope is never modified after it
// is built, so a chain may be shared freely.
type Scope struct {
	store map[string]object.Object
	outer *Scope
}

// NewGlobal creates the outermost scope from the caller's bindings. The map
// is copied; later changes to globals are not observed.
func NewGlobal(globals map[string]object.Object) *Scope {
	store := make(map[string]object.Object, len(globals))
	for k, v := range globals {
		store[k] = v
	}
	return &Scope{store: store}
}

// Extend returns a new local scope enclosed by s holding the single binding
// name = val.
func (s *Scope) Extend(name string, val object.Object) *Scope {
	return &Scope{store: map[string]object.Object{name: val}, outer: s}
}

// Get retrieves an object by name, checking the innermost scope first.
func (s *Scope) Get(name string) (object.Object, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if obj, ok := cur.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Depth reports how many local tiers enclose the global scope.
func (s *Scope) Depth() int {
	n := 0
	for cur := s; cur != nil && cur.outer != nil; cur = cur.outer {
		n++
	}
	return n
}
