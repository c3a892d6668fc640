package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable()
	be.Equal(t, st.Len(), 0)
	be.True(t, st.Lookup("x") == nil)

	x := st.Define("x")
	y := st.Define("y")
	be.Equal(t, x.ID, 0)
	be.Equal(t, y.ID, 1)
	be.Equal(t, st.Len(), 2)

	be.True(t, st.Lookup("x") == x)
	be.True(t, st.Lookup("y") == y)
	be.True(t, st.Lookup("z") == nil)

	be.Equal(t, st.Symbols()[0].Name, "x")
	be.Equal(t, st.Symbols()[1].Name, "y")
}

func TestSymbolTableDuplicateDefine(t *testing.T) {
	st := NewSymbolTable()
	st.Define("x")
	mustPanic(t, "already defined", func() { st.Define("x") })
}

// identifiers returns every identifier occurrence of the tree in walk order.
func identifiers(root Node) []*Identifier {
	c := &identifierCollector{}
	Walk[struct{}](c, root)
	return c.ids
}

type identifierCollector struct {
	ids []*Identifier
}

func (c *identifierCollector) Enter(n Node) {
	if id, ok := n.(*Identifier); ok {
		c.ids = append(c.ids, id)
	}
}

func (c *identifierCollector) Exit(Node, struct{}, struct{}) struct{} {
	return struct{}{}
}

func TestResolveSymbols(t *testing.T) {
	tree := mustParse(t, "a = 4; b = a + 4;")
	table := NewSymbolTable()
	errs := NewErrorCollector(nil)

	be.Equal(t, ResolveSymbols(tree, table, errs), 0)
	be.Equal(t, errs.Count(), 0)

	be.Equal(t, table.Len(), 2)
	a := table.Lookup("a")
	b := table.Lookup("b")
	be.Equal(t, a.ID, 0)
	be.Equal(t, b.ID, 1)

	ids := identifiers(tree)
	be.Equal(t, len(ids), 3)
	be.True(t, ids[0].Symbol == a)
	be.True(t, ids[1].Symbol == b)
	be.True(t, ids[2].Symbol == a)
}

func TestResolveSymbolsErrors(t *testing.T) {
	tests := []struct {
		input    string
		count    int
		expected string
		symbols  int
	}{
		{"a + 2;", 1, "Error (1, 1) to (1, 1): undefined identifier a", 0},
		{"a = b;", 1, "Error (1, 5) to (1, 5): undefined identifier b", 1},
		{
			"a;\nb = 1;\nb + c + a;",
			3,
			"Error (1, 1) to (1, 1): undefined identifier a\n" +
				"Error (3, 5) to (3, 5): undefined identifier c\n" +
				"Error (3, 9) to (3, 9): undefined identifier a",
			1,
		},
		{"x = 1 + y;", 1, "Error (1, 9) to (1, 9): undefined identifier y", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			table := NewSymbolTable()
			errs := NewErrorCollector(nil)
			be.Equal(t, ResolveSymbols(mustParse(t, tt.input), table, errs), tt.count)
			be.Equal(t, errs.String(), tt.expected)
			be.Equal(t, table.Len(), tt.symbols)
		})
	}
}

func TestResolveSymbolsUnresolvedStaysUnbound(t *testing.T) {
	tree := mustParse(t, "a + 2;")
	ResolveSymbols(tree, NewSymbolTable(), NewErrorCollector(nil))
	be.True(t, identifiers(tree)[0].Symbol == nil)
}

func TestResolveSymbolsDefinitionSites(t *testing.T) {
	tests := []struct {
		input string
		names []string
	}{
		// Both targets of a chained assignment are definitions.
		{"a = b = 3;", []string{"a", "b"}},
		// The target is defined before the right side is read.
		{"a = a;", []string{"a"}},
		{"c = 1; a = c; b = a * c;", []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			table := NewSymbolTable()
			be.Equal(t, ResolveSymbols(mustParse(t, tt.input), table, NewErrorCollector(nil)), 0)
			be.Equal(t, table.Len(), len(tt.names))
			for i, name := range tt.names {
				be.Equal(t, table.Symbols()[i].Name, name)
				be.Equal(t, table.Symbols()[i].ID, i)
			}
		})
	}
}

func TestResolveSymbolsNotADefinitionOnTheRight(t *testing.T) {
	// b only appears as part of the value being assigned.
	errs := NewErrorCollector(nil)
	be.Equal(t, ResolveSymbols(mustParse(t, "a = (b);"), NewSymbolTable(), errs), 1)
	be.Equal(t, errs.String(), "Error (1, 6) to (1, 6): undefined identifier b")
}

func TestResolveSymbolsIdempotent(t *testing.T) {
	tree := mustParse(t, "a = 4; b = a + 4; a = b;")
	table := NewSymbolTable()
	be.Equal(t, ResolveSymbols(tree, table, NewErrorCollector(nil)), 0)

	var first []*Symbol
	for _, id := range identifiers(tree) {
		first = append(first, id.Symbol)
	}

	be.Equal(t, ResolveSymbols(tree, table, NewErrorCollector(nil)), 0)
	be.Equal(t, table.Len(), 2)
	for i, id := range identifiers(tree) {
		be.True(t, id.Symbol == first[i])
	}
}

func TestResolveSymbolsErrorStatement(t *testing.T) {
	l := loc(1, 1, 1, 1)
	tree := NewStatementList(l, nil, NewErrorStatement(l))
	mustPanic(t, "error statement", func() {
		ResolveSymbols(tree, NewSymbolTable(), NewErrorCollector(nil))
	})
}
