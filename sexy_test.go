package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/calc/sexy"
)

func TestSexyAllTests(t *testing.T) {
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		testName := strings.TrimSuffix(fileName, ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					if tc.InputType != sexy.InputTypeCalc {
						t.Fatalf("Unknown input type: %s", tc.InputType)
					}
					for i, assertion := range tc.Assertions {
						t.Run("assertion_"+string(rune('a'+i)), func(t *testing.T) {
							runAssertion(t, []byte(tc.Input), assertion)
						})
					}
				})
			}
		})
	}
}

// runAssertion compiles input as far as the assertion needs and checks the
// result. Every assertion gets a fresh compilation.
func runAssertion(t *testing.T, input []byte, assertion sexy.Assertion) {
	switch assertion.Type {
	case sexy.AssertionTypeAST:
		c, err := Compile(input, Options{Stage: StageParse})
		be.Err(t, err, nil)
		assertPatternMatch(t, c.Tree, assertion.ParsedSexy, "root", false)

	case sexy.AssertionTypeASTSym:
		c, err := Compile(input, Options{Stage: StageSymbol})
		be.Err(t, err, nil)
		assertPatternMatch(t, c.Tree, assertion.ParsedSexy, "root", true)

	case sexy.AssertionTypeSymbols:
		c, err := Compile(input, Options{Stage: StageSymbol})
		be.Err(t, err, nil)
		assertSymbolsMatch(t, c.Symbols, assertion.ParsedSexy)

	case sexy.AssertionTypeTypes:
		c, err := Compile(input, Options{Stage: StageType})
		be.Err(t, err, nil)
		assertTypesMatch(t, c.Tree, assertion.ParsedSexy)

	case sexy.AssertionTypeIR:
		c, err := Compile(input, Options{})
		be.Err(t, err, nil)
		be.Equal(t, strings.Join(c.Program.Listing(c.Program.Section), "\n"), assertion.Content)

	case sexy.AssertionTypeExecute:
		var out bytes.Buffer
		err := Run(input, &out, nil)
		be.Err(t, err, nil)
		be.Equal(t, strings.TrimRight(out.String(), "\n"), assertion.Content)

	case sexy.AssertionTypeCompileError:
		var diagnostics bytes.Buffer
		_, err := Compile(input, Options{Diagnostics: &diagnostics})
		be.True(t, err != nil)
		be.Equal(t, strings.TrimRight(diagnostics.String(), "\n"), assertion.Content)

	default:
		t.Fatalf("Unknown assertion type: %s", assertion.Type)
	}
}

// assertPatternMatch recursively matches a tree node against a Sexy pattern,
// reporting mismatches with the path to the offending node. If withSymbols
// is set, identifiers must carry their symbol id.
func assertPatternMatch(t *testing.T, node Node, pattern *sexy.Node, path string, withSymbols bool) {
	t.Helper()
	if isNilNode(node) {
		t.Errorf("At %s: expected %s, got nil", path, pattern)
		return
	}

	switch node := node.(type) {
	case *Number:
		if pattern.Kind != sexy.KindInteger {
			t.Errorf("At %s: expected an integer for number literal, got %s", path, pattern)
			return
		}
		if got := strconv.FormatUint(node.Value, 10); got != pattern.Text {
			t.Errorf("At %s: integer value mismatch: got %s, want %s", path, got, pattern.Text)
		}

	case *Identifier:
		if !expectHead(t, pattern, "var", path) {
			return
		}
		items := pattern.Items
		if len(items) < 2 || len(items) > 3 || items[1].Kind != sexy.KindString {
			t.Errorf("At %s: expected (var \"name\" [id]) pattern, got %s", path, pattern)
			return
		}
		if node.Name != items[1].Text {
			t.Errorf("At %s: variable name mismatch: got %q, want %q", path, node.Name, items[1].Text)
		}
		if !withSymbols {
			return
		}
		if len(items) != 3 {
			t.Errorf("At %s: expected symbol id in %s", path, pattern)
			return
		}
		if node.Symbol == nil {
			t.Errorf("At %s: identifier %s is unbound", path, node.Name)
			return
		}
		if got := strconv.Itoa(node.Symbol.ID); got != items[2].Text {
			t.Errorf("At %s: symbol id mismatch: got %s, want %s", path, got, items[2].Text)
		}

	case *BinaryOperation:
		if !expectHead(t, pattern, "binary", path) {
			return
		}
		if len(pattern.Items) != 4 || pattern.Items[1].Kind != sexy.KindString {
			t.Errorf("At %s: expected (binary \"op\" left right) pattern, got %s", path, pattern)
			return
		}
		if node.Op.String() != pattern.Items[1].Text {
			t.Errorf("At %s: operator mismatch: got %q, want %q", path, node.Op, pattern.Items[1].Text)
		}
		assertPatternMatch(t, node.Left, pattern.Items[2], path+".left", withSymbols)
		assertPatternMatch(t, node.Right, pattern.Items[3], path+".right", withSymbols)

	case *ExpressionStatement:
		if !expectHead(t, pattern, "expr", path) {
			return
		}
		if len(pattern.Items) != 2 {
			t.Errorf("At %s: expected (expr value) pattern, got %s", path, pattern)
			return
		}
		assertPatternMatch(t, node.Expression, pattern.Items[1], path+".expr", withSymbols)

	case *StatementList:
		if !expectHead(t, pattern, "program", path) {
			return
		}
		stmts := Statements(node)
		patterns := pattern.Items[1:]
		// A trailing ellipsis matches any remaining statements.
		open := len(patterns) > 0 && patterns[len(patterns)-1].Kind == sexy.KindEllipsis
		if open {
			patterns = patterns[:len(patterns)-1]
		}
		if len(stmts) < len(patterns) || (!open && len(stmts) != len(patterns)) {
			t.Errorf("At %s: expected %d statements, got %d", path, len(patterns), len(stmts))
			return
		}
		for i, p := range patterns {
			assertPatternMatch(t, stmts[i], p, path+".stmt"+strconv.Itoa(i), withSymbols)
		}

	case *ErrorStatement:
		expectHead(t, pattern, "error", path)

	default:
		t.Errorf("At %s: unsupported node type %T", path, node)
	}
}

func expectHead(t *testing.T, pattern *sexy.Node, head, path string) bool {
	t.Helper()
	if pattern.Head() != head {
		t.Errorf("At %s: expected (%s ...) pattern, got %s", path, head, pattern)
		return false
	}
	return true
}

// assertSymbolsMatch matches a table against [(symbol "name" id) ...].
func assertSymbolsMatch(t *testing.T, table *SymbolTable, pattern *sexy.Node) {
	t.Helper()
	got := sexy.Array()
	for _, sym := range table.Symbols() {
		got.Items = append(got.Items, sexy.List(sexy.Sym("symbol"), sexy.Str(sym.Name), sexy.Int(int64(sym.ID))))
	}
	if err := sexy.Match(pattern, got); err != nil {
		t.Errorf("symbol table mismatch: %v", err)
	}
}

// assertTypesMatch matches the types of every value in the tree, in
// post-order, against an array of type names.
func assertTypesMatch(t *testing.T, root Node, pattern *sexy.Node) {
	t.Helper()
	c := &typeCollector{}
	Walk[struct{}](c, root)
	got := sexy.Array()
	for _, name := range c.types {
		got.Items = append(got.Items, sexy.Str(name))
	}
	if err := sexy.Match(pattern, got); err != nil {
		t.Errorf("value types mismatch: %v", err)
	}
}

type typeCollector struct {
	types []string
}

func (c *typeCollector) Enter(Node) {}

func (c *typeCollector) Exit(n Node, _, _ struct{}) struct{} {
	switch n.(type) {
	case *Number, *Identifier, *BinaryOperation:
		c.types = append(c.types, ResultOf(n).Type().String())
	}
	return struct{}{}
}
