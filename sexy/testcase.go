package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of a test's input fence.
type InputType string

const InputTypeCalc InputType = "calc"

// AssertionType is the language of an assertion fence. It names what the
// test checks about the compiled input.
type AssertionType string

const (
	AssertionTypeAST          AssertionType = "ast"           // parse tree pattern
	AssertionTypeASTSym       AssertionType = "ast-sym"       // tree pattern after resolution, with symbol ids
	AssertionTypeSymbols      AssertionType = "symbols"       // [(symbol "name" id) ...]
	AssertionTypeTypes        AssertionType = "types"         // value types in post-order
	AssertionTypeIR           AssertionType = "ir"            // IR listing
	AssertionTypeExecute      AssertionType = "execute"       // program output
	AssertionTypeCompileError AssertionType = "compile-error" // diagnostics
)

func (a AssertionType) known() bool {
	switch a {
	case AssertionTypeAST, AssertionTypeASTSym, AssertionTypeSymbols, AssertionTypeTypes,
		AssertionTypeIR, AssertionTypeExecute, AssertionTypeCompileError:
		return true
	}
	return false
}

// Raw reports whether the fence holds plain text rather than a pattern.
func (a AssertionType) Raw() bool {
	return a == AssertionTypeIR || a == AssertionTypeExecute || a == AssertionTypeCompileError
}

type Assertion struct {
	Type    AssertionType
	Content string // fence body without the trailing newline
	// ParsedSexy is the parsed pattern; nil for raw assertions.
	ParsedSexy *Node
	Line       int // line of the opening fence
}

// TestCase is one "## Test: <name>" section of a suite.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Assertions []Assertion
}

// ExtractTestCases reads the test cases of a Markdown suite. A test starts
// at a heading "Test: <name>" and owns the fences up to the next such
// heading: exactly one input fence and at least one assertion fence. Fences
// without a language are prose and are ignored everywhere. Only top-level
// blocks are considered.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	x := &extractor{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var err error
		switch n := n.(type) {
		case *ast.Heading:
			err = x.heading(n)
		case *ast.FencedCodeBlock:
			err = x.fence(n)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := x.flush(); err != nil {
		return nil, err
	}
	return x.cases, nil
}

type extractor struct {
	src   []byte
	cases []TestCase
	cur   *TestCase
}

func (x *extractor) heading(h *ast.Heading) error {
	name, ok := strings.CutPrefix(headingText(h, x.src), "Test: ")
	if !ok {
		return nil
	}
	if err := x.flush(); err != nil {
		return err
	}
	x.cur = &TestCase{Name: strings.TrimSpace(name)}
	return nil
}

// flush validates the open test case and adds it to the results.
func (x *extractor) flush() error {
	tc := x.cur
	if tc == nil {
		return nil
	}
	x.cur = nil
	if tc.Input == "" {
		return fmt.Errorf("test %q has no %s fence", tc.Name, InputTypeCalc)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", tc.Name)
	}
	x.cases = append(x.cases, *tc)
	return nil
}

func (x *extractor) fence(n *ast.FencedCodeBlock) error {
	lang := string(n.Language(x.src))
	if lang == "" {
		return nil
	}
	line := fenceLine(n, x.src)
	if x.cur == nil {
		return fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
	}
	body := strings.TrimRight(fenceBody(n, x.src), "\n")

	if InputType(lang) == InputTypeCalc {
		if x.cur.Input != "" {
			return fmt.Errorf("line %d: test %q has more than one input fence", line, x.cur.Name)
		}
		x.cur.Input, x.cur.InputType = body, InputTypeCalc
		return nil
	}

	kind := AssertionType(lang)
	if !kind.known() {
		return fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, x.cur.Name)
	}
	a := Assertion{Type: kind, Content: body, Line: line}
	if !kind.Raw() {
		pattern, err := Parse(body)
		if err != nil {
			return fmt.Errorf("line %d: bad pattern in test %q: %w", line, x.cur.Name, err)
		}
		a.ParsedSexy = pattern
	}
	x.cur.Assertions = append(x.cur.Assertions, a)
	return nil
}

func headingText(h *ast.Heading, src []byte) string {
	var b bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func fenceBody(n *ast.FencedCodeBlock, src []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// fenceLine returns the 1-based line of the fence's opening ``` marker.
func fenceLine(n *ast.FencedCodeBlock, src []byte) int {
	if n.Info != nil {
		return lineOf(src, n.Info.Segment.Start)
	}
	if n.Lines().Len() > 0 {
		return lineOf(src, n.Lines().At(0).Start) - 1
	}
	return 1
}

func lineOf(src []byte, offset int) int {
	return bytes.Count(src[:min(offset, len(src))], []byte("\n")) + 1
}
