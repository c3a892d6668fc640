// Package sexy reads the s-expression patterns used by the Markdown test
// suites and extracts those suites' test cases.
package sexy

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the syntactic category of a Node.
type Kind uint8

const (
	KindSymbol Kind = iota + 1
	KindString
	KindInteger
	KindEllipsis
	KindList
	KindArray
)

var kindNames = [...]string{
	KindSymbol:   "symbol",
	KindString:   "string",
	KindInteger:  "integer",
	KindEllipsis: "ellipsis",
	KindList:     "list",
	KindArray:    "array",
}

func (k Kind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Pos is a 1-based line and column in pattern source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one datum. Atoms keep their text; lists and arrays keep their
// items. Pos is zero for nodes built in code.
type Node struct {
	Kind  Kind
	Text  string
	Items []*Node
	Pos   Pos
}

func Sym(name string) *Node { return &Node{Kind: KindSymbol, Text: name} }

func Str(value string) *Node { return &Node{Kind: KindString, Text: value} }

func Int(value int64) *Node {
	return &Node{Kind: KindInteger, Text: strconv.FormatInt(value, 10)}
}

func Ellipsis() *Node { return &Node{Kind: KindEllipsis} }

func List(items ...*Node) *Node { return &Node{Kind: KindList, Items: items} }

func Array(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

func (n *Node) IsAtom() bool {
	return n.Kind != KindList && n.Kind != KindArray
}

// Head returns the symbol that starts a list, or "".
func (n *Node) Head() string {
	if n.Kind != KindList || len(n.Items) == 0 || n.Items[0].Kind != KindSymbol {
		return ""
	}
	return n.Items[0].Text
}

// String renders n in canonical form: single spaces between items and
// quoted strings.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Kind {
	case KindString:
		b.WriteString(strconv.Quote(n.Text))
	case KindEllipsis:
		b.WriteString("...")
	case KindList, KindArray:
		opener, closer := byte('('), byte(')')
		if n.Kind == KindArray {
			opener, closer = '[', ']'
		}
		b.WriteByte(opener)
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			item.write(b)
		}
		b.WriteByte(closer)
	default:
		b.WriteString(n.Text)
	}
}

// Match checks that value has the shape of pattern. Atoms must agree in
// kind and text. An ellipsis as the last item of a pattern list or array
// stands for any number of further items. The error names the path to the
// first difference.
func Match(pattern, value *Node) error {
	return match(pattern, value, "root")
}

func match(pattern, value *Node, path string) error {
	if pattern.Kind != value.Kind {
		return fmt.Errorf("at %s: expected %s %s, got %s %s", path, pattern.Kind, pattern, value.Kind, value)
	}
	if pattern.IsAtom() {
		if pattern.Text != value.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, value)
		}
		return nil
	}

	items := pattern.Items
	open := len(items) > 0 && items[len(items)-1].Kind == KindEllipsis
	if open {
		items = items[:len(items)-1]
	}
	if len(value.Items) < len(items) || (!open && len(value.Items) != len(items)) {
		return fmt.Errorf("at %s: expected %d items, got %d in %s", path, len(items), len(value.Items), value)
	}
	for i, item := range items {
		if err := match(item, value.Items[i], path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	return nil
}

// SyntaxError is a malformed pattern.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

func syntaxErrorf(pos Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Parse reads exactly one datum from src. Whitespace and ';' line comments
// may surround it.
func Parse(src string) (*Node, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	r := &reader{toks: toks}
	n, err := r.datum()
	if err != nil {
		return nil, err
	}
	if extra := r.toks[r.i]; !extra.isEnd() {
		return nil, syntaxErrorf(extra.pos, "unexpected %s after the datum", extra)
	}
	return n, nil
}

// token is a bracket, an atom, or the end of input (neither).
type token struct {
	bracket byte
	atom    *Node
	pos     Pos
}

func (t token) isEnd() bool { return t.bracket == 0 && t.atom == nil }

func (t token) String() string {
	switch {
	case t.atom != nil:
		return t.atom.Kind.String() + " " + t.atom.String()
	case t.bracket != 0:
		return "'" + string(t.bracket) + "'"
	default:
		return "end of input"
	}
}

type reader struct {
	toks []token
	i    int
}

func (r *reader) datum() (*Node, error) {
	tok := r.toks[r.i]
	switch {
	case tok.atom != nil:
		r.i++
		return tok.atom, nil
	case tok.bracket == '(' || tok.bracket == '[':
		r.i++
		return r.sequence(tok)
	default:
		return nil, syntaxErrorf(tok.pos, "unexpected %s", tok)
	}
}

// sequence reads the items after open up to its matching closer.
func (r *reader) sequence(open token) (*Node, error) {
	n := &Node{Kind: KindList, Items: []*Node{}, Pos: open.pos}
	closer := byte(')')
	if open.bracket == '[' {
		n.Kind, closer = KindArray, ']'
	}
	for {
		tok := r.toks[r.i]
		switch {
		case tok.bracket == closer:
			r.i++
			return n, nil
		case tok.bracket == ')' || tok.bracket == ']':
			return nil, syntaxErrorf(tok.pos, "'%c' does not close '%c' opened at %s", tok.bracket, open.bracket, open.pos)
		case tok.isEnd():
			return nil, syntaxErrorf(tok.pos, "'%c' opened at %s is never closed", open.bracket, open.pos)
		}
		item, err := r.datum()
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, item)
	}
}

type scanner struct {
	src string
	off int
	pos Pos
}

// scan splits src into tokens. The last token is always the end.
func scan(src string) ([]token, error) {
	s := &scanner{src: src, pos: Pos{Line: 1, Column: 1}}
	var toks []token
	for {
		s.skipBlank()
		start, from := s.pos, s.off
		if s.off >= len(s.src) {
			return append(toks, token{pos: start}), nil
		}

		c := s.src[s.off]
		var atom *Node
		switch {
		case strings.IndexByte("()[]", c) >= 0:
			s.bump()
			toks = append(toks, token{bracket: c, pos: start})
			continue
		case c == '"':
			text, err := s.quoted()
			if err != nil {
				return nil, err
			}
			atom = &Node{Kind: KindString, Text: text}
		case strings.HasPrefix(s.src[s.off:], "..."):
			s.bump()
			s.bump()
			s.bump()
			atom = &Node{Kind: KindEllipsis}
		case isDigit(c) || (c == '-' && isDigit(s.peek(1))):
			s.bump()
			s.skipWhile(isDigit)
			atom = &Node{Kind: KindInteger, Text: s.src[from:s.off]}
		case isSymbolByte(c):
			s.skipWhile(isSymbolByte)
			atom = &Node{Kind: KindSymbol, Text: s.src[from:s.off]}
		default:
			return nil, syntaxErrorf(start, "unexpected character %q", c)
		}
		atom.Pos = start
		toks = append(toks, token{atom: atom, pos: start})
	}
}

func (s *scanner) peek(ahead int) byte {
	if s.off+ahead >= len(s.src) {
		return 0
	}
	return s.src[s.off+ahead]
}

func (s *scanner) bump() byte {
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return c
}

func (s *scanner) skipWhile(pred func(byte) bool) {
	for s.off < len(s.src) && pred(s.src[s.off]) {
		s.bump()
	}
}

func (s *scanner) skipBlank() {
	for s.off < len(s.src) {
		switch s.src[s.off] {
		case ' ', '\t', '\n', '\r':
			s.bump()
		case ';':
			s.skipWhile(func(c byte) bool { return c != '\n' })
		default:
			return
		}
	}
}

// quoted reads a string literal. The escapes are \" \\ and \n.
func (s *scanner) quoted() (string, error) {
	start := s.pos
	s.bump()
	var b strings.Builder
	for s.off < len(s.src) {
		c := s.bump()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if s.off >= len(s.src) {
				return "", syntaxErrorf(start, "unterminated string")
			}
			at := s.pos
			switch esc := s.peek(0); esc {
			case '"', '\\':
				b.WriteByte(s.bump())
			case 'n':
				s.bump()
				b.WriteByte('\n')
			default:
				return "", syntaxErrorf(at, "invalid escape sequence \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", syntaxErrorf(start, "unterminated string")
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isSymbolByte(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		strings.IndexByte("-_+*/=:<>!?", c) >= 0
}
