package main

import (
	"errors"
	"strconv"
)

// IdentifierMax is the longest identifier name kept by the tree. Longer names
// are truncated.
const IdentifierMax = 31

// Location is a source range. Lines and columns are 1-based.
type Location struct {
	FirstLine   int
	FirstColumn int
	LastLine    int
	LastColumn  int
}

// Span returns a location covering both a and b.
func Span(a, b Location) Location {
	return Location{
		FirstLine:   a.FirstLine,
		FirstColumn: a.FirstColumn,
		LastLine:    b.LastLine,
		LastColumn:  b.LastColumn,
	}
}

// Node is a syntax tree node. The concrete types are *Number, *Identifier,
// *BinaryOperation, *ExpressionStatement, *StatementList and
// *ErrorStatement.
type Node interface {
	Loc() Location
	// IR returns the section attached by GenerateIR.
	IR() (Section, bool)

	setIR(Section)
	node()
}

type nodeBase struct {
	Location Location
	ir       Section
	lowered  bool
}

func (n *nodeBase) Loc() Location { return n.Location }

func (n *nodeBase) IR() (Section, bool) { return n.ir, n.lowered }

func (n *nodeBase) setIR(s Section) {
	n.ir = s
	n.lowered = true
}

func (*nodeBase) node() {}

// Result is the resolution state of a value: its type and the IR operand
// holding it. Both start unresolved. A set field is never overwritten;
// reading an unresolved field is an internal error.
type Result struct {
	typ     Type
	typed   bool
	operand Operand
}

func (r *Result) IsTyped() bool { return r.typed }

func (r *Result) Type() Type {
	if !r.typed {
		panic("read of untyped value")
	}
	return r.typ
}

// setType assigns t unless a type was already assigned.
func (r *Result) setType(t Type) {
	if r.typed {
		return
	}
	r.typ = t
	r.typed = true
}

func (r *Result) HasOperand() bool { return r.operand.Kind != OperandNone }

func (r *Result) Operand() Operand {
	if r.operand.Kind == OperandNone {
		panic("read of value with no IR producer")
	}
	return r.operand
}

func (r *Result) setOperand(op Operand) {
	if r.operand.Kind != OperandNone {
		panic("IR operand assigned twice")
	}
	r.operand = op
}

// Number is an unsigned integer literal.
type Number struct {
	nodeBase
	Value uint64
	// Overflow is set when the literal does not fit in 32 bits.
	Overflow bool
	Result   Result
}

// Identifier is a variable occurrence. Symbol is nil until ResolveSymbols
// binds it.
type Identifier struct {
	nodeBase
	Name   string
	Symbol *Symbol
}

// BinaryOp is the operator of a BinaryOperation.
type BinaryOp int

const (
	OpMultiply BinaryOp = iota
	OpDivide
	OpAdd
	OpSubtract
	OpAssign
)

func (op BinaryOp) String() string {
	switch op {
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpAssign:
		return "="
	default:
		return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
	}
}

type BinaryOperation struct {
	nodeBase
	Op     BinaryOp
	Left   Node
	Right  Node
	Result Result
}

type ExpressionStatement struct {
	nodeBase
	Expression Node
}

// StatementList is one link of the program's statement chain. Init holds
// the statements before Statement, and is nil for the first statement.
type StatementList struct {
	nodeBase
	Init      *StatementList
	Statement Node
}

// ErrorStatement stands in for a statement the parser could not make sense
// of. It never reaches the semantic passes.
type ErrorStatement struct {
	nodeBase
}

// NewNumber builds a literal from its decimal text. Literals wider than 64
// bits saturate; anything wider than 32 bits is flagged.
func NewNumber(loc Location, text string) *Number {
	n := &Number{nodeBase: nodeBase{Location: loc}}
	value, err := strconv.ParseUint(text, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		n.Overflow = true
	} else if err != nil {
		panic("malformed number literal: " + text)
	} else if value > 0xFFFFFFFF {
		n.Overflow = true
	}
	n.Value = value
	return n
}

func NewIdentifier(loc Location, name string) *Identifier {
	if len(name) > IdentifierMax {
		name = name[:IdentifierMax]
	}
	return &Identifier{nodeBase: nodeBase{Location: loc}, Name: name}
}

func NewBinaryOperation(loc Location, op BinaryOp, left, right Node) *BinaryOperation {
	return &BinaryOperation{
		nodeBase: nodeBase{Location: loc},
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

func NewExpressionStatement(loc Location, expression Node) *ExpressionStatement {
	return &ExpressionStatement{nodeBase: nodeBase{Location: loc}, Expression: expression}
}

func NewStatementList(loc Location, init *StatementList, statement Node) *StatementList {
	return &StatementList{nodeBase: nodeBase{Location: loc}, Init: init, Statement: statement}
}

func NewErrorStatement(loc Location) *ErrorStatement {
	return &ErrorStatement{nodeBase: nodeBase{Location: loc}}
}

// ResultOf returns the result slot of a value-producing node. An identifier
// defers to its symbol's slot, so it must already be bound.
func ResultOf(n Node) *Result {
	switch n := n.(type) {
	case *Number:
		return &n.Result
	case *Identifier:
		if n.Symbol == nil {
			panic("result of unbound identifier " + n.Name)
		}
		return &n.Symbol.Result
	case *BinaryOperation:
		return &n.Result
	default:
		panic("ResultOf: node does not produce a value")
	}
}

// Statements flattens a statement chain into source order.
func Statements(list *StatementList) []Node {
	var stmts []Node
	for ; list != nil; list = list.Init {
		stmts = append(stmts, list.Statement)
	}
	for i, j := 0, len(stmts)-1; i < j; i, j = i+1, j-1 {
		stmts[i], stmts[j] = stmts[j], stmts[i]
	}
	return stmts
}
