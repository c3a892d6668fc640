package main

import (
	"fmt"
	"strings"
)

// Opcode is the operation of a three-address instruction.
type Opcode int

const (
	IRNoOperation Opcode = iota
	IRMultiply
	IRDivide
	IRAdd
	IRSubtract
	IRLoadImmediate
	IRCopy
	IRPrintNumber
)

var opcodeNames = [...]string{
	IRNoOperation:   "NOP",
	IRMultiply:      "MULT",
	IRDivide:        "DIV",
	IRAdd:           "ADD",
	IRSubtract:      "SUB",
	IRLoadImmediate: "LI",
	IRCopy:          "COPY",
	IRPrintNumber:   "PNUM",
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// operandCount is the number of operands an instruction of this opcode uses.
func (op Opcode) operandCount() int {
	switch op {
	case IRMultiply, IRDivide, IRAdd, IRSubtract:
		return 3
	case IRLoadImmediate, IRCopy:
		return 2
	case IRPrintNumber:
		return 1
	default:
		return 0
	}
}

type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandNumber
	OperandTemporary
)

// Operand is an instruction operand: an immediate number or a temporary.
type Operand struct {
	Kind      OperandKind
	Number    uint64
	Temporary int
}

func NumberOperand(value uint64) Operand {
	return Operand{Kind: OperandNumber, Number: value}
}

func TemporaryOperand(index int) Operand {
	return Operand{Kind: OperandTemporary, Temporary: index}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNumber:
		return fmt.Sprintf("%d", o.Number)
	case OperandTemporary:
		return fmt.Sprintf("t%d", o.Temporary)
	default:
		return "_"
	}
}

// InstrID addresses an instruction in a Program.
type InstrID int

// NoInstr is the nil InstrID.
const NoInstr InstrID = -1

// Instruction is a three-address instruction. Operands[0] is the
// destination for instructions that produce a value.
type Instruction struct {
	Opcode   Opcode
	Operands [3]Operand
	Prev     InstrID
	Next     InstrID
}

func (inst *Instruction) String() string {
	n := inst.Opcode.operandCount()
	if n == 0 {
		return inst.Opcode.String()
	}
	parts := make([]string, n)
	for i := range n {
		parts[i] = inst.Operands[i].String()
	}
	return inst.Opcode.String() + " " + strings.Join(parts, ", ")
}

// Section is a contiguous, doubly linked run of instructions in a Program.
type Section struct {
	First InstrID
	Last  InstrID
}

// Program owns every instruction generated for a compilation unit.
// Section is the code for the whole tree.
type Program struct {
	instrs  []Instruction
	Section Section

	// Temporaries is the number of temporaries allocated.
	Temporaries int
}

func NewProgram() *Program {
	return &Program{Section: Section{First: NoInstr, Last: NoInstr}}
}

// Instruction returns the instruction with the given id.
func (p *Program) Instruction(id InstrID) *Instruction {
	return &p.instrs[id]
}

// NewInstruction allocates an unlinked instruction.
func (p *Program) NewInstruction(op Opcode, operands ...Operand) InstrID {
	if len(operands) > 3 {
		panic("too many operands")
	}
	inst := Instruction{Opcode: op, Prev: NoInstr, Next: NoInstr}
	copy(inst.Operands[:], operands)
	p.instrs = append(p.instrs, inst)
	return InstrID(len(p.instrs) - 1)
}

// Single returns a section holding only id.
func (p *Program) Single(id InstrID) Section {
	return Section{First: id, Last: id}
}

// Concat links after behind before and returns the joined section. Neither
// argument may be used afterwards.
func (p *Program) Concat(before, after Section) Section {
	p.instrs[before.Last].Next = after.First
	p.instrs[after.First].Prev = before.Last
	return Section{First: before.First, Last: after.Last}
}

// Append inserts id after the last instruction of s.
func (p *Program) Append(s Section, id InstrID) Section {
	if s.First == NoInstr || s.Last == NoInstr {
		if s.First != s.Last {
			panic("half-empty section")
		}
		p.instrs[id].Prev = NoInstr
		p.instrs[id].Next = NoInstr
		return p.Single(id)
	}
	last := &p.instrs[s.Last]
	inst := &p.instrs[id]
	inst.Next = last.Next
	if inst.Next != NoInstr {
		p.instrs[inst.Next].Prev = id
	}
	last.Next = id
	inst.Prev = s.Last
	s.Last = id
	return s
}

// Instructions returns the instructions of s from First to Last.
func (p *Program) Instructions(s Section) []*Instruction {
	var out []*Instruction
	if s.First == NoInstr {
		return out
	}
	for id := s.First; id != NoInstr; id = p.instrs[id].Next {
		out = append(out, &p.instrs[id])
		if id == s.Last {
			break
		}
	}
	return out
}

// Listing renders s one instruction per line.
func (p *Program) Listing(s Section) []string {
	var lines []string
	for _, inst := range p.Instructions(s) {
		lines = append(lines, inst.String())
	}
	return lines
}
