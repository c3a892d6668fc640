package main

// GenerateIR lowers a resolved and typed tree into three-address code. Every
// lowered node gets its section attached; the root's section is also stored
// in the returned Program.
//
// The tree must be free of errors: an identifier read before its first
// assignment, an untyped operand or an error statement is an internal error.
func GenerateIR(root Node) *Program {
	g := &irGenerator{prog: NewProgram()}
	if s := Walk[*Section](g, root); s != nil {
		g.prog.Section = *s
	}
	g.prog.Temporaries = g.nextTemporary
	return g.prog
}

type irGenerator struct {
	prog          *Program
	nextTemporary int

	// assignTarget is the left operand of the assignment being lowered. It
	// stores into a variable, so it contributes no code of its own.
	assignTarget Node
}

func (g *irGenerator) newTemporary() Operand {
	op := TemporaryOperand(g.nextTemporary)
	g.nextTemporary++
	return op
}

func (g *irGenerator) Enter(n Node) {
	switch n := n.(type) {
	case *BinaryOperation:
		if n.Op == OpAssign {
			g.assignTarget = n.Left
		}
	case *ErrorStatement:
		panic("IR generation reached an error statement")
	}
}

func (g *irGenerator) Exit(n Node, left, right *Section) *Section {
	var s Section
	switch n := n.(type) {
	case *Number:
		dest := g.newTemporary()
		s = g.prog.Single(g.prog.NewInstruction(IRLoadImmediate, dest, NumberOperand(n.Value)))
		n.Result.setOperand(dest)

	case *Identifier:
		if g.assignTarget == Node(n) {
			g.assignTarget = nil
			return nil
		}
		if !ResultOf(n).HasOperand() {
			panic("variable " + n.Name + " read before it was assigned")
		}
		s = g.prog.Single(g.prog.NewInstruction(IRNoOperation))

	case *BinaryOperation:
		if n.Op == OpAssign {
			s = g.lowerAssignment(n, right)
		} else {
			s = g.lowerArithmetic(n, left, right)
		}

	case *ExpressionStatement:
		value := ResultOf(n.Expression).Operand()
		s = g.prog.Append(*left, g.prog.NewInstruction(IRPrintNumber, value))

	case *StatementList:
		if left != nil {
			s = g.prog.Concat(*left, *right)
		} else {
			s = *right
		}

	default:
		panic("GenerateIR: unknown node type")
	}
	n.setIR(s)
	return &s
}

func arithmeticOpcode(op BinaryOp) Opcode {
	switch op {
	case OpMultiply:
		return IRMultiply
	case OpDivide:
		return IRDivide
	case OpAdd:
		return IRAdd
	case OpSubtract:
		return IRSubtract
	default:
		panic("not an arithmetic operator: " + op.String())
	}
}

func (g *irGenerator) lowerArithmetic(n *BinaryOperation, left, right *Section) Section {
	opcode := arithmeticOpcode(n.Op)
	dest := g.newTemporary()
	inst := g.prog.NewInstruction(opcode, dest,
		ResultOf(n.Left).Operand(),
		ResultOf(n.Right).Operand())
	s := g.prog.Append(g.prog.Concat(*left, *right), inst)
	n.Result.setOperand(dest)
	return s
}

// lowerAssignment copies the right operand into the variable's storage. A
// variable gets its temporary on first assignment and keeps it.
func (g *irGenerator) lowerAssignment(n *BinaryOperation, right *Section) Section {
	target, ok := n.Left.(*Identifier)
	if !ok {
		panic("assignment target is not an identifier")
	}
	storage := ResultOf(target)
	var dest Operand
	if storage.HasOperand() {
		dest = storage.Operand()
	} else {
		dest = g.newTemporary()
		storage.setOperand(dest)
	}
	inst := g.prog.NewInstruction(IRCopy, dest, ResultOf(n.Right).Operand())
	s := g.prog.Append(*right, inst)
	n.Result.setOperand(dest)
	return s
}
