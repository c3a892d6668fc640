package main

import (
	"errors"
	"fmt"
	"io"
)

var ErrDivisionByZero = errors.New("division by zero")

// Execute runs the program's section front to back, writing the value of
// every PNUM to w on its own line. Values are 32-bit signed integers and
// wrap on overflow.
func Execute(prog *Program, w io.Writer) error {
	temps := make([]int32, prog.Temporaries)
	set := make([]bool, prog.Temporaries)

	read := func(op Operand) (int32, error) {
		switch op.Kind {
		case OperandNumber:
			return int32(op.Number), nil
		case OperandTemporary:
			if op.Temporary >= len(temps) || !set[op.Temporary] {
				return 0, fmt.Errorf("read of unset temporary %s", op)
			}
			return temps[op.Temporary], nil
		default:
			return 0, fmt.Errorf("missing operand")
		}
	}
	write := func(op Operand, value int32) error {
		if op.Kind != OperandTemporary || op.Temporary >= len(temps) {
			return fmt.Errorf("bad destination %s", op)
		}
		temps[op.Temporary] = value
		set[op.Temporary] = true
		return nil
	}

	for i, inst := range prog.Instructions(prog.Section) {
		var err error
		switch inst.Opcode {
		case IRNoOperation:
		case IRLoadImmediate, IRCopy:
			var v int32
			if v, err = read(inst.Operands[1]); err == nil {
				err = write(inst.Operands[0], v)
			}
		case IRMultiply, IRDivide, IRAdd, IRSubtract:
			err = executeArithmetic(inst, read, write)
		case IRPrintNumber:
			var v int32
			if v, err = read(inst.Operands[0]); err == nil {
				_, err = fmt.Fprintln(w, v)
			}
		default:
			err = fmt.Errorf("unknown opcode %s", inst.Opcode)
		}
		if err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, inst, err)
		}
	}
	return nil
}

func executeArithmetic(inst *Instruction, read func(Operand) (int32, error), write func(Operand, int32) error) error {
	a, err := read(inst.Operands[1])
	if err != nil {
		return err
	}
	b, err := read(inst.Operands[2])
	if err != nil {
		return err
	}
	var v int32
	switch inst.Opcode {
	case IRMultiply:
		v = a * b
	case IRDivide:
		if b == 0 {
			return ErrDivisionByZero
		}
		v = a / b
	case IRAdd:
		v = a + b
	case IRSubtract:
		v = a - b
	}
	return write(inst.Operands[0], v)
}
