package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2;", "2\n"},
		{"a = 4; b = a + 4; b;", "4\n8\n8\n"},
		{"7 / 2; 2 - 5; 3 * 4;", "3\n-3\n12\n"},
		{"a = 1; a = a + 1; a = a * 10; a;", "1\n2\n20\n20\n"},
		{"2147483647 + 1;", "-2147483648\n"},
		{"4294967295;", "-1\n"},
		{"0 - 7 / 2;", "-3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			err := Execute(GenerateIR(typed(t, tt.input)), &out)
			be.Err(t, err, nil)
			be.Equal(t, out.String(), tt.expected)
		})
	}
}

func TestExecuteDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	err := Execute(GenerateIR(typed(t, "a = 0; 4 / a;")), &out)
	be.True(t, errors.Is(err, ErrDivisionByZero))
	be.True(t, strings.Contains(err.Error(), "DIV t3, t2, t1"))
	be.Equal(t, out.String(), "0\n")
}

func TestExecuteUnsetTemporary(t *testing.T) {
	p := NewProgram()
	p.Section = p.Single(p.NewInstruction(IRPrintNumber, TemporaryOperand(0)))
	p.Temporaries = 1

	err := Execute(p, &bytes.Buffer{})
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "instruction 0 (PNUM t0): read of unset temporary t0")
}

func TestExecuteEmptyProgram(t *testing.T) {
	var out bytes.Buffer
	be.Err(t, Execute(NewProgram(), &out), nil)
	be.Equal(t, out.String(), "")
}
