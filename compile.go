package main

import (
	"fmt"
	"io"
)

// Stage names the last pass a compilation runs.
type Stage string

const (
	StageParse  Stage = "parser"
	StageSymbol Stage = "symbol"
	StageType   Stage = "type"
	StageIR     Stage = "ir"
)

func ParseStage(name string) (Stage, error) {
	switch Stage(name) {
	case StageParse, StageSymbol, StageType, StageIR:
		return Stage(name), nil
	}
	return "", fmt.Errorf("unknown stage %q", name)
}

func (s Stage) reaches(other Stage) bool {
	order := map[Stage]int{StageParse: 0, StageSymbol: 1, StageType: 2, StageIR: 3}
	return order[s] >= order[other]
}

// Options configures Compile.
type Options struct {
	// Stage is the last pass to run. The zero value runs every pass.
	Stage Stage
	// Diagnostics, if non-nil, receives every diagnostic as it is reported.
	Diagnostics io.Writer
}

// Compilation is one compilation unit: a source text and everything the
// passes derived from it. Units share no state.
type Compilation struct {
	Tree    *StatementList
	Symbols *SymbolTable
	Errors  *ErrorCollector
	Program *Program
}

// Compile runs the pipeline over source up to opts.Stage. If a pass reports
// errors, the passes after it do not run and the returned error names the
// failing pass; the Compilation is still returned for inspection.
func Compile(source []byte, opts Options) (*Compilation, error) {
	stage := opts.Stage
	if stage == "" {
		stage = StageIR
	}
	c := &Compilation{
		Symbols: NewSymbolTable(),
		Errors:  NewErrorCollector(opts.Diagnostics),
	}

	c.Tree = Parse(source, c.Errors)
	if c.Errors.HasErrors() {
		return c, &passError{Pass: "Parser", Count: c.Errors.Count()}
	}
	if !stage.reaches(StageSymbol) {
		return c, nil
	}

	if n := ResolveSymbols(c.Tree, c.Symbols, c.Errors); n > 0 {
		return c, &passError{Pass: "Symbol table", Count: n}
	}
	if !stage.reaches(StageType) {
		return c, nil
	}

	if n := AssignTypes(c.Tree, c.Errors); n > 0 {
		return c, &passError{Pass: "Type checking", Count: n}
	}
	if !stage.reaches(StageIR) {
		return c, nil
	}

	c.Program = GenerateIR(c.Tree)
	return c, nil
}

// Run compiles source and executes it, writing program output to w.
func Run(source []byte, w io.Writer, diagnostics io.Writer) error {
	c, err := Compile(source, Options{Diagnostics: diagnostics})
	if err != nil {
		return err
	}
	if err := Execute(c.Program, w); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}
