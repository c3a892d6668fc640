package main

import (
	"fmt"
	"io"
	"strings"
)

// CompileError is a single user-facing diagnostic.
type CompileError struct {
	Location Location
	Message  string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("Error (%d, %d) to (%d, %d): %s",
		e.Location.FirstLine, e.Location.FirstColumn,
		e.Location.LastLine, e.Location.LastColumn,
		e.Message)
}

// ErrorCollector accumulates diagnostics reported by the lexer, the parser
// and the semantic passes. If Output is non-nil, every diagnostic is also
// written there as soon as it is reported.
type ErrorCollector struct {
	Output io.Writer
	errors []CompileError
}

func NewErrorCollector(output io.Writer) *ErrorCollector {
	return &ErrorCollector{Output: output}
}

// Report records a diagnostic at loc.
func (ec *ErrorCollector) Report(loc Location, format string, args ...any) {
	err := CompileError{Location: loc, Message: fmt.Sprintf(format, args...)}
	ec.errors = append(ec.errors, err)
	if ec.Output != nil {
		fmt.Fprintln(ec.Output, err.Error())
	}
}

func (ec *ErrorCollector) Count() int {
	return len(ec.errors)
}

func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

func (ec *ErrorCollector) Errors() []CompileError {
	return ec.errors
}

// String renders all diagnostics, one per line.
func (ec *ErrorCollector) String() string {
	var lines []string
	for _, err := range ec.errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

// passError is returned by the driver when a pass reported diagnostics.
type passError struct {
	Pass  string
	Count int
}

func (e *passError) Error() string {
	noun := "errors"
	if e.Count == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%s encountered %d %s.", e.Pass, e.Count, noun)
}
