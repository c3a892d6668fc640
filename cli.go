package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `calc - three-address code compiler for a tiny expression language

Usage:
    calc <command> [arguments]

Commands:
    run <file>           Compile and execute a .calc file
    eval <code>          Evaluate inline calc code
    check <file>         Parse, resolve and type-check a .calc file
    dump -s <stage> <file>
                         Print the output of one stage
                         (tokens, parser, puml, symbol, type, ir)
    build <files...>     Write the IR listing of each file
    help                 Show this help message

Examples:
    calc run examples/area.calc
    calc eval 'a = 4; a * 2;'
    calc dump -s ir examples/area.calc
    calc build -o out -j 4 a.calc b.calc

Use "calc <command> -h" for more information about a command.
`)
}

func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: calc %s\n", usage)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseOneArg parses flags and returns the single positional argument.
func parseOneArg(fs *flag.FlagSet, args []string, what string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func readSource(filename string) []byte {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return source
}

func runCommand(args []string) {
	fs := newFlagSet("run", "run [-v] <file>", "Compile and execute a .calc file")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	filename := parseOneArg(fs, args, "file")

	if *verbose {
		fmt.Printf("Compiling %s...\n", filename)
	}
	if err := Run(readSource(filename), os.Stdout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func evalCommand(args []string) {
	fs := newFlagSet("eval", "eval [-v] <code>", "Evaluate inline calc code")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	code := parseOneArg(fs, args, "code")

	if *verbose {
		fmt.Printf("Evaluating: %s\n", code)
	}
	if err := Run([]byte(code), os.Stdout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func checkCommand(args []string) {
	fs := newFlagSet("check", "check [-v] <file>", "Parse, resolve and type-check a .calc file")
	verbose := fs.Bool("v", false, "Show verbose checking details")
	filename := parseOneArg(fs, args, "file")

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}
	c, err := Compile(readSource(filename), Options{Stage: StageType, Diagnostics: os.Stdout})
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: no errors found\n", filename)

	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(c.Tree))
	}
}

func dumpCommand(args []string) {
	fs := newFlagSet("dump", "dump -s <stage> [-v] <file>", "Print the output of one compiler stage")
	stage := fs.String("s", "ir", "Stage to stop after: tokens, parser, puml, symbol, type or ir")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	filename := parseOneArg(fs, args, "file")

	source := readSource(filename)
	if *verbose {
		fmt.Printf("Dumping stage %s of %s...\n", *stage, filename)
	}
	if err := dumpStage(os.Stdout, source, *stage); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// dumpStage writes the output of one stage of compiling source to w.
// Diagnostics go to w as well.
func dumpStage(w io.Writer, source []byte, name string) error {
	switch name {
	case "tokens":
		errs := NewErrorCollector(w)
		PrintTokens(w, Tokenize(source, errs))
		if errs.HasErrors() {
			return &passError{Pass: "Scanner", Count: errs.Count()}
		}
		return nil
	case "puml":
		c, err := Compile(source, Options{Stage: StageParse, Diagnostics: w})
		if err != nil {
			return err
		}
		WritePUML(w, c.Tree)
		return nil
	}

	stage, err := ParseStage(name)
	if err != nil {
		return err
	}
	c, err := Compile(source, Options{Stage: stage, Diagnostics: w})
	if err != nil {
		return err
	}
	switch stage {
	case StageParse, StageType:
		FormatTree(w, c.Tree)
	case StageSymbol:
		fmt.Fprintln(w, "================= SYMBOLS ================")
		PrintSymbolTable(w, c.Symbols)
		fmt.Fprintln(w, "=============== PARSE TREE ===============")
		FormatTree(w, c.Tree)
	case StageIR:
		PrintSection(w, c.Program)
	}
	return nil
}

func buildCommand(args []string) {
	fs := newFlagSet("build", "build [-o dir] [-j jobs] [-v] <files...>", "Write the IR listing of each .calc file")
	output := fs.String("o", "", "Output directory (default: next to each input)")
	jobs := fs.Int("j", runtime.NumCPU(), "Number of files to compile in parallel")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	results, err := buildFiles(fs.Args(), *output, *jobs)
	for _, r := range results {
		if r.Diagnostics != "" {
			fmt.Printf("%s:\n%s", r.Input, r.Diagnostics)
		}
		if r.Err == nil && *verbose {
			fmt.Printf("Generated %s (%d instructions)\n", r.Output, r.Instructions)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
}

type buildResult struct {
	Input        string
	Output       string
	Instructions int
	Diagnostics  string
	Err          error
}

// buildFiles compiles every input as its own compilation unit, at most jobs
// at a time, and writes <name>.ir next to the input or into outDir. Every
// file is attempted; the returned error joins the failures.
func buildFiles(inputs []string, outDir string, jobs int) ([]buildResult, error) {
	results := make([]buildResult, len(inputs))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, input := range inputs {
		results[i].Input = input
		g.Go(func() error {
			results[i].Err = buildFile(&results[i], outDir)
			return nil
		})
	}
	g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func buildFile(r *buildResult, outDir string) error {
	source, err := os.ReadFile(r.Input)
	if err != nil {
		return err
	}
	var diagnostics bytes.Buffer
	c, err := Compile(source, Options{Diagnostics: &diagnostics})
	r.Diagnostics = diagnostics.String()
	if err != nil {
		return err
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(r.Input)
	}
	r.Output = filepath.Join(dir, strings.TrimSuffix(filepath.Base(r.Input), ".calc")+".ir")
	var listing bytes.Buffer
	PrintSection(&listing, c.Program)
	r.Instructions = len(c.Program.Instructions(c.Program.Section))
	if err := os.WriteFile(r.Output, listing.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", r.Output, err)
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		runCommand(args)
	case "eval":
		evalCommand(args)
	case "check":
		checkCommand(args)
	case "dump":
		dumpCommand(args)
	case "build":
		buildCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
