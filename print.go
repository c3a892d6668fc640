package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ToSExpr converts a tree to its s-expression representation.
func ToSExpr(node Node) string {
	if isNilNode(node) {
		return "()"
	}
	switch node := node.(type) {
	case *Number:
		return strconv.FormatUint(node.Value, 10)
	case *Identifier:
		if node.Symbol != nil {
			return "(var " + strconv.Quote(node.Name) + " " + strconv.Itoa(node.Symbol.ID) + ")"
		}
		return "(var " + strconv.Quote(node.Name) + ")"
	case *BinaryOperation:
		return "(binary " + strconv.Quote(node.Op.String()) + " " + ToSExpr(node.Left) + " " + ToSExpr(node.Right) + ")"
	case *ExpressionStatement:
		return "(expr " + ToSExpr(node.Expression) + ")"
	case *StatementList:
		result := "(program"
		for _, stmt := range Statements(node) {
			result += " " + ToSExpr(stmt)
		}
		return result + ")"
	case *ErrorStatement:
		return "(error)"
	default:
		return ""
	}
}

// FormatTree writes the tree back as source text. Bound identifiers are
// annotated with their symbol id.
func FormatTree(w io.Writer, node Node) {
	switch node := node.(type) {
	case *BinaryOperation:
		io.WriteString(w, "(")
		FormatTree(w, node.Left)
		io.WriteString(w, " "+node.Op.String()+" ")
		FormatTree(w, node.Right)
		io.WriteString(w, ")")
	case *ErrorStatement:
		io.WriteString(w, "error;\n")
	case *ExpressionStatement:
		FormatTree(w, node.Expression)
		io.WriteString(w, ";\n")
	case *Identifier:
		if node.Symbol != nil {
			fmt.Fprintf(w, "%s /* %d */", node.Name, node.Symbol.ID)
		} else {
			io.WriteString(w, node.Name)
		}
	case *Number:
		fmt.Fprintf(w, "%d", node.Value)
	case *StatementList:
		if node.Init != nil {
			FormatTree(w, node.Init)
		}
		FormatTree(w, node.Statement)
	}
}

// PrintSymbolTable lists the table's variables in creation order, with
// their type once the type pass has run.
func PrintSymbolTable(w io.Writer, table *SymbolTable) {
	fmt.Fprintln(w, "symbol table:")
	for _, sym := range table.Symbols() {
		if sym.Result.IsTyped() {
			fmt.Fprintf(w, "  variable: %s /* %d */ %s\n", sym.Name, sym.ID, sym.Result.Type())
		} else {
			fmt.Fprintf(w, "  variable: %s /* %d */\n", sym.Name, sym.ID)
		}
	}
	fmt.Fprintln(w)
}

// PrintSection writes a numbered listing of the program's code.
func PrintSection(w io.Writer, prog *Program) {
	for i, inst := range prog.Instructions(prog.Section) {
		fmt.Fprintf(w, "%5d     %s\n", i, formatInstruction(inst))
	}
}

func formatInstruction(inst *Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s", inst.Opcode)
	for i := range inst.Opcode.operandCount() {
		if i > 0 {
			b.WriteString(", ")
		}
		op := inst.Operands[i]
		if op.Kind == OperandTemporary {
			fmt.Fprintf(&b, "     t%04d", op.Temporary)
		} else {
			fmt.Fprintf(&b, "%10d", op.Number)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// PrintTokens writes one line per token.
func PrintTokens(w io.Writer, tokens []Token) {
	for _, tok := range tokens {
		loc := tok.Location
		fmt.Fprintf(w, "%d:%d %s %q\n", loc.FirstLine, loc.FirstColumn, tok.Type, tok.Literal)
	}
}

// WritePUML renders the tree as a PlantUML use-case diagram.
func WritePUML(w io.Writer, root Node) {
	if isNilNode(root) {
		return
	}
	fmt.Fprintln(w, "@startuml")
	Walk[string](&pumlPrinter{w: w}, root)
	fmt.Fprintln(w, "@enduml")
}

// pumlPrinter names nodes in pre-order and emits each node's definition and
// the edges to its children once the children are named.
type pumlPrinter struct {
	w      io.Writer
	nextID int
	ids    []string
}

func (pp *pumlPrinter) Enter(n Node) {
	pp.ids = append(pp.ids, "node_"+strconv.Itoa(pp.nextID))
	pp.nextID++
	switch n := n.(type) {
	case *Number:
		fmt.Fprintf(pp.w, "(%d) as (%s)\n", n.Value, pp.top())
	case *Identifier:
		pp.define(n.Name)
	case *ErrorStatement:
		pp.define("error")
	}
}

func (pp *pumlPrinter) Exit(n Node, left, right string) string {
	switch n := n.(type) {
	case *BinaryOperation:
		pp.define(n.Op.String())
		pp.relate("left", left)
		pp.relate("right", right)
	case *ExpressionStatement:
		pp.define(" ; ")
		pp.relate("expr", left)
	case *StatementList:
		pp.define("stmt_list")
		pp.relate("init", left)
		pp.relate("stmt", right)
	}
	id := pp.top()
	pp.ids = pp.ids[:len(pp.ids)-1]
	return id
}

func (pp *pumlPrinter) top() string {
	return pp.ids[len(pp.ids)-1]
}

func (pp *pumlPrinter) define(label string) {
	fmt.Fprintf(pp.w, "( %s ) as (%s)\n", label, pp.top())
}

func (pp *pumlPrinter) relate(relation, target string) {
	if target == "" {
		return
	}
	fmt.Fprintf(pp.w, "(%s) --> (%s) : %s\n", pp.top(), target, relation)
}
