package main

// Symbol is a variable. The language has a single flat scope, so there is
// exactly one Symbol per distinct name in a compilation unit.
type Symbol struct {
	Name   string
	Result Result
	ID     int
}

// SymbolTable holds the symbols of one compilation unit in creation order.
type SymbolTable struct {
	symbols []*Symbol
	nextID  int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Lookup finds the symbol named name, or returns nil.
func (st *SymbolTable) Lookup(name string) *Symbol {
	for _, sym := range st.symbols {
		if sym.Name == name {
			return sym
		}
	}
	return nil
}

// Define creates a new symbol. The name must not be defined yet.
func (st *SymbolTable) Define(name string) *Symbol {
	if st.Lookup(name) != nil {
		panic("symbol " + name + " already defined")
	}
	sym := &Symbol{Name: name, ID: st.nextID}
	st.nextID++
	st.symbols = append(st.symbols, sym)
	return sym
}

func (st *SymbolTable) Symbols() []*Symbol {
	return st.symbols
}

func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// ResolveSymbols binds every identifier in the tree to a symbol in table.
// A name is defined the first time it appears as the target of an
// assignment. Reading a name before that is reported to errs. Returns the
// number of errors reported.
func ResolveSymbols(root Node, table *SymbolTable, errs *ErrorCollector) int {
	r := &symbolResolver{table: table, errs: errs}
	Walk[struct{}](r, root)
	return r.errorCount
}

type symbolResolver struct {
	table      *SymbolTable
	errs       *ErrorCollector
	errorCount int

	// definitionSite is the left operand of the innermost assignment being
	// entered, cleared once traversal moves past it.
	definitionSite Node
}

func (r *symbolResolver) Enter(n Node) {
	switch n := n.(type) {
	case *BinaryOperation:
		r.definitionSite = nil
		if n.Op == OpAssign {
			r.definitionSite = n.Left
		}
	case *Identifier:
		isDefinition := r.definitionSite == Node(n)
		r.definitionSite = nil
		r.resolve(n, isDefinition)
	case *Number:
		r.definitionSite = nil
	case *ErrorStatement:
		panic("symbol resolution reached an error statement")
	}
}

func (r *symbolResolver) Exit(n Node, _, _ struct{}) struct{} {
	return struct{}{}
}

func (r *symbolResolver) resolve(id *Identifier, isDefinition bool) {
	id.Symbol = r.table.Lookup(id.Name)
	if id.Symbol != nil {
		return
	}
	if isDefinition {
		id.Symbol = r.table.Define(id.Name)
		return
	}
	r.errorCount++
	r.errs.Report(id.Location, "undefined identifier %s", id.Name)
}
