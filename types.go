package main

// TypeKind distinguishes type variants. Only basic integer types exist so far.
type TypeKind int

const (
	TypeBasic TypeKind = iota
)

// Width is the size class of a basic type.
type Width int

const (
	WidthChar Width = iota
	WidthShort
	WidthInt
	WidthLong
)

func (w Width) String() string {
	switch w {
	case WidthChar:
		return "char"
	case WidthShort:
		return "short"
	case WidthInt:
		return "int"
	case WidthLong:
		return "long"
	default:
		return "unknown"
	}
}

// Type describes the type of a value. Two types are equal iff all fields
// match, so Type can be compared with ==.
type Type struct {
	Kind     TypeKind
	Unsigned bool
	Width    Width
}

func BasicType(unsigned bool, width Width) Type {
	return Type{Kind: TypeBasic, Unsigned: unsigned, Width: width}
}

// TypeInt is the type of literals and variables.
var TypeInt = BasicType(false, WidthInt)

// TypeLong is the widest basic type.
var TypeLong = BasicType(false, WidthLong)

func TypesEqual(a, b Type) bool {
	return a == b
}

func (t Type) String() string {
	if t.Kind != TypeBasic {
		return "unknown"
	}
	if t.Unsigned {
		return "unsigned " + t.Width.String()
	}
	return "signed " + t.Width.String()
}

// AssignTypes gives every value in the tree a type and reports illegal
// operations (division by a literal zero) to errs. Returns the number of
// errors reported.
//
// A variable's type is fixed by its first occurrence. Number literals are
// always int, even when Overflow is set.
func AssignTypes(root Node, errs *ErrorCollector) int {
	tc := &typeChecker{errs: errs}
	Walk[*Result](tc, root)
	return tc.errorCount
}

type typeChecker struct {
	errs       *ErrorCollector
	errorCount int
}

func (tc *typeChecker) Enter(n Node) {
	if _, ok := n.(*ErrorStatement); ok {
		panic("type checking reached an error statement")
	}
}

func (tc *typeChecker) Exit(n Node, left, right *Result) *Result {
	switch n := n.(type) {
	case *Number:
		n.Result.setType(TypeInt)
		return &n.Result
	case *Identifier:
		result := ResultOf(n)
		if !result.IsTyped() {
			result.setType(TypeInt)
		}
		return result
	case *BinaryOperation:
		tc.checkBinary(n, left, right)
		return &n.Result
	default:
		return nil
	}
}

func (tc *typeChecker) checkBinary(n *BinaryOperation, left, right *Result) {
	// Operands of the same basic type are all the language can produce
	// today. A second type needs a conversion rule here.
	if !TypesEqual(left.Type(), right.Type()) {
		panic("operand type mismatch: " + left.Type().String() + " " + n.Op.String() + " " + right.Type().String())
	}

	switch n.Op {
	case OpMultiply, OpAdd, OpSubtract, OpAssign:
	case OpDivide:
		if divisor, ok := n.Right.(*Number); ok && divisor.Value == 0 {
			tc.errorCount++
			tc.errs.Report(n.Location, "division by zero")
		}
	default:
		panic("unhandled operator " + n.Op.String())
	}
	n.Result.setType(left.Type())
}
