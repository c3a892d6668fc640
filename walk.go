package main

// Visitor receives two callbacks per node during Walk. Enter runs before the
// node's children are visited; Exit runs after, and gets the values returned
// by Exit for the node's left and right children (the zero T when a child is
// absent). Exit's return value is handed to the parent.
//
// For ExpressionStatement the expression is the left child. For
// StatementList, Init is the left child and Statement is the right child.
type Visitor[T any] interface {
	Enter(n Node)
	Exit(n Node, left, right T) T
}

// Walk visits the tree rooted at n depth-first, left before right. A nil n
// yields the zero T without calling v.
func Walk[T any](v Visitor[T], n Node) T {
	var left, right T
	if isNilNode(n) {
		return left
	}
	v.Enter(n)
	switch n := n.(type) {
	case *Number, *Identifier, *ErrorStatement:
	case *BinaryOperation:
		left = Walk(v, n.Left)
		right = Walk(v, n.Right)
	case *ExpressionStatement:
		left = Walk(v, n.Expression)
	case *StatementList:
		if n.Init != nil {
			left = Walk[T](v, n.Init)
		}
		right = Walk(v, n.Statement)
	default:
		panic("Walk: unknown node type")
	}
	return v.Exit(n, left, right)
}

// isNilNode reports whether n is nil, including typed nil pointers.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Number:
		return n == nil
	case *Identifier:
		return n == nil
	case *BinaryOperation:
		return n == nil
	case *ExpressionStatement:
		return n == nil
	case *StatementList:
		return n == nil
	case *ErrorStatement:
		return n == nil
	}
	return false
}
