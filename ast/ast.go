// Package ast defines the syntax tree consumed by the lowering engine.
// Trees are produced externally (by a frontend parser or the JSON form in
// decode.go) and walked exactly once; nodes are never mutated after build.
package ast

// Node is the base interface for all syntax-tree nodes.
// The language is expression-oriented: statements and expressions share one
// node space and every node lowers to a runtime value.
type Node interface {
	nodeMark()
}

// Number32Lit is a 32-bit integer literal
type Number32Lit struct {
	Val int32
}

func (n *Number32Lit) nodeMark() {}

// Number64Lit is a 64-bit integer literal
type Number64Lit struct {
	Val int64
}

func (n *Number64Lit) nodeMark() {}

// StrLit is a string literal
type StrLit struct {
	Val string
}

func (n *StrLit) nodeMark() {}

// BoolLit is a boolean literal
type BoolLit struct {
	Val bool
}

func (n *BoolLit) nodeMark() {}

// VariableExpr references a bound name
type VariableExpr struct {
	Name string
}

func (n *VariableExpr) nodeMark() {}

// BinaryExpr applies an infix operator to two operands
type BinaryExpr struct {
	Op  string
	LHS Node
	RHS Node
}

func (n *BinaryExpr) nodeMark() {}

// GroupingExpr is a parenthesized sub-expression
type GroupingExpr struct {
	Expr Node
}

func (n *GroupingExpr) nodeMark() {}

// ListLit is a fixed-length list literal.
// All elements share the type of the first element.
type ListLit struct {
	Items []Node
}

func (n *ListLit) nodeMark() {}

// IndexGetExpr reads one list element
type IndexGetExpr struct {
	Base  Node
	Index Node
}

func (n *IndexGetExpr) nodeMark() {}

// IndexSetStmt writes one element of a named list variable
type IndexSetStmt struct {
	Name  string
	Index Node
	RHS   Node
}

func (n *IndexSetStmt) nodeMark() {}

// LetStmt binds or re-binds a name.
// Type is the declared type name and is taken at face value.
type LetStmt struct {
	Name string
	Type string
	RHS  Node
}

func (n *LetStmt) nodeMark() {}

// BlockStmt is a brace-delimited statement sequence.
// A block opens a new eviction depth; its value is the last statement's value.
type BlockStmt struct {
	Stmts []Node
}

func (n *BlockStmt) nodeMark() {}

// CallExpr invokes a declared function by name
type CallExpr struct {
	Name string
	Args []Node
}

func (n *CallExpr) nodeMark() {}

// Param is one declared function parameter
type Param struct {
	Name string
	Type string
}

// FuncDecl declares a function.
// Return names the declared return type ("void" when absent).
type FuncDecl struct {
	Name   string
	Params []Param
	Return string
	Body   *BlockStmt
}

func (n *FuncDecl) nodeMark() {}

// IfStmt represents if/else; Else may be nil
type IfStmt struct {
	Cond Node
	Then *BlockStmt
	Else *BlockStmt
}

func (n *IfStmt) nodeMark() {}

// WhileStmt represents while loops
type WhileStmt struct {
	Cond Node
	Body *BlockStmt
}

func (n *WhileStmt) nodeMark() {}

// ForStmt represents counted for loops.
// Init, Bound and Step are literal 32-bit integers; the loop compare operator
// is chosen once from the sign of Step.
type ForStmt struct {
	Var   string
	Init  int32
	Bound int32
	Step  int32
	Body  *BlockStmt
}

func (n *ForStmt) nodeMark() {}

// PrintStmt renders its operand to standard output
type PrintStmt struct {
	Expr Node
}

func (n *PrintStmt) nodeMark() {}

// ReturnStmt terminates the enclosing function with a value
type ReturnStmt struct {
	Expr Node
}

func (n *ReturnStmt) nodeMark() {}
