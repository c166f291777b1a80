// Package lower walks the syntax tree once and drives the emission façade.
//
// The Lowerer is a total function from node to runtime value: every failure
// (unknown identifier, unsupported operator, kind mismatch) is unrecoverable
// and aborts the whole compile. There is no partial-success mode.
package lower

import (
	"tinygo.org/x/go-llvm"

	"kiln/ast"
	"kiln/codegen"
	"kiln/trace"
	"kiln/types"
)

// Lowerer converts syntax-tree nodes to backend operations
type Lowerer struct {
	cg    *codegen.Builder
	vars  *Cache
	funcs *Cache
	depth int
}

// New creates a lowerer over a fresh backend builder.
// Both symbol tables start empty; depth starts at zero.
func New(cg *codegen.Builder) *Lowerer {
	return &Lowerer{
		cg:    cg,
		vars:  NewCache(),
		funcs: NewCache(),
	}
}

// Builder exposes the emission façade, mainly for tests
func (l *Lowerer) Builder() *codegen.Builder {
	return l.cg
}

// Depth returns the current lexical depth
func (l *Lowerer) Depth() int {
	return l.depth
}

// Lower dispatches on the node type and returns the node's runtime value
func (l *Lowerer) Lower(node ast.Node) (types.Value, error) {
	switch n := node.(type) {
	case *ast.Number32Lit:
		trace.Lower("number32", "")
		return l.cg.MaterializeNumber32(n.Val), nil

	case *ast.Number64Lit:
		trace.Lower("number64", "")
		return l.cg.MaterializeNumber64(n.Val), nil

	case *ast.StrLit:
		trace.Lower("string", "")
		return l.cg.MaterializeString("str_val", n.Val), nil

	case *ast.BoolLit:
		trace.Lower("bool", "")
		return l.cg.MaterializeBool(n.Val), nil

	case *ast.VariableExpr:
		return l.lowerVariable(n)

	case *ast.BinaryExpr:
		return l.lowerBinary(n)

	case *ast.GroupingExpr:
		return l.Lower(n.Expr)

	case *ast.ListLit:
		return l.lowerList(n)

	case *ast.IndexGetExpr:
		return l.lowerIndexGet(n)

	case *ast.IndexSetStmt:
		return l.lowerIndexSet(n)

	case *ast.LetStmt:
		return l.lowerLet(n)

	case *ast.BlockStmt:
		return l.lowerBlock(n)

	case *ast.CallExpr:
		return l.lowerCall(n)

	case *ast.FuncDecl:
		return l.lowerFuncDecl(n)

	case *ast.IfStmt:
		return l.lowerIf(n)

	case *ast.WhileStmt:
		return l.lowerWhile(n)

	case *ast.ForStmt:
		return l.lowerFor(n)

	case *ast.PrintStmt:
		return l.lowerPrint(n)

	case *ast.ReturnStmt:
		return l.lowerReturn(n)

	default:
		return nil, types.NewError(types.ErrParse, "unknown node %T", node)
	}
}

func (l *Lowerer) lowerVariable(n *ast.VariableExpr) (types.Value, error) {
	trace.Lower("variable", n.Name)
	v, ok := l.vars.Get(n.Name)
	if !ok {
		return nil, types.NewError(types.ErrUnknownIdentifier, "unknown variable %s", n.Name)
	}
	return v, nil
}

func (l *Lowerer) lowerBinary(n *ast.BinaryExpr) (types.Value, error) {
	trace.Lower("binary", n.Op)
	lhs, err := l.Lower(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := l.Lower(n.RHS)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+", "-", "*", "/":
		return l.cg.Arithmetic(lhs, rhs, n.Op)
	case "==", "!=", "<", "<=", ">", ">=":
		return l.cg.Compare(lhs, rhs, n.Op)
	default:
		return nil, types.NewError(types.ErrUnsupportedOperator,
			"operator %s is not implemented", n.Op)
	}
}

func (l *Lowerer) lowerList(n *ast.ListLit) (types.Value, error) {
	trace.Lower("list", "")
	elems := make([]types.Value, len(n.Items))
	for i, item := range n.Items {
		v, err := l.Lower(item)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return l.cg.MaterializeList(elems)
}

func (l *Lowerer) lowerIndexGet(n *ast.IndexGetExpr) (types.Value, error) {
	trace.Lower("index", "")
	base, err := l.Lower(n.Base)
	if err != nil {
		return nil, err
	}
	list, ok := base.(types.ListValue)
	if !ok {
		return nil, types.NewError(types.ErrKindMismatch, "cannot index %s", base.Kind())
	}
	index, err := l.Lower(n.Index)
	if err != nil {
		return nil, err
	}
	return l.cg.IndexLoad(list, index)
}

func (l *Lowerer) lowerIndexSet(n *ast.IndexSetStmt) (types.Value, error) {
	trace.Lower("index_set", n.Name)
	base, ok := l.vars.Get(n.Name)
	if !ok {
		return nil, types.NewError(types.ErrUnknownIdentifier, "unknown variable %s", n.Name)
	}
	list, isList := base.(types.ListValue)
	if !isList {
		return nil, types.NewError(types.ErrKindMismatch, "cannot index %s", base.Kind())
	}

	rhs, err := l.Lower(n.RHS)
	if err != nil {
		return nil, err
	}
	index, err := l.Lower(n.Index)
	if err != nil {
		return nil, err
	}
	if err := l.cg.IndexStore(list, index, rhs); err != nil {
		return nil, err
	}
	return list, nil
}

// lowerLet binds a fresh name at the current depth, or assigns in place when
// the name is already bound. Assignment is kind-checked and writes through
// the existing stack slot; the binding is refreshed without re-recording its
// eviction depth, so an outer variable mutated inside a block survives the
// block's exit.
func (l *Lowerer) lowerLet(n *ast.LetStmt) (types.Value, error) {
	trace.Lower("let", n.Name)
	existing, bound := l.vars.Get(n.Name)

	rhs, err := l.Lower(n.RHS)
	if err != nil {
		return nil, err
	}

	if bound {
		assigned, err := l.cg.Assign(existing, rhs)
		if err != nil {
			return nil, err
		}
		l.vars.Update(n.Name, assigned)
		return assigned, nil
	}

	l.vars.Set(n.Name, rhs, l.depth)
	return rhs, nil
}

// lowerBlock increments depth, lowers each statement in order keeping the
// last result, evicts the block's locals and decrements. An empty block
// yields Void.
func (l *Lowerer) lowerBlock(n *ast.BlockStmt) (types.Value, error) {
	trace.Lower("block", "")
	l.depth++

	var last types.Value = types.VoidValue{}
	for _, stmt := range n.Stmts {
		v, err := l.Lower(stmt)
		if err != nil {
			return nil, err
		}
		last = v
	}

	l.vars.Evict(l.depth)
	l.depth--
	return last, nil
}

// lowerCall looks up the function binding, lowers arguments in call order,
// emits the call and wraps the result per the declared return kind. The
// result is additionally re-bound under the function's own name in the
// variable table.
func (l *Lowerer) lowerCall(n *ast.CallExpr) (types.Value, error) {
	trace.Lower("call", n.Name)
	bound, ok := l.funcs.Get(n.Name)
	if !ok {
		return nil, types.NewError(types.ErrUnknownIdentifier,
			"call does not exist for function %s", n.Name)
	}
	fn := bound.(types.FuncValue)

	rawArgs, err := l.lowerArgs(n.Args)
	if err != nil {
		return nil, err
	}

	raw := l.cg.Call(codegen.Function{Fn: fn.Fn, FnType: fn.FnType, RetKind: fn.RetKind}, rawArgs, "")
	result, err := l.cg.WrapCallResult(raw, fn.RetKind)
	if err != nil {
		return nil, err
	}

	l.vars.Set(n.Name, result, l.depth)
	trace.Result("call", result.Kind())
	return result, nil
}

func (l *Lowerer) lowerPrint(n *ast.PrintStmt) (types.Value, error) {
	trace.Lower("print", "")
	v, err := l.Lower(n.Expr)
	if err != nil {
		return nil, err
	}
	if err := l.cg.Print(v); err != nil {
		return nil, err
	}
	// Print passes its operand through unchanged
	return v, nil
}

func (l *Lowerer) lowerReturn(n *ast.ReturnStmt) (types.Value, error) {
	trace.Lower("return", "")
	v, err := l.Lower(n.Expr)
	if err != nil {
		return nil, err
	}
	l.cg.Ret(l.cg.CurrentValue(v))
	return types.ReturnValue{}, nil
}

// lowerFuncDecl builds the backend routine, binds parameters at body depth,
// lowers the body and seals the final block with an implicit terminator when
// it is not already terminated. The function binding lives in its own table,
// so a variable and a function may share a name.
func (l *Lowerer) lowerFuncDecl(n *ast.FuncDecl) (types.Value, error) {
	trace.Lower("func", n.Name)

	paramKinds := make([]types.Kind, len(n.Params))
	for i, p := range n.Params {
		k, ok := types.KindFromName(p.Type)
		if !ok {
			return nil, types.NewError(types.ErrKindMismatch,
				"function %s: unknown parameter type %q", n.Name, p.Type)
		}
		paramKinds[i] = k
	}
	retKind, ok := types.KindFromName(n.Return)
	if !ok {
		return nil, types.NewError(types.ErrUnsupportedReturnKind,
			"function %s: unknown return type %q", n.Name, n.Return)
	}

	fn, prev, err := l.cg.StartFunction(n.Name, paramKinds, retKind)
	if err != nil {
		return nil, err
	}

	l.depth++
	for i, p := range n.Params {
		pv, err := l.cg.MaterializeParam(l.cg.Param(fn, i), paramKinds[i], p.Name)
		if err != nil {
			return nil, err
		}
		l.vars.Set(p.Name, pv, l.depth)
	}

	if _, err := l.Lower(n.Body); err != nil {
		return nil, err
	}
	// Seal lazily: the body may have ended in its own return, or left an
	// open merge block behind a returning if/else
	if !l.cg.BlockTerminated() {
		if retKind == types.KindVoid {
			l.cg.RetVoid()
		} else {
			l.cg.Ret(l.cg.ConstZero(retKind))
		}
	}

	l.vars.Evict(l.depth)
	l.depth--
	l.cg.EndFunction(prev)

	fv := types.NewFunc(n.Name, fn.Fn, fn.FnType, retKind)
	l.funcs.Set(n.Name, fv, l.depth)
	l.cg.RegisterFunc(n.Name, fn)
	return fv, nil
}

func (l *Lowerer) lowerArgs(nodes []ast.Node) ([]llvm.Value, error) {
	args := make([]llvm.Value, 0, len(nodes))
	for _, arg := range nodes {
		v, err := l.Lower(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, l.cg.CurrentValue(v))
	}
	return args, nil
}
