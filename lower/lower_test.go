package lower

import (
	"strings"
	"testing"

	"kiln/ast"
	"kiln/codegen"
	"kiln/config"
	"kiln/types"
)

// newTestLowerer builds a fresh backend and lowerer and registers cleanup.
// Tests lower and inspect IR; nothing here executes the module.
func newTestLowerer(t *testing.T) *Lowerer {
	t.Helper()
	cg, err := codegen.New(config.Default())
	if err != nil {
		t.Fatalf("backend init: %v", err)
	}
	t.Cleanup(cg.Dispose)
	return New(cg)
}

func num32(v int32) ast.Node { return &ast.Number32Lit{Val: v} }
func num64(v int64) ast.Node { return &ast.Number64Lit{Val: v} }
func str(v string) ast.Node  { return &ast.StrLit{Val: v} }
func boolean(v bool) ast.Node { return &ast.BoolLit{Val: v} }

func wantCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	got, ok := types.CodeOf(err)
	if !ok || got != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestLiteralKinds(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		kind types.Kind
	}{
		{"number32", num32(1), types.KindNumber32},
		{"number64", num64(1), types.KindNumber64},
		{"string", str("hi"), types.KindString},
		{"bool", boolean(true), types.KindBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLowerer(t)
			v, err := l.Lower(tt.node)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("kind = %s, expected %s", v.Kind(), tt.kind)
			}
		})
	}
}

func TestMixedWidthWidens(t *testing.T) {
	l := newTestLowerer(t)
	v, err := l.Lower(&ast.BinaryExpr{Op: "+", LHS: num32(1), RHS: num64(2)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v.Kind() != types.KindNumber64 {
		t.Errorf("mixed-width result kind = %s, expected i64", v.Kind())
	}
	ir := l.Builder().IR()
	if !strings.Contains(ir, "sext") {
		t.Error("IR should sign-extend the narrow side")
	}
	if strings.Contains(ir, "trunc") {
		t.Error("IR should never narrow the wide side")
	}
}

func TestArithmeticKindMismatch(t *testing.T) {
	l := newTestLowerer(t)
	_, err := l.Lower(&ast.BinaryExpr{Op: "+", LHS: num32(1), RHS: boolean(true)})
	wantCode(t, err, types.ErrKindMismatch)
}

func TestCaretUnsupported(t *testing.T) {
	l := newTestLowerer(t)
	_, err := l.Lower(&ast.BinaryExpr{Op: "^", LHS: num32(2), RHS: num32(3)})
	wantCode(t, err, types.ErrUnsupportedOperator)
}

func TestStringConcatStripsQuotes(t *testing.T) {
	l := newTestLowerer(t)
	v, err := l.Lower(&ast.BinaryExpr{Op: "+", LHS: str(`say "hi"`), RHS: str(" now")})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s, ok := v.(types.StringValue)
	if !ok {
		t.Fatalf("result is %s, expected string", v.Kind())
	}
	if s.Content != "say hi now" {
		t.Errorf("content = %q, expected quotes stripped", s.Content)
	}
}

func TestStringOrderingUnsupported(t *testing.T) {
	l := newTestLowerer(t)
	_, err := l.Lower(&ast.BinaryExpr{Op: "<", LHS: str("a"), RHS: str("b")})
	wantCode(t, err, types.ErrUnsupportedOperator)
}

func TestUnknownVariable(t *testing.T) {
	l := newTestLowerer(t)
	_, err := l.Lower(&ast.VariableExpr{Name: "ghost"})
	wantCode(t, err, types.ErrUnknownIdentifier)
}

func TestLetBindsAndReassigns(t *testing.T) {
	l := newTestLowerer(t)
	if _, err := l.Lower(&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(1)}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := l.Lower(&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(7)}); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	v, err := l.Lower(&ast.VariableExpr{Name: "x"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if v.Kind() != types.KindNumber32 {
		t.Errorf("x kind = %s", v.Kind())
	}
}

func TestReassignKindMismatch(t *testing.T) {
	l := newTestLowerer(t)
	if _, err := l.Lower(&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(1)}); err != nil {
		t.Fatal(err)
	}
	_, err := l.Lower(&ast.LetStmt{Name: "x", Type: "bool", RHS: boolean(true)})
	wantCode(t, err, types.ErrKindMismatch)
}

func TestBlockEvictsLocals(t *testing.T) {
	l := newTestLowerer(t)
	block := &ast.BlockStmt{Stmts: []ast.Node{
		&ast.LetStmt{Name: "inner", Type: "i32", RHS: num32(1)},
	}}
	if _, err := l.Lower(block); err != nil {
		t.Fatal(err)
	}
	_, err := l.Lower(&ast.VariableExpr{Name: "inner"})
	wantCode(t, err, types.ErrUnknownIdentifier)
}

func TestAssignInsideBlockKeepsOuterBinding(t *testing.T) {
	l := newTestLowerer(t)
	if _, err := l.Lower(&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(1)}); err != nil {
		t.Fatal(err)
	}
	block := &ast.BlockStmt{Stmts: []ast.Node{
		&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(2)},
	}}
	if _, err := l.Lower(block); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Lower(&ast.VariableExpr{Name: "x"}); err != nil {
		t.Errorf("x should survive the block that assigned it: %v", err)
	}
}

func TestEmptyBlockIsVoid(t *testing.T) {
	l := newTestLowerer(t)
	v, err := l.Lower(&ast.BlockStmt{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != types.KindVoid {
		t.Errorf("empty block kind = %s, expected void", v.Kind())
	}
}

func TestCallUnknownFunction(t *testing.T) {
	l := newTestLowerer(t)
	_, err := l.Lower(&ast.CallExpr{Name: "missing"})
	wantCode(t, err, types.ErrUnknownIdentifier)
	if !strings.Contains(err.Error(), "call does not exist for function missing") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFuncDeclAndCall(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a", Type: "i32"}, {Name: "b", Type: "i32"}},
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.ReturnStmt{Expr: &ast.BinaryExpr{
				Op:  "+",
				LHS: &ast.VariableExpr{Name: "a"},
				RHS: &ast.VariableExpr{Name: "b"},
			}},
		}},
	}
	fv, err := l.Lower(decl)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if fv.Kind() != types.KindFunc {
		t.Errorf("declaration kind = %s, expected func", fv.Kind())
	}

	v, err := l.Lower(&ast.CallExpr{Name: "add", Args: []ast.Node{num32(2), num32(3)}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if v.Kind() != types.KindNumber32 {
		t.Errorf("call result kind = %s, expected i32", v.Kind())
	}

	// Result is also re-bound under the function's name
	if _, err := l.Lower(&ast.VariableExpr{Name: "add"}); err != nil {
		t.Errorf("call result should be bound under the function name: %v", err)
	}

	ir := l.Builder().IR()
	if !strings.Contains(ir, "define i32 @add") {
		t.Errorf("IR missing the add definition:\n%s", ir)
	}
}

func TestStringReturnRejected(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "bad",
		Return: "string",
		Body:   &ast.BlockStmt{},
	}
	_, err := l.Lower(decl)
	wantCode(t, err, types.ErrUnsupportedReturnKind)
}

func TestImplicitZeroReturn(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "zero",
		Return: "i32",
		Body:   &ast.BlockStmt{},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(l.Builder().IR(), "ret i32 0") {
		t.Error("function without a trailing return should return zero")
	}
}

func TestBodyEndingInReturnGetsNoSecondTerminator(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "one",
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.ReturnStmt{Expr: num32(1)},
		}},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}
	ir := l.Builder().IR()
	if strings.Count(ir, "ret i32") != 1 {
		t.Errorf("expected exactly one return in:\n%s", ir)
	}
}

// assertBlocksSingleTerminator scans textual IR and fails if any basic block
// carries an instruction after its terminator. Labels and definition headers
// are unindented; instructions are indented.
func assertBlocksSingleTerminator(t *testing.T, ir string) {
	t.Helper()
	terminated := false
	for _, line := range strings.Split(ir, "\n") {
		if !strings.HasPrefix(line, " ") {
			// label, define/declare header, or closing brace opens fresh state
			terminated = false
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if terminated {
			t.Fatalf("instruction %q after a terminator:\n%s", trimmed, ir)
		}
		if strings.HasPrefix(trimmed, "ret ") || trimmed == "ret void" ||
			strings.HasPrefix(trimmed, "br ") || trimmed == "unreachable" {
			terminated = true
		}
	}
}

// A statement after an if whose branches both return is unreachable but
// valid; it must land in the open merge block, before the implicit
// terminator, never after one.
func TestStatementAfterBothBranchesReturn(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "pick",
		Params: []ast.Param{{Name: "c", Type: "bool"}},
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.IfStmt{
				Cond: &ast.VariableExpr{Name: "c"},
				Then: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(1)}}},
				Else: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(2)}}},
			},
			&ast.PrintStmt{Expr: num32(5)},
		}},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}

	ir := l.Builder().IR()
	assertBlocksSingleTerminator(t, ir)
	// then, else, and the sealed merge block
	if got := strings.Count(ir, "ret i32"); got != 3 {
		t.Errorf("expected 3 returns in pick, got %d:\n%s", got, ir)
	}
}

// Both branches returning with no trailing statement leaves merge empty; the
// function sealing still terminates it.
func TestBothBranchesReturnSealsMerge(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "flip",
		Params: []ast.Param{{Name: "c", Type: "bool"}},
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.IfStmt{
				Cond: &ast.VariableExpr{Name: "c"},
				Then: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(1)}}},
				Else: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(2)}}},
			},
		}},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}
	assertBlocksSingleTerminator(t, l.Builder().IR())
}

// A returning if nested inside another branch leaves its merge open; the
// outer branch must still get a single well-placed edge to its own merge.
func TestNestedReturningIf(t *testing.T) {
	l := newTestLowerer(t)
	inner := &ast.IfStmt{
		Cond: &ast.VariableExpr{Name: "c"},
		Then: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(1)}}},
		Else: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(2)}}},
	}
	decl := &ast.FuncDecl{
		Name:   "nested",
		Params: []ast.Param{{Name: "c", Type: "bool"}},
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.IfStmt{
				Cond: &ast.VariableExpr{Name: "c"},
				Then: &ast.BlockStmt{Stmts: []ast.Node{inner}},
				Else: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(3)}}},
			},
		}},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}
	assertBlocksSingleTerminator(t, l.Builder().IR())
}

// A loop body consisting of a returning if must not strand the body block:
// the open merge gets the back-branch, never a dangling end.
func TestLoopBodyEndingInReturningIf(t *testing.T) {
	l := newTestLowerer(t)
	decl := &ast.FuncDecl{
		Name:   "first",
		Params: []ast.Param{{Name: "c", Type: "bool"}},
		Return: "i32",
		Body: &ast.BlockStmt{Stmts: []ast.Node{
			&ast.ForStmt{
				Var: "i", Init: 0, Bound: 3, Step: 1,
				Body: &ast.BlockStmt{Stmts: []ast.Node{
					&ast.IfStmt{
						Cond: &ast.VariableExpr{Name: "c"},
						Then: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: &ast.VariableExpr{Name: "i"}}}},
						Else: &ast.BlockStmt{Stmts: []ast.Node{&ast.ReturnStmt{Expr: num32(-1)}}},
					},
				}},
			},
		}},
	}
	if _, err := l.Lower(decl); err != nil {
		t.Fatal(err)
	}
	assertBlocksSingleTerminator(t, l.Builder().IR())
}

func TestIfShape(t *testing.T) {
	l := newTestLowerer(t)
	stmt := &ast.IfStmt{
		Cond: boolean(true),
		Then: &ast.BlockStmt{Stmts: []ast.Node{&ast.PrintStmt{Expr: num32(1)}}},
	}
	if _, err := l.Lower(stmt); err != nil {
		t.Fatal(err)
	}
	ir := l.Builder().IR()
	for _, block := range []string{"then_block", "else_block", "merge_block"} {
		if !strings.Contains(ir, block) {
			t.Errorf("IR missing %s:\n%s", block, ir)
		}
	}
}

func TestIfCondMustBeBool(t *testing.T) {
	l := newTestLowerer(t)
	stmt := &ast.IfStmt{Cond: num32(1), Then: &ast.BlockStmt{}}
	_, err := l.Lower(stmt)
	wantCode(t, err, types.ErrKindMismatch)
}

func TestWhileShape(t *testing.T) {
	l := newTestLowerer(t)
	if _, err := l.Lower(&ast.LetStmt{Name: "flag", Type: "bool", RHS: boolean(false)}); err != nil {
		t.Fatal(err)
	}
	stmt := &ast.WhileStmt{
		Cond: &ast.VariableExpr{Name: "flag"},
		Body: &ast.BlockStmt{Stmts: []ast.Node{&ast.PrintStmt{Expr: num32(1)}}},
	}
	if _, err := l.Lower(stmt); err != nil {
		t.Fatal(err)
	}
	ir := l.Builder().IR()
	for _, want := range []string{"while_value_bool_var", "loop_cond", "loop_body", "loop_exit"} {
		if !strings.Contains(ir, want) {
			t.Errorf("IR missing %s:\n%s", want, ir)
		}
	}
}

func TestWhileCondMustBeBool(t *testing.T) {
	l := newTestLowerer(t)
	stmt := &ast.WhileStmt{Cond: num32(1), Body: &ast.BlockStmt{}}
	_, err := l.Lower(stmt)
	wantCode(t, err, types.ErrKindMismatch)
}

func TestForComparePredicate(t *testing.T) {
	tests := []struct {
		name string
		step int32
		want string
	}{
		{"up", 1, "icmp slt"},
		{"down", -1, "icmp sgt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLowerer(t)
			stmt := &ast.ForStmt{
				Var: "i", Init: 0, Bound: 5, Step: tt.step,
				Body: &ast.BlockStmt{Stmts: []ast.Node{&ast.PrintStmt{Expr: &ast.VariableExpr{Name: "i"}}}},
			}
			if _, err := l.Lower(stmt); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(l.Builder().IR(), tt.want) {
				t.Errorf("step %d should compare with %s", tt.step, tt.want)
			}
		})
	}
}

func TestListIndexKinds(t *testing.T) {
	l := newTestLowerer(t)
	list := &ast.ListLit{Items: []ast.Node{num32(10), num32(20)}}
	if _, err := l.Lower(&ast.LetStmt{Name: "l", Type: "list", RHS: list}); err != nil {
		t.Fatal(err)
	}

	v, err := l.Lower(&ast.IndexGetExpr{
		Base:  &ast.VariableExpr{Name: "l"},
		Index: num32(1),
	})
	if err != nil {
		t.Fatalf("index read: %v", err)
	}
	if v.Kind() != types.KindNumber32 {
		t.Errorf("element kind = %s, expected i32", v.Kind())
	}

	// Element writes are kind-checked
	_, err = l.Lower(&ast.IndexSetStmt{Name: "l", Index: num32(0), RHS: boolean(true)})
	wantCode(t, err, types.ErrKindMismatch)
}

func TestHeterogeneousListRejected(t *testing.T) {
	l := newTestLowerer(t)
	list := &ast.ListLit{Items: []ast.Node{num32(1), boolean(true)}}
	_, err := l.Lower(list)
	wantCode(t, err, types.ErrKindMismatch)
}

func TestIndexNonList(t *testing.T) {
	l := newTestLowerer(t)
	if _, err := l.Lower(&ast.LetStmt{Name: "x", Type: "i32", RHS: num32(1)}); err != nil {
		t.Fatal(err)
	}
	_, err := l.Lower(&ast.IndexGetExpr{
		Base:  &ast.VariableExpr{Name: "x"},
		Index: num32(0),
	})
	wantCode(t, err, types.ErrKindMismatch)
}

func TestGroupingPassesThrough(t *testing.T) {
	l := newTestLowerer(t)
	v, err := l.Lower(&ast.GroupingExpr{Expr: num32(9)})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != types.KindNumber32 {
		t.Errorf("kind = %s, expected i32", v.Kind())
	}
}

func TestPrintPassesOperandThrough(t *testing.T) {
	l := newTestLowerer(t)
	v, err := l.Lower(&ast.PrintStmt{Expr: str("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != types.KindString {
		t.Errorf("print result kind = %s, expected the operand's", v.Kind())
	}
}
