package ast

import "testing"

func TestDecodeLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, n Node)
	}{
		{
			"number32",
			`{"node":"number32","val":42}`,
			func(t *testing.T, n Node) {
				lit, ok := n.(*Number32Lit)
				if !ok || lit.Val != 42 {
					t.Errorf("got %#v, expected Number32Lit{42}", n)
				}
			},
		},
		{
			"number64",
			`{"node":"number64","val":9000000000}`,
			func(t *testing.T, n Node) {
				lit, ok := n.(*Number64Lit)
				if !ok || lit.Val != 9000000000 {
					t.Errorf("got %#v, expected Number64Lit{9000000000}", n)
				}
			},
		},
		{
			"string",
			`{"node":"string","val":"hi"}`,
			func(t *testing.T, n Node) {
				lit, ok := n.(*StrLit)
				if !ok || lit.Val != "hi" {
					t.Errorf("got %#v, expected StrLit{hi}", n)
				}
			},
		},
		{
			"bool",
			`{"node":"bool","val":true}`,
			func(t *testing.T, n Node) {
				lit, ok := n.(*BoolLit)
				if !ok || !lit.Val {
					t.Errorf("got %#v, expected BoolLit{true}", n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := DecodeNode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, n)
		})
	}
}

func TestDecodeBinaryNesting(t *testing.T) {
	input := `{"node":"binary","op":"+",
		"lhs":{"node":"number32","val":1},
		"rhs":{"node":"binary","op":"*",
			"lhs":{"node":"number32","val":2},
			"rhs":{"node":"number32","val":3}}}`

	n, err := DecodeNode([]byte(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	outer, ok := n.(*BinaryExpr)
	if !ok || outer.Op != "+" {
		t.Fatalf("got %#v, expected outer + ", n)
	}
	inner, ok := outer.RHS.(*BinaryExpr)
	if !ok || inner.Op != "*" {
		t.Fatalf("got %#v, expected inner *", outer.RHS)
	}
}

func TestDecodeProgramForms(t *testing.T) {
	// Bare array of statements
	root, err := DecodeProgram([]byte(`[{"node":"print","expr":{"node":"number32","val":1}}]`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(root.Stmts) != 1 {
		t.Errorf("got %d statements, expected 1", len(root.Stmts))
	}

	// Explicit block node
	root, err = DecodeProgram([]byte(`{"node":"block","stmts":[{"node":"number32","val":1},{"node":"number32","val":2}]}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(root.Stmts) != 2 {
		t.Errorf("got %d statements, expected 2", len(root.Stmts))
	}

	// Single statement gets wrapped
	root, err = DecodeProgram([]byte(`{"node":"number32","val":1}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(root.Stmts) != 1 {
		t.Errorf("got %d statements, expected 1", len(root.Stmts))
	}
}

func TestDecodeFunc(t *testing.T) {
	input := `{"node":"func","name":"add","return":"i32",
		"params":[{"name":"a","type":"i32"},{"name":"b","type":"i32"}],
		"body":[{"node":"return","expr":{"node":"binary","op":"+",
			"lhs":{"node":"variable","name":"a"},
			"rhs":{"node":"variable","name":"b"}}}]}`

	n, err := DecodeNode([]byte(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fn, ok := n.(*FuncDecl)
	if !ok {
		t.Fatalf("got %#v, expected FuncDecl", n)
	}
	if fn.Name != "add" || fn.Return != "i32" {
		t.Errorf("decoded %s -> %s, expected add -> i32", fn.Name, fn.Return)
	}
	if len(fn.Params) != 2 || fn.Params[1].Name != "b" {
		t.Errorf("params = %#v, expected a, b", fn.Params)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Errorf("body has %d statements, expected 1", len(fn.Body.Stmts))
	}
}

func TestDecodeFor(t *testing.T) {
	input := `{"node":"for","var":"i","init":3,"bound":0,"step":-1,
		"body":[{"node":"print","expr":{"node":"variable","name":"i"}}]}`

	n, err := DecodeNode([]byte(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	loop, ok := n.(*ForStmt)
	if !ok {
		t.Fatalf("got %#v, expected ForStmt", n)
	}
	if loop.Var != "i" || loop.Init != 3 || loop.Bound != 0 || loop.Step != -1 {
		t.Errorf("decoded for(%s, %d, %d, %d), expected i, 3, 0, -1",
			loop.Var, loop.Init, loop.Bound, loop.Step)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown tag", `{"node":"lambda"}`},
		{"missing name", `{"node":"variable"}`},
		{"bad val", `{"node":"number32","val":"NaN"}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeNode([]byte(tt.input)); err == nil {
				t.Errorf("expected error for %s", tt.input)
			}
		})
	}
}
