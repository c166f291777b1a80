package ast

import (
	"encoding/json"
	"fmt"
)

// JSON wire form for externally produced trees: every node is an object with
// a "node" tag plus node-specific fields, e.g.
//
//	{"node":"binary","op":"+","lhs":{"node":"number32","val":1},"rhs":{...}}
//
// A program is either a "block" node or a bare array of statements.

type jsonParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonNode struct {
	Node   string          `json:"node"`
	Val    json.RawMessage `json:"val"`
	Name   string          `json:"name"`
	Op     string          `json:"op"`
	Type   string          `json:"type"`
	Return string          `json:"return"`
	Var    string          `json:"var"`
	Init   int32           `json:"init"`
	Bound  int32           `json:"bound"`
	Step   int32           `json:"step"`
	LHS    *jsonNode       `json:"lhs"`
	RHS    *jsonNode       `json:"rhs"`
	Expr   *jsonNode       `json:"expr"`
	Cond   *jsonNode       `json:"cond"`
	Base   *jsonNode       `json:"base"`
	Index  *jsonNode       `json:"index"`
	Then   []*jsonNode     `json:"then"`
	Else   []*jsonNode     `json:"else"`
	Body   []*jsonNode     `json:"body"`
	Stmts  []*jsonNode     `json:"stmts"`
	Items  []*jsonNode     `json:"items"`
	Args   []*jsonNode     `json:"args"`
	Params []jsonParam     `json:"params"`
}

// DecodeProgram decodes a complete program into its top-level block.
// Accepts either a single "block" node or a bare JSON array of statements.
func DecodeProgram(data []byte) (*BlockStmt, error) {
	if len(data) > 0 && data[0] == '[' {
		var raws []*jsonNode
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode program: %w", err)
		}
		stmts, err := convertList(raws)
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	}

	node, err := DecodeNode(data)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*BlockStmt)
	if !ok {
		// Wrap a single statement so callers always get a block root
		return &BlockStmt{Stmts: []Node{node}}, nil
	}
	return block, nil
}

// DecodeNode decodes a single tagged node
func DecodeNode(data []byte) (Node, error) {
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return convert(&raw)
}

func convert(raw *jsonNode) (Node, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing node")
	}

	switch raw.Node {
	case "number32":
		var v int32
		if err := json.Unmarshal(raw.Val, &v); err != nil {
			return nil, fmt.Errorf("number32 val: %w", err)
		}
		return &Number32Lit{Val: v}, nil

	case "number64":
		var v int64
		if err := json.Unmarshal(raw.Val, &v); err != nil {
			return nil, fmt.Errorf("number64 val: %w", err)
		}
		return &Number64Lit{Val: v}, nil

	case "string":
		var v string
		if err := json.Unmarshal(raw.Val, &v); err != nil {
			return nil, fmt.Errorf("string val: %w", err)
		}
		return &StrLit{Val: v}, nil

	case "bool":
		var v bool
		if err := json.Unmarshal(raw.Val, &v); err != nil {
			return nil, fmt.Errorf("bool val: %w", err)
		}
		return &BoolLit{Val: v}, nil

	case "variable":
		if raw.Name == "" {
			return nil, fmt.Errorf("variable node missing name")
		}
		return &VariableExpr{Name: raw.Name}, nil

	case "binary":
		lhs, err := convert(raw.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := convert(raw.RHS)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: raw.Op, LHS: lhs, RHS: rhs}, nil

	case "grouping":
		inner, err := convert(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &GroupingExpr{Expr: inner}, nil

	case "list":
		items, err := convertList(raw.Items)
		if err != nil {
			return nil, err
		}
		return &ListLit{Items: items}, nil

	case "index":
		base, err := convert(raw.Base)
		if err != nil {
			return nil, err
		}
		index, err := convert(raw.Index)
		if err != nil {
			return nil, err
		}
		return &IndexGetExpr{Base: base, Index: index}, nil

	case "index_set":
		index, err := convert(raw.Index)
		if err != nil {
			return nil, err
		}
		rhs, err := convert(raw.RHS)
		if err != nil {
			return nil, err
		}
		return &IndexSetStmt{Name: raw.Name, Index: index, RHS: rhs}, nil

	case "let":
		rhs, err := convert(raw.RHS)
		if err != nil {
			return nil, err
		}
		return &LetStmt{Name: raw.Name, Type: raw.Type, RHS: rhs}, nil

	case "block":
		stmts, err := convertList(raw.Stmts)
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil

	case "call":
		args, err := convertList(raw.Args)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Name: raw.Name, Args: args}, nil

	case "func":
		body, err := convertBlock(raw.Body)
		if err != nil {
			return nil, err
		}
		params := make([]Param, len(raw.Params))
		for i, p := range raw.Params {
			params[i] = Param{Name: p.Name, Type: p.Type}
		}
		return &FuncDecl{Name: raw.Name, Params: params, Return: raw.Return, Body: body}, nil

	case "if":
		cond, err := convert(raw.Cond)
		if err != nil {
			return nil, err
		}
		then, err := convertBlock(raw.Then)
		if err != nil {
			return nil, err
		}
		stmt := &IfStmt{Cond: cond, Then: then}
		if raw.Else != nil {
			stmt.Else, err = convertBlock(raw.Else)
			if err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case "while":
		cond, err := convert(raw.Cond)
		if err != nil {
			return nil, err
		}
		body, err := convertBlock(raw.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil

	case "for":
		body, err := convertBlock(raw.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Var: raw.Var, Init: raw.Init, Bound: raw.Bound, Step: raw.Step, Body: body}, nil

	case "print":
		expr, err := convert(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Expr: expr}, nil

	case "return":
		expr, err := convert(raw.Expr)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Expr: expr}, nil

	default:
		return nil, fmt.Errorf("unknown node tag %q", raw.Node)
	}
}

func convertList(raws []*jsonNode) ([]Node, error) {
	nodes := make([]Node, len(raws))
	for i, raw := range raws {
		n, err := convert(raw)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func convertBlock(raws []*jsonNode) (*BlockStmt, error) {
	stmts, err := convertList(raws)
	if err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}
