package types

import "tinygo.org/x/go-llvm"

// ListValue is a fixed-length homogeneous array.
// The element type is inferred from the first literal element. Indexed reads
// and writes go through computed offsets; there is no bounds checking.
type ListValue struct {
	Name     string
	Val      llvm.Value
	Slot     llvm.Value
	ElemKind Kind
	ElemType llvm.Type
	ArrType  llvm.Type
	Count    int
}

// Kind returns the kind tag for lists
func (l ListValue) Kind() Kind {
	return KindList
}

// LLVM returns the materialized backend array constant
func (l ListValue) LLVM() llvm.Value {
	return l.Val
}

// Ptr returns the stack slot holding the array
func (l ListValue) Ptr() llvm.Value {
	return l.Slot
}

// NewList creates a stack-resident fixed-length list
func NewList(name string, val, slot llvm.Value, elemKind Kind, elemType, arrType llvm.Type, count int) ListValue {
	return ListValue{
		Name:     name,
		Val:      val,
		Slot:     slot,
		ElemKind: elemKind,
		ElemType: elemType,
		ArrType:  arrType,
		Count:    count,
	}
}
