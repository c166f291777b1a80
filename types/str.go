package types

import "tinygo.org/x/go-llvm"

// StringValue is an immutable string constant.
// The backend value is the constant array; Slot holds the i8* view of it.
// Content mirrors the literal text so literal+literal concatenation can be
// folded at lowering time; there is no runtime mutation.
type StringValue struct {
	Name    string
	Val     llvm.Value
	Slot    llvm.Value
	Content string
}

// Kind returns the kind tag for strings
func (s StringValue) Kind() Kind {
	return KindString
}

// LLVM returns the materialized backend value
func (s StringValue) LLVM() llvm.Value {
	return s.Val
}

// Ptr returns the i8* pointer to the string bytes
func (s StringValue) Ptr() llvm.Value {
	return s.Slot
}

// Len returns the byte length of the string content
func (s StringValue) Len() int {
	return len(s.Content)
}

// NewString creates a string value over a materialized constant
func NewString(name string, val, ptr llvm.Value, content string) StringValue {
	return StringValue{Name: name, Val: val, Slot: ptr, Content: content}
}
