package types

import "tinygo.org/x/go-llvm"

// Value is one runtime value flowing through lowering.
// Implementations are plain structs passed by value, so a symbol-table
// lookup hands back a structural copy, not a shared alias.
type Value interface {
	// Kind returns the variant's kind tag
	Kind() Kind
	// LLVM returns the materialized backend value
	LLVM() llvm.Value
	// Ptr returns the value's storage location, or a nil value when the
	// variant is not stack-resident
	Ptr() llvm.Value
}
