// Package types defines the closed set of runtime value variants the
// lowering engine manipulates, the kind tags that classify them, and the
// classified error the whole compile aborts with.
package types

// Kind tags every runtime value variant. The set is closed: lowering never
// invents a kind outside this enumeration.
type Kind int

const (
	KindNumber32 Kind = iota
	KindNumber64
	KindBool
	KindString
	KindList
	KindFunc
	KindVoid
	KindReturn
)

// String renders the kind as its surface type name
func (k Kind) String() string {
	switch k {
	case KindNumber32:
		return "i32"
	case KindNumber64:
		return "i64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindFunc:
		return "func"
	case KindVoid:
		return "void"
	case KindReturn:
		return "return"
	default:
		return "unknown"
	}
}

// KindFromName maps a surface type name to its kind tag
func KindFromName(name string) (Kind, bool) {
	switch name {
	case "i32":
		return KindNumber32, true
	case "i64":
		return KindNumber64, true
	case "bool":
		return KindBool, true
	case "string":
		return KindString, true
	case "list":
		return KindList, true
	case "void", "":
		return KindVoid, true
	default:
		return KindVoid, false
	}
}

// Numeric reports whether the kind is one of the integer widths
func (k Kind) Numeric() bool {
	return k == KindNumber32 || k == KindNumber64
}
