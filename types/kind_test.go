package types

import "testing"

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{KindNumber32, "i32"},
		{KindNumber64, "i64"},
		{KindBool, "bool"},
		{KindString, "string"},
		{KindList, "list"},
		{KindFunc, "func"},
		{KindVoid, "void"},
		{KindReturn, "return"},
	}

	for _, tt := range tests {
		if tt.kind.String() != tt.name {
			t.Errorf("Kind %d should stringify to %s, got %s", int(tt.kind), tt.name, tt.kind)
		}
	}
}

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		ok   bool
	}{
		{"i32", KindNumber32, true},
		{"i64", KindNumber64, true},
		{"bool", KindBool, true},
		{"string", KindString, true},
		{"list", KindList, true},
		{"void", KindVoid, true},
		{"", KindVoid, true}, // absent return type means void
		{"float", KindVoid, false},
		{"return", KindVoid, false},
	}

	for _, tt := range tests {
		kind, ok := KindFromName(tt.name)
		if ok != tt.ok {
			t.Errorf("KindFromName(%q) ok = %v, expected %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && kind != tt.kind {
			t.Errorf("KindFromName(%q) = %s, expected %s", tt.name, kind, tt.kind)
		}
	}
}

func TestNumeric(t *testing.T) {
	if !KindNumber32.Numeric() || !KindNumber64.Numeric() {
		t.Error("Number kinds should be numeric")
	}
	for _, k := range []Kind{KindBool, KindString, KindList, KindFunc, KindVoid, KindReturn} {
		if k.Numeric() {
			t.Errorf("%s should not be numeric", k)
		}
	}
}
