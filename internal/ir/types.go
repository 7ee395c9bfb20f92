// Package ir is a compact typed SSA intermediate representation: the
// surface the lowering core emits into. It provides named struct types,
// fixed-width integer and float types, pointer/array/function types, basic
// blocks, an instruction builder and a deterministic text printer. A native
// backend exposing the same operations can replace it wholesale.
package ir

import (
	"fmt"
	"strings"
)

// Type is the interface implemented by every IR type.
type Type interface {
	// String renders the type in the printer's syntax.
	String() string

	// Equal reports type equality. Named struct types are nominal; all
	// other types (and anonymous structs) compare structurally.
	Equal(other Type) bool
}

// VoidType is the absence of a value.
type VoidType struct{}

// IntType is a signed integer of a fixed bit width (1, 8, 16, 32, 64, 128).
type IntType struct {
	Bits int
}

// FloatType is a floating-point type of a fixed bit width (16, 32, 64).
type FloatType struct {
	Bits int
}

// PointerType points at a value of Elem type.
type PointerType struct {
	Elem Type
}

// ArrayType is a fixed-length sequence of Elem values.
type ArrayType struct {
	Elem Type
	Len  int
}

// StructType is a (possibly named) aggregate. Named structs are nominal:
// two named structs are the same type iff their names match.
type StructType struct {
	TypeName string
	Fields   []Type
}

// FuncType describes a callable: parameter types, return type, variadicity.
type FuncType struct {
	Params   []Type
	Ret      Type
	Variadic bool
}

// Void is the canonical void type.
var Void = &VoidType{}

// Int returns the integer type of the given width.
func Int(bits int) *IntType { return &IntType{Bits: bits} }

// Float returns the float type of the given width.
func Float(bits int) *FloatType { return &FloatType{Bits: bits} }

// Ptr returns the pointer type to elem.
func Ptr(elem Type) *PointerType { return &PointerType{Elem: elem} }

// ArrayOf returns the array type [n x elem].
func ArrayOf(elem Type, n int) *ArrayType { return &ArrayType{Elem: elem, Len: n} }

// StructOf returns an anonymous struct of the given field types.
func StructOf(fields ...Type) *StructType { return &StructType{Fields: fields} }

// FuncOf returns the function type params -> ret.
func FuncOf(ret Type, params []Type, variadic bool) *FuncType {
	return &FuncType{Params: params, Ret: ret, Variadic: variadic}
}

func (*VoidType) String() string { return "void" }

func (t *IntType) String() string { return fmt.Sprintf("i%d", t.Bits) }

func (t *FloatType) String() string {
	switch t.Bits {
	case 16:
		return "half"
	case 64:
		return "double"
	default:
		return "float"
	}
}

func (t *PointerType) String() string { return t.Elem.String() + "*" }

func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.String())
}

func (t *StructType) String() string {
	if t.TypeName != "" {
		return "%" + quoteName(t.TypeName)
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (t *FuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	if t.Variadic {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("%s (%s)", t.Ret.String(), strings.Join(parts, ", "))
}

func (*VoidType) Equal(other Type) bool {
	_, ok := other.(*VoidType)
	return ok
}

func (t *IntType) Equal(other Type) bool {
	o, ok := other.(*IntType)
	return ok && o.Bits == t.Bits
}

func (t *FloatType) Equal(other Type) bool {
	o, ok := other.(*FloatType)
	return ok && o.Bits == t.Bits
}

func (t *PointerType) Equal(other Type) bool {
	o, ok := other.(*PointerType)
	return ok && t.Elem.Equal(o.Elem)
}

func (t *ArrayType) Equal(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && o.Len == t.Len && t.Elem.Equal(o.Elem)
}

func (t *StructType) Equal(other Type) bool {
	o, ok := other.(*StructType)
	if !ok {
		return false
	}
	if t.TypeName != "" || o.TypeName != "" {
		return t.TypeName == o.TypeName
	}
	if len(t.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if !f.Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}

func (t *FuncType) Equal(other Type) bool {
	o, ok := other.(*FuncType)
	if !ok || o.Variadic != t.Variadic || len(o.Params) != len(t.Params) {
		return false
	}
	if !t.Ret.Equal(o.Ret) {
		return false
	}
	for i, p := range t.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// IsInt reports whether t is an integer type.
func IsInt(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

// IsFloat reports whether t is a floating-point type.
func IsFloat(t Type) bool {
	_, ok := t.(*FloatType)
	return ok
}

// PrimitiveBits returns the bit width of an integer or float type, 0 for
// anything else.
func PrimitiveBits(t Type) int {
	switch t := t.(type) {
	case *IntType:
		return t.Bits
	case *FloatType:
		return t.Bits
	}
	return 0
}

// quoteName quotes a type/value name when it contains characters outside
// the plain identifier set.
func quoteName(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') {
			continue
		}
		return `"` + name + `"`
	}
	return name
}
