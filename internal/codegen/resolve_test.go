package codegen

import (
	"testing"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

func TestResolveBasicTypes(t *testing.T) {
	c := newTestContext()
	tests := []struct {
		name string
		want ir.Type
	}{
		{name: "void", want: ir.Void},
		{name: "bool", want: ir.Int(1)},
		{name: "char", want: ir.Int(8)},
		{name: "short", want: ir.Int(16)},
		{name: "int", want: ir.Int(32)},
		{name: "int64", want: ir.Int(64)},
		{name: "int128", want: ir.Int(128)},
		{name: "half", want: ir.Float(16)},
		{name: "float", want: ir.Float(32)},
		{name: "double", want: ir.Float(64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveType(namedType(tt.name))
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ResolveType(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveCompoundTypes(t *testing.T) {
	c := newTestContext()

	t.Run("pointer levels", func(t *testing.T) {
		got, err := c.ResolveType(&ast.TypeRef{
			Kind: ast.TypePointer, Elem: namedType("int"), PtrLevels: 2,
		})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(ir.Ptr(ir.Ptr(ir.Int(32)))) {
			t.Fatalf("got %s, want i32**", got)
		}
	})

	t.Run("array", func(t *testing.T) {
		got, err := c.ResolveType(&ast.TypeRef{
			Kind: ast.TypeArray, ArrayLen: 4, Elem: namedType("char"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(ir.ArrayOf(ir.Int(8), 4)) {
			t.Fatalf("got %s, want [4 x i8]", got)
		}
	})

	t.Run("function type decays in value position", func(t *testing.T) {
		got, err := c.ResolveValueType(fnTypeRef("int"))
		if err != nil {
			t.Fatal(err)
		}
		want := ir.Ptr(ir.FuncOf(ir.Int(32), nil, false))
		if !got.Equal(want) {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("alias", func(t *testing.T) {
		if err := c.lowerAlias(&ast.Alias{Name: "Handle", Type: ptrType("char")}); err != nil {
			t.Fatal(err)
		}
		got, err := c.ResolveType(namedType("Handle"))
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(ir.Ptr(ir.Int(8))) {
			t.Fatalf("got %s, want i8*", got)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := c.ResolveType(namedType("Ghost"))
		wantErrCode(t, err, errors.UnknownType)
	})
}

func TestReturnTypeFolding(t *testing.T) {
	c := newTestContext()

	t.Run("absent is void", func(t *testing.T) {
		got, err := c.ReturnType(nil, parsePos{})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(ir.Void) {
			t.Fatalf("got %s, want void", got)
		}
	})

	t.Run("several become an anonymous struct", func(t *testing.T) {
		got, err := c.ReturnType(typeList(namedType("int"), namedType("double")), parsePos{})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(ir.StructOf(ir.Int(32), ir.Float(64))) {
			t.Fatalf("got %s, want { i32, double }", got)
		}
	})

	t.Run("variadic rejected", func(t *testing.T) {
		_, err := c.ReturnType(&ast.TypeList{
			Types: []*ast.TypeRef{namedType("int")}, Variadic: true,
		}, parsePos{})
		wantErrCode(t, err, errors.VariadicInReturn)
	})
}

func TestTypeNamePrintable(t *testing.T) {
	tests := []struct {
		t    ir.Type
		want string
	}{
		{t: ir.Int(1), want: "bool"},
		{t: ir.Int(8), want: "char"},
		{t: ir.Int(32), want: "int"},
		{t: ir.Int(128), want: "int128"},
		{t: ir.Float(16), want: "half"},
		{t: ir.Float(64), want: "double"},
		{t: ir.Ptr(ir.Int(8)), want: "char*"},
		{t: ir.Ptr(ir.Ptr(ir.Int(32))), want: "int**"},
		{t: &ir.StructType{TypeName: "Pair"}, want: "Pair"},
		{t: &ir.StructType{TypeName: "interface::I"}, want: "I"},
		{t: ir.Ptr(&ir.StructType{TypeName: "interface::I"}), want: "I*"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.t); got != tt.want {
			t.Errorf("TypeName(%s) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestVariableLengthArrayConvention(t *testing.T) {
	c := newTestContext()
	vla := ir.StructOf(ir.Int(32), ir.ArrayOf(ir.Int(8), 0))
	if !c.IsVariableLengthArray(vla) {
		t.Error("expected {int, [0 x i8]} to read as a VLA")
	}
	notVLA := ir.StructOf(ir.Int(64), ir.ArrayOf(ir.Int(8), 0))
	if c.IsVariableLengthArray(notVLA) {
		t.Error("length field must be int")
	}
}

func TestStructKindHelpers(t *testing.T) {
	pair := &ir.StructType{TypeName: "Pair", Fields: []ir.Type{ir.Int(32)}}
	if _, ok := IsStructKind(pair); !ok {
		t.Error("struct should be struct kind")
	}
	if _, ok := IsStructKind(ir.Ptr(pair)); !ok {
		t.Error("pointer to struct should be struct kind")
	}
	if _, ok := IsStructKind(ir.Ptr(ir.Int(32))); ok {
		t.Error("pointer to int is not struct kind")
	}
	if got := Underlying(ir.Ptr(ir.Ptr(pair))); !got.Equal(pair) {
		t.Errorf("Underlying = %s, want Pair", got)
	}
}
