package codegen

import (
	"testing"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerCastExpr lowers `fn t(x: <from>) { let r = cast<to>(x) }` and
// returns the lowered function.
func lowerCastExpr(t *testing.T, c *Context, from, to *ast.TypeRef) *ir.Func {
	t.Helper()
	return lowerFn(t, c, fnDecl("t",
		args(param("x", from)), nil,
		&ast.DeclAssign{
			Names: []string{"r"},
			Exprs: []ast.Expr{&ast.Cast{Target: to, Value: ident("x")}},
		},
	))
}

func findOp(fn *ir.Func, op ir.Op) *ir.Instr {
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.Op == op {
				return in
			}
		}
	}
	return nil
}

func TestPrimitiveCasts(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		op   ir.Op
	}{
		{name: "int widens", from: "int", to: "int64", op: ir.OpZExt},
		{name: "int narrows", from: "int", to: "char", op: ir.OpTrunc},
		{name: "int to float", from: "int", to: "double", op: ir.OpSIToFP},
		{name: "float to int", from: "double", to: "int", op: ir.OpFPToSI},
		{name: "float narrows", from: "double", to: "float", op: ir.OpFPTrunc},
		{name: "float widens", from: "float", to: "double", op: ir.OpFPExt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext()
			fn := lowerCastExpr(t, c, namedType(tt.from), namedType(tt.to))
			if findOp(fn, tt.op) == nil {
				t.Fatalf("expected a %s instruction", tt.op)
			}
		})
	}
}

func TestSameWidthIntCastIsIdentity(t *testing.T) {
	c := newTestContext()
	fn := lowerCastExpr(t, c, namedType("int"), namedType("int"))
	for _, op := range []ir.Op{ir.OpZExt, ir.OpTrunc} {
		if findOp(fn, op) != nil {
			t.Fatalf("unexpected %s for a same-width cast", op)
		}
	}
}

func TestPointerBitCast(t *testing.T) {
	c := newTestContext()
	fn := lowerCastExpr(t, c, ptrType("int"), ptrType("int64"))
	cast := findOp(fn, ir.OpBitCast)
	if cast == nil {
		t.Fatal("expected a bitcast")
	}
	if !cast.Type().Equal(ir.Ptr(ir.Int(64))) {
		t.Fatalf("bitcast type = %s, want i64*", cast.Type())
	}
}

func TestUserDefinedStructCast(t *testing.T) {
	c := newTestContext()
	if err := c.lowerStructure(&ast.Structure{
		Name:   "Celsius",
		Fields: []ast.Field{{Names: []string{"deg"}, Type: namedType("int")}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.lowerStructure(&ast.Structure{
		Name:   "Kelvin",
		Fields: []ast.Field{{Names: []string{"deg"}, Type: namedType("int")}},
	}); err != nil {
		t.Fatal(err)
	}
	// fn (c: Celsius) operator Kelvin(): Kelvin
	err := c.lowerStructFunc(&ast.StructFunc{
		StructName: "Celsius",
		Op:         &ast.OpName{Type: namedType("Kelvin")},
		Returns:    namedType("Kelvin"),
		Body:       body(&ast.UnsupportedStmt{Feature: "stub"}),
	})
	// the stub body fails, but the operator function is already declared
	// under its canonical name
	if err == nil {
		t.Fatal("expected the stub body to fail")
	}
	caster := c.Module.Func("struct::Celsius::operator Kelvin")
	if caster == nil {
		t.Fatal("operator overload not named canonically")
	}

	// casting a Celsius pointer to Kelvin dispatches through the operator
	fn := lowerCastExpr(t, c, ptrType("Celsius"), namedType("Kelvin"))
	found := false
	for _, name := range callNames(fn) {
		if name == "struct::Celsius::operator Kelvin" {
			found = true
		}
	}
	if !found {
		t.Fatal("struct cast did not dispatch through the operator overload")
	}
}

func TestCastFailures(t *testing.T) {
	t.Run("char pointer to struct pointer", func(t *testing.T) {
		c := newTestContext()
		if err := c.lowerStructure(&ast.Structure{
			Name:   "MyStruct",
			Fields: []ast.Field{{Names: []string{"x"}, Type: namedType("int")}},
		}); err != nil {
			t.Fatal(err)
		}
		err := c.lowerFunction(fnDecl("t",
			args(param("p", ptrType("char"))), nil,
			&ast.DeclAssign{
				Names: []string{"r"},
				Exprs: []ast.Expr{&ast.Cast{Target: ptrType("MyStruct"), Value: ident("p")}},
			},
		))
		wantErrCode(t, err, errors.InvalidCast)
	})

	t.Run("char pointer to int", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t",
			args(param("p", ptrType("char"))), nil,
			&ast.DeclAssign{
				Names: []string{"r"},
				Exprs: []ast.Expr{&ast.Cast{Target: namedType("int"), Value: ident("p")}},
			},
		))
		wantErrCode(t, err, errors.NotImplemented)
	})

	t.Run("unknown target type", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t",
			args(param("x", namedType("int"))), nil,
			&ast.DeclAssign{
				Names: []string{"r"},
				Exprs: []ast.Expr{&ast.Cast{Target: namedType("Ghost"), Value: ident("x")}},
			},
		))
		wantErrCode(t, err, errors.UnknownType)
	})
}
