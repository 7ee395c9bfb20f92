package codegen

import (
	"testing"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// declareIface lowers `interface I { fn(): int foo }`.
func declareIface(t *testing.T, c *Context) {
	t.Helper()
	err := c.lowerInterface(&ast.Interface{
		Name:  "I",
		Funcs: []ast.IfaceFunc{{Name: "foo", Type: fnTypeRef("int")}},
	})
	if err != nil {
		t.Fatalf("interface lowering: %v", err)
	}
}

// declareStructS lowers `struct S { x: int }` plus, when withFoo is set, a
// foo implementation returning 7.
func declareStructS(t *testing.T, c *Context, withFoo bool) {
	t.Helper()
	err := c.lowerStructure(&ast.Structure{
		Name:   "S",
		Fields: []ast.Field{{Names: []string{"x"}, Type: namedType("int")}},
	})
	if err != nil {
		t.Fatalf("structure lowering: %v", err)
	}
	if !withFoo {
		return
	}
	err = c.lowerStructFunc(&ast.StructFunc{
		StructName: "S",
		Name:       "foo",
		Returns:    namedType("int"),
		Body:       body(ret(intLit(7))),
	})
	if err != nil {
		t.Fatalf("member function lowering: %v", err)
	}
}

func TestInterfaceSynthesis(t *testing.T) {
	c := newTestContext()
	declareIface(t, c)

	st := c.Module.StructType("interface::I")
	if st == nil {
		t.Fatal("interface record type missing")
	}
	if len(st.Fields) != 1 {
		t.Fatalf("field count = %d, want 1", len(st.Fields))
	}
	want := ir.Ptr(ir.FuncOf(ir.Int(32), nil, false))
	if !st.Fields[0].Equal(want) {
		t.Fatalf("field 0 = %s, want %s", st.Fields[0], want)
	}
	if idx, ok := c.Env.FieldIndex("interface::I", "foo"); !ok || idx != 0 {
		t.Fatalf("foo index = %d/%v, want 0/true", idx, ok)
	}
}

func TestInterfaceInheritance(t *testing.T) {
	c := newTestContext()
	declareIface(t, c)

	err := c.lowerInterface(&ast.Interface{
		Name:     "J",
		Inherits: []ast.InterfaceParent{{Name: "I"}},
		Funcs:    []ast.IfaceFunc{{Name: "bar", Type: fnTypeRef("int")}},
	})
	if err != nil {
		t.Fatalf("inheriting interface: %v", err)
	}
	funcs, _ := c.Env.Interface("J")
	if len(funcs) != 2 || funcs[0].Name != "foo" || funcs[1].Name != "bar" {
		t.Fatalf("inherited slots = %v", funcs)
	}

	t.Run("cross-module parent", func(t *testing.T) {
		err := c.lowerInterface(&ast.Interface{
			Name:     "K",
			Inherits: []ast.InterfaceParent{{Name: "I", Scoped: true}},
		})
		wantErrCode(t, err, errors.NotImplemented)
	})

	t.Run("collision with inherited function", func(t *testing.T) {
		err := c.lowerInterface(&ast.Interface{
			Name:     "L",
			Inherits: []ast.InterfaceParent{{Name: "I"}},
			Funcs:    []ast.IfaceFunc{{Name: "foo", Type: fnTypeRef("int")}},
		})
		wantErrCode(t, err, errors.DuplicateInterfaceFunction)
	})
}

func TestInterfaceCast(t *testing.T) {
	c := newTestContext()
	declareIface(t, c)
	declareStructS(t, c, true)

	// fn t(s: *S) { let v = cast<*I>(s) }
	fn := lowerFn(t, c, fnDecl("t",
		args(param("s", ptrType("S"))), nil,
		&ast.DeclAssign{
			Names: []string{"v"},
			Exprs: []ast.Expr{&ast.Cast{Target: ptrType("I"), Value: ident("s")}},
		},
	))

	// exactly one interface record is stack-allocated and exactly one
	// function pointer is stored into field 0
	entry := fn.Entry()
	var record *ir.Instr
	stores := 0
	for _, in := range entry.Instrs {
		if in.Op == ir.OpAlloca && record == nil {
			if st, ok := in.Type().(*ir.PointerType).Elem.(*ir.StructType); ok &&
				st.TypeName == "interface::I" {
				record = in
			}
		}
		if in.Op == ir.OpStore {
			if gep, ok := in.Args[1].(*ir.Instr); ok && gep.Op == ir.OpGEP {
				if base, ok := gep.Args[0].(*ir.Instr); ok && base == record {
					stores++
					if gep.Index != 0 {
						t.Errorf("store index = %d, want 0", gep.Index)
					}
				}
			}
		}
	}
	if record == nil {
		t.Fatal("interface record not allocated")
	}
	if stores != 1 {
		t.Fatalf("vtable stores = %d, want 1", stores)
	}

	// the stored pointer comes from the trampoline of struct::S::foo
	calls := callNames(fn)
	wantTramp := map[string]bool{
		"__builtin_virtual_alloc": false, "llvm.init.trampoline": false,
		"llvm.adjust.trampoline": false, "__builtin_virtual_free": false,
	}
	for _, name := range calls {
		if _, ok := wantTramp[name]; ok {
			wantTramp[name] = true
		}
	}
	for name, seen := range wantTramp {
		if !seen {
			t.Errorf("missing trampoline call %s", name)
		}
	}
	if c.Module.Func("struct::S::foo") == nil {
		t.Fatal("member function struct::S::foo missing")
	}
}

func TestInterfaceCastDiagnostics(t *testing.T) {
	t.Run("missing method", func(t *testing.T) {
		c := newTestContext()
		declareIface(t, c)
		declareStructS(t, c, false)
		err := c.lowerFunction(fnDecl("t",
			args(param("s", ptrType("S"))), nil,
			&ast.DeclAssign{
				Names: []string{"v"},
				Exprs: []ast.Expr{&ast.Cast{Target: ptrType("I"), Value: ident("s")}},
			},
		))
		wantErrCode(t, err, errors.MissingMethod)
	})

	t.Run("signature mismatch", func(t *testing.T) {
		c := newTestContext()
		declareIface(t, c)
		declareStructS(t, c, false)
		err := c.lowerStructFunc(&ast.StructFunc{
			StructName: "S",
			Name:       "foo",
			Returns:    namedType("double"),
			Body:       body(ret(&ast.FloatLit{Value: 1})),
		})
		if err != nil {
			t.Fatalf("member function lowering: %v", err)
		}
		err = c.lowerFunction(fnDecl("t",
			args(param("s", ptrType("S"))), nil,
			&ast.DeclAssign{
				Names: []string{"v"},
				Exprs: []ast.Expr{&ast.Cast{Target: ptrType("I"), Value: ident("s")}},
			},
		))
		wantErrCode(t, err, errors.MethodSignatureMismatch)
	})
}

func TestInterfaceArgumentCast(t *testing.T) {
	c := newTestContext()
	declareIface(t, c)
	declareStructS(t, c, true)

	// fn takes(i: *interface::I); passing *S casts on the fly
	iface := c.Module.StructType("interface::I")
	c.Module.NewFunc("takes", ir.FuncOf(ir.Void, []ir.Type{ir.Ptr(iface)}, false))

	fn := lowerFn(t, c, fnDecl("t",
		args(param("s", ptrType("S"))), nil,
		callStmt("takes", ident("s")),
	))

	found := false
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.Op == ir.OpCall && in.Args[0].Name() == "takes" {
				arg := in.Args[1]
				if pt, ok := arg.Type().(*ir.PointerType); ok {
					if st, ok := pt.Elem.(*ir.StructType); ok && st.TypeName == "interface::I" {
						found = true
					}
				}
			}
		}
	}
	if !found {
		t.Fatal("argument was not cast to the interface record")
	}
}
