package codegen

import (
	"strings"
	"testing"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

func TestIdentResolutionOrder(t *testing.T) {
	t.Run("local shadows nothing else", func(t *testing.T) {
		c := newTestContext()
		fn := lowerFn(t, c, fnDecl("t", nil, nil,
			&ast.DeclAssign{Names: []string{"x"}, Exprs: []ast.Expr{intLit(1)}},
			ret(ident("x")),
		))
		if !fn.Sig.Ret.Equal(ir.Int(32)) {
			t.Fatalf("return type = %s, want i32", fn.Sig.Ret)
		}
	})

	t.Run("module function", func(t *testing.T) {
		c := newTestContext()
		declareVoidFns(c, "helper")
		fn := lowerFn(t, c, fnDecl("t", nil, nil,
			&ast.DeclAssign{Names: []string{"f"}, Exprs: []ast.Expr{ident("helper")}},
		))
		slot := fn.Lookup("f")
		if slot == nil {
			t.Fatal("binding missing")
		}
		elem := slot.Type().(*ir.PointerType).Elem
		if !IsFunctionKind(elem) {
			t.Fatalf("bound %s, want a function pointer", elem)
		}
	})

	t.Run("discard sink", func(t *testing.T) {
		c := newTestContext()
		lowerFn(t, c, fnDecl("t", args(param("x", namedType("int"))), nil,
			&ast.Assign{Target: ident("_"), Value: ident("x")},
		))
		g := c.Module.Global("_")
		if g == nil {
			t.Fatal("discard global not created on first reference")
		}
		if !g.Elem.Equal(ir.Int(8)) {
			t.Fatalf("discard type = %s, want i8", g.Elem)
		}
	})

	t.Run("unbound", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t", nil, nil, ret(ident("ghost"))))
		wantErrCode(t, err, errors.UnboundIdent)
	})
}

func TestDeclAssignDiagnostics(t *testing.T) {
	t.Run("reserved name", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t", nil, nil,
			&ast.DeclAssign{Names: []string{"while"}, Exprs: []ast.Expr{intLit(1)}},
		))
		wantErrCode(t, err, errors.ReservedIdent)
	})

	t.Run("duplicate local", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t", nil, nil,
			&ast.DeclAssign{Names: []string{"x"}, Exprs: []ast.Expr{intLit(1)}},
			&ast.DeclAssign{Names: []string{"x"}, Exprs: []ast.Expr{intLit(2)}},
		))
		wantErrCode(t, err, errors.DuplicateIdent)
	})

	t.Run("shadowing a module name", func(t *testing.T) {
		c := newTestContext()
		declareVoidFns(c, "helper")
		err := c.lowerFunction(fnDecl("t", nil, nil,
			&ast.DeclAssign{Names: []string{"helper"}, Exprs: []ast.Expr{intLit(1)}},
		))
		wantErrCode(t, err, errors.DuplicateIdent)
	})

	t.Run("declared type enforced", func(t *testing.T) {
		c := newTestContext()
		err := c.lowerFunction(fnDecl("t", nil, nil,
			&ast.DeclAssign{
				Names: []string{"x"},
				Type:  namedType("double"),
				Exprs: []ast.Expr{intLit(1)},
			},
		))
		wantErrCode(t, err, errors.TypeMismatch)
	})
}

func TestClosureCapture(t *testing.T) {
	c := newTestContext()

	// fn t(base: int) { let f = fn(): int { return base }; }
	fn := lowerFn(t, c, fnDecl("t",
		args(param("base", namedType("int"))), nil,
		&ast.DeclAssign{
			Names: []string{"f"},
			Exprs: []ast.Expr{&ast.Closure{
				Returns: typeList(namedType("int")),
				Body:    body(ret(ident("base"))),
			}},
		},
	))

	var closure *ir.Func
	for _, f := range c.Module.Funcs {
		if strings.HasPrefix(f.FuncName, "::closure") {
			closure = f
		}
	}
	if closure == nil {
		t.Fatal("closure function not emitted")
	}
	if closure.Params[0].Name() != ".env" {
		t.Fatalf("first closure param = %q, want .env", closure.Params[0].Name())
	}

	// the captured name resolves through .env: a field pointer plus load
	gep := findOp(closure, ir.OpGEP)
	if gep == nil || gep.Name() != "base" {
		t.Fatal("captured identifier should resolve through an env field pointer")
	}
	if findOp(closure, ir.OpLoad) == nil {
		t.Fatal("env field access must be followed by a load")
	}

	// the closure value in the outer function is the env-bound trampoline
	seen := map[string]bool{}
	for _, name := range callNames(fn) {
		seen[name] = true
	}
	for _, want := range []string{"llvm.init.trampoline", "llvm.adjust.trampoline"} {
		if !seen[want] {
			t.Fatalf("missing %s in closure binding", want)
		}
	}
}

func TestStructMemberAccess(t *testing.T) {
	c := newTestContext()
	if err := c.lowerStructure(&ast.Structure{
		Name: "Pair",
		Fields: []ast.Field{
			{Names: []string{"first", "second"}, Type: namedType("int")},
		},
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("field access", func(t *testing.T) {
		fn := lowerFn(t, c, fnDecl("t",
			args(param("p", ptrType("Pair"))), nil,
			ret(&ast.StructMember{Base: "p", Chain: []ast.MemberRef{{Name: "second"}}}),
		))
		gep := findOp(fn, ir.OpGEP)
		if gep == nil || gep.Index != 1 {
			t.Fatal("expected an element pointer at field index 1")
		}
		if !fn.Sig.Ret.Equal(ir.Int(32)) {
			t.Fatalf("return type = %s, want i32", fn.Sig.Ret)
		}
	})

	t.Run("no such member", func(t *testing.T) {
		err := c.lowerFunction(fnDecl("t2",
			args(param("p", ptrType("Pair"))), nil,
			ret(&ast.StructMember{Base: "p", Chain: []ast.MemberRef{{Name: "third"}}}),
		))
		wantErrCode(t, err, errors.NoSuchMember)
	})

	t.Run("not a struct", func(t *testing.T) {
		err := c.lowerFunction(fnDecl("t3",
			args(param("x", namedType("int"))), nil,
			ret(&ast.StructMember{Base: "x", Chain: []ast.MemberRef{{Name: "first"}}}),
		))
		wantErrCode(t, err, errors.NotAStruct)
	})

	t.Run("member function binds this", func(t *testing.T) {
		if err := c.lowerStructFunc(&ast.StructFunc{
			StructName: "Pair",
			Name:       "sum",
			Returns:    namedType("int"),
			Body:       body(ret(intLit(0))),
		}); err != nil {
			t.Fatal(err)
		}
		fn := lowerFn(t, c, fnDecl("t4",
			args(param("p", ptrType("Pair"))), nil,
			&ast.DeclAssign{
				Names: []string{"m"},
				Exprs: []ast.Expr{&ast.StructMember{
					Base: "p", Chain: []ast.MemberRef{{Name: "sum"}},
				}},
			},
		))
		named := false
		for _, blk := range fn.Blocks {
			for _, in := range blk.Instrs {
				if in.Name() == "p.sum" {
					named = true
				}
			}
		}
		if !named {
			t.Fatal("bound member should be renamed <lhs>.<member>")
		}
	})
}
