package codegen

import (
	"testing"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// newTestContext returns a lowering context over a fresh module.
func newTestContext() *Context {
	return NewContext(ir.NewModule("test"))
}

// declareVoidFns registers external void functions so call statements have
// something to resolve against.
func declareVoidFns(c *Context, names ...string) {
	for _, name := range names {
		c.Module.NewFunc(name, ir.FuncOf(ir.Void, nil, false))
	}
}

func namedType(name string) *ast.TypeRef {
	return &ast.TypeRef{Kind: ast.TypeNamed, Name: name}
}

func ptrType(name string) *ast.TypeRef {
	return &ast.TypeRef{Kind: ast.TypePointer, Elem: namedType(name), PtrLevels: 1}
}

func fnTypeRef(ret string) *ast.TypeRef {
	return &ast.TypeRef{
		Kind:      ast.TypeFn,
		FnReturns: &ast.TypeList{Types: []*ast.TypeRef{namedType(ret)}},
	}
}

func typeList(types ...*ast.TypeRef) *ast.TypeList {
	return &ast.TypeList{Types: types}
}

func args(params ...ast.Param) *ast.Args {
	return &ast.Args{Params: params}
}

func param(name string, t *ast.TypeRef) ast.Param {
	return ast.Param{Name: name, Type: t}
}

func body(stmts ...ast.Stmt) *ast.Body {
	return &ast.Body{Stmts: stmts}
}

func fnDecl(name string, params *ast.Args, returns *ast.TypeList, stmts ...ast.Stmt) *ast.Function {
	return &ast.Function{Name: name, Params: params, Returns: returns, Body: body(stmts...)}
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func call(callee string, argList ...ast.Expr) *ast.FuncCall {
	return &ast.FuncCall{
		Callees: []ast.Expr{ident(callee)},
		ArgPos:  []parsePos{{}},
		Args:    [][]ast.Expr{argList},
	}
}

func callStmt(callee string, argList ...ast.Expr) *ast.FuncCallStmt {
	return &ast.FuncCallStmt{Call: call(callee, argList...)}
}

func ret(values ...ast.Expr) *ast.Return { return &ast.Return{Values: values} }

func binary(op string, lhs, rhs ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: lhs, Right: rhs}
}

// lowerFn lowers one function declaration and returns the finalized IR
// function.
func lowerFn(t *testing.T, c *Context, decl *ast.Function) *ir.Func {
	t.Helper()
	if err := c.lowerFunction(decl); err != nil {
		t.Fatalf("lowering function %q: %v", decl.Name, err)
	}
	fn := c.Module.Func(decl.Name)
	if fn == nil {
		t.Fatalf("function %q missing from module", decl.Name)
	}
	return fn
}

// callNames lists the callee names of every call in the function, in
// block and instruction order.
func callNames(fn *ir.Func) []string {
	var names []string
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.Op == ir.OpCall {
				names = append(names, in.Args[0].Name())
			}
		}
	}
	return names
}

// opsOf lists the opcodes of a block's instructions.
func opsOf(blk *ir.Block) []string {
	var ops []string
	for _, in := range blk.Instrs {
		ops = append(ops, in.Op.String())
	}
	return ops
}

func wantErrCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got success", code)
	}
	if got := errors.CodeOf(err); got != code {
		t.Fatalf("expected %s error, got %s: %v", code, got, err)
	}
}
