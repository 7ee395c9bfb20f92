package codegen

import (
	"fmt"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerFunction lowers a free function declaration.
func (c *Context) lowerFunction(decl *ast.Function) error {
	if err := c.CheckModuleUnique(decl.Name, decl.Pos()); err != nil {
		return err
	}

	sig, err := c.funcSig(decl.Params, decl.Returns, decl.Pos())
	if err != nil {
		return err
	}
	fn := c.Module.NewFunc(decl.Name, sig)
	if decl.Params != nil {
		for i, p := range decl.Params.Params {
			fn.Params[i].SetName(p.Name)
			if !p.Mut {
				fn.AddParamAttr(i, ir.AttrReadOnly)
			}
		}
	}

	_, err = c.buildFunction(fn, decl.Body, decl.Pos())
	return err
}

// funcSig resolves a signature. A missing return list means the return
// type is deduced: the `auto` placeholder goes in and is rebuilt away once
// the body is lowered.
func (c *Context) funcSig(args *ast.Args, returns *ast.TypeList, pos parsePos) (*ir.FuncType, error) {
	ret := c.Auto()
	if returns != nil {
		t, err := c.ReturnType(returns, pos)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	var params []ir.Type
	variadic := false
	if args != nil {
		variadic = args.Variadic
		for _, p := range args.Params {
			t, err := c.ResolveValueType(p.Type)
			if err != nil {
				return nil, err
			}
			params = append(params, t)
		}
	}
	return ir.FuncOf(ret, params, variadic), nil
}

// buildFunction assembles a function: entry block, body, scope exit,
// return-type deduction and the implicit trailing return. It returns the
// finalized function, which differs from fn when deduction rebuilt it.
func (c *Context) buildFunction(fn *ir.Func, body *ast.Body, pos parsePos) (*ir.Func, error) {
	entry := fn.NewBlock("entry")
	b := ir.NewBuilder(entry)
	if err := c.lowerBody(b, body); err != nil {
		return nil, err
	}
	if err := c.RunScopeExit(b, body); err != nil {
		return nil, err
	}

	pruneUnreachable(fn)

	deduced, err := c.deduceReturnType(fn, pos)
	if err != nil {
		return nil, err
	}

	if c.IsAuto(fn.Sig.Ret) {
		fn = c.changeFuncReturnType(fn, deduced)
	} else if ret := fn.Sig.Ret; !ret.Equal(ir.Void) && !deduced.Equal(ret) {
		return nil, errors.New(errors.ReturnTypeMismatch, pos,
			"function `%s` returns an invalid type", fn.FuncName)
	}

	if last := fn.Last(); !last.Terminated() {
		b.SetInsertPoint(last)
		if ret := fn.Sig.Ret; !ret.Equal(ir.Void) {
			c.warnf(pos, "expected function `%s` to have a return value", fn.FuncName)
			b.CreateRet(ir.ZeroValue(ret))
		} else {
			b.CreateRetVoid()
		}
	}
	return fn, nil
}

// deduceReturnType scans every ret instruction; all must agree. A function
// without returns deduces void.
func (c *Context) deduceReturnType(fn *ir.Func, pos parsePos) (ir.Type, error) {
	var deduced ir.Type
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if in.Op != ir.OpRet {
				continue
			}
			ret := ir.Type(ir.Void)
			if len(in.Args) > 0 {
				ret = in.Args[0].Type()
			}
			if deduced == nil {
				deduced = ret
			} else if !deduced.Equal(ret) {
				return nil, errors.New(errors.ReturnTypeConflict, pos,
					"type error: conflicting return types in function `%s`", fn.FuncName)
			}
		}
	}
	if deduced == nil {
		deduced = ir.Void
	}
	return deduced, nil
}

// changeFuncReturnType rebuilds a function with a new return type,
// preserving its name, arguments, attributes and basic blocks. The `auto`
// placeholder never reaches downstream IR consumers.
func (c *Context) changeFuncReturnType(fn *ir.Func, ret ir.Type) *ir.Func {
	sig := ir.FuncOf(ret, fn.Sig.Params, fn.Sig.Variadic)
	rebuilt := c.Module.NewFunc(fn.FuncName, sig)
	rebuilt.TakeBodyFrom(fn)
	c.Module.RemoveFunc(fn)
	return rebuilt
}

// pruneUnreachable erases blocks no path from entry reaches; statements
// lowered after a terminator park there and must not survive finalization.
func pruneUnreachable(fn *ir.Func) {
	if len(fn.Blocks) == 0 {
		return
	}
	reached := map[*ir.Block]bool{}
	var walk func(*ir.Block)
	walk = func(blk *ir.Block) {
		if reached[blk] {
			return
		}
		reached[blk] = true
		for _, succ := range blk.Succs() {
			walk(succ)
		}
	}
	walk(fn.Blocks[0])

	kept := fn.Blocks[:0:0]
	for _, blk := range fn.Blocks {
		if reached[blk] {
			kept = append(kept, blk)
		}
	}
	fn.Blocks = kept
}

// lowerClosure lowers an anonymous function literal. Captured locals are
// copied into an env struct; the body is lowered into a fresh `::closure`
// function taking `.env` first, and the closure value is the env-bound
// trampoline of that function.
func (c *Context) lowerClosure(b *ir.Builder, e *ast.Closure) (ir.Value, error) {
	name := fmt.Sprintf("::closure%d", c.closureCount)
	c.closureCount++

	outer := b.Func()
	var capNames []string
	var capVals []ir.Value
	capture := func(v ir.Value, name string) {
		capNames = append(capNames, name)
		capVals = append(capVals, loadIfLValue(b, v))
	}
	for _, p := range outer.Params {
		if p.ParamName != "" && p.ParamName != ".env" {
			capture(p, p.ParamName)
		}
	}
	for _, blk := range outer.Blocks {
		for _, in := range blk.Instrs {
			if in.Op == ir.OpAlloca && in.Name() != "" {
				capture(in, in.Name())
			}
		}
	}

	envFields := make([]ir.Type, len(capVals))
	for i, v := range capVals {
		envFields[i] = v.Type()
	}
	envType := c.Module.NewStructType(name+".env", envFields)
	c.Env.AddStructure(envType.TypeName, capNames)

	env := b.CreateAlloca(envType, "")
	for i, v := range capVals {
		b.CreateStore(v, b.CreateStructGEP(envType, env, i, ""))
	}

	sig, err := c.funcSig(e.Params, e.Returns, e.Pos())
	if err != nil {
		return nil, err
	}
	inner := ir.FuncOf(sig.Ret, append([]ir.Type{ir.Ptr(envType)}, sig.Params...), sig.Variadic)
	fn := c.Module.NewFunc(name, inner)
	fn.Params[0].SetName(".env")
	if e.Params != nil {
		for i, p := range e.Params.Params {
			fn.Params[i+1].SetName(p.Name)
		}
	}

	built, err := c.buildFunction(fn, e.Body, e.Pos())
	if err != nil {
		return nil, err
	}

	bound := ir.FuncOf(built.Sig.Ret, built.Sig.Params[1:], built.Sig.Variadic)
	return c.bindFirstArg(b, built, env, bound, e.Pos())
}
