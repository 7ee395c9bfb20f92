package codegen

import (
	"github.com/slatelang/go-slate/internal/ir"
)

// bindFirstArg produces a callable with the callee's first argument bound:
// a machine-code trampoline captures the argument so the result is an
// ordinary function pointer of the reduced arity.
//
// The trampoline buffer is a scoped resource: its release call is emitted
// on every exit path of this builder span, including error returns.
func (c *Context) bindFirstArg(b *ir.Builder, callee, first ir.Value, newSig *ir.FuncType, pos parsePos) (*ir.Instr, error) {
	if fn, ok := callee.(*ir.Func); ok && !fn.HasParamAttr(0, ir.AttrNest) {
		fn.AddParamAttr(0, ir.AttrNest)
	}

	charPtr := ir.Ptr(c.basic["char"])
	allocFn := c.Module.GetOrInsertFunc("__builtin_virtual_alloc",
		ir.FuncOf(charPtr, nil, false))
	tramp := b.CreateCall(allocFn)
	defer func() {
		freeFn := c.Module.GetOrInsertFunc("__builtin_virtual_free",
			ir.FuncOf(ir.Void, []ir.Type{charPtr}, false))
		b.CreateCall(freeFn, tramp)
	}()

	initFn := c.Module.GetOrInsertFunc("llvm.init.trampoline",
		ir.FuncOf(ir.Void, []ir.Type{charPtr, charPtr, charPtr}, false))
	b.CreateCall(initFn, tramp,
		b.CreateBitCast(callee, charPtr),
		b.CreateBitCast(first, charPtr))

	adjustFn := c.Module.GetOrInsertFunc("llvm.adjust.trampoline",
		ir.FuncOf(charPtr, []ir.Type{charPtr}, false))
	adjusted := b.CreateCall(adjustFn, tramp)
	return b.CreateBitCast(adjusted, ir.Ptr(newSig)), nil
}

// bindThis binds a member function's receiver, yielding a callable of the
// remaining arity.
func (c *Context) bindThis(b *ir.Builder, memFun *ir.Func, thiz ir.Value) (*ir.Instr, error) {
	newSig := ir.FuncOf(memFun.Sig.Ret, memFun.Sig.Params[1:], memFun.Sig.Variadic)
	return c.bindFirstArg(b, memFun, thiz, newSig, parsePos{})
}
