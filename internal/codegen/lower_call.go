package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerFuncCall lowers a call chain: `callee(args)(args)…`, callees joined
// by `->` feeding each result as the sole argument of the next.
func (c *Context) lowerFuncCall(b *ir.Builder, e *ast.FuncCall) (ir.Value, error) {
	if e.Await {
		return nil, errors.New(errors.NotImplemented, e.Pos(),
			"awaitable function calls not implemented")
	}
	if e.Async {
		return nil, errors.New(errors.NotImplemented, e.Pos(),
			"async function calls not implemented")
	}

	if sr, ok := headScopeRes(e); ok {
		// likely a data class in this module, not really a function call
		if len(sr.Segments) == 3 {
			if v, ok := c.constructDataClass(b, sr); ok {
				return v, nil
			}
		}
		return nil, errors.New(errors.NotImplemented, e.Pos(),
			"cross-module func calls not implemented")
	}

	var funcs []ir.Value
	for _, callee := range e.Callees {
		v, err := c.LowerExpr(b, callee)
		if err != nil {
			return nil, err
		}
		if in, ok := v.(*ir.Instr); ok && in.Op == ir.OpAlloca {
			v = b.CreateLoad(v)
		}
		funcs = append(funcs, v)
	}
	if len(funcs) == 0 {
		return nil, errors.New(errors.TypeMismatch, e.Pos(), "expected a callable expression")
	}

	var value ir.Value
	for i, argList := range e.Args {
		pos := e.ArgPos[i]
		args, err := c.lowerArgs(b, argList)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			for j, fn := range funcs {
				if j > 0 {
					args = []ir.Value{value}
				}
				value, err = c.applyCall(b, fn, args, pos)
				if err != nil {
					return nil, err
				}
			}
		} else {
			value, err = c.applyCall(b, value, args, pos)
			if err != nil {
				return nil, err
			}
		}
	}
	if value == nil {
		return nil, errors.New(errors.ArityMismatch, e.Pos(),
			"expected an argument list for call")
	}
	return value, nil
}

func headScopeRes(e *ast.FuncCall) (*ast.ScopeRes, bool) {
	if len(e.Callees) == 0 {
		return nil, false
	}
	sr, ok := e.Callees[0].(*ast.ScopeRes)
	return sr, ok
}

// constructDataClass attempts data-class construction for a three-segment
// scope resolution. Failures are swallowed: the caller falls through to its
// cross-module diagnostic.
func (c *Context) constructDataClass(b *ir.Builder, sr *ast.ScopeRes) (ir.Value, bool) {
	if !c.Env.HasClass(sr.Segments[0]) {
		return nil, false
	}
	// data-class declarations do not exist in this core yet; the registry
	// stays empty and construction is the documented extension point.
	return nil, false
}

// lowerArgs lowers one argument list, loading through l-values.
func (c *Context) lowerArgs(b *ir.Builder, exprs []ast.Expr) ([]ir.Value, error) {
	var args []ir.Value
	for _, expr := range exprs {
		v, err := c.LowerExpr(b, expr)
		if err != nil {
			return nil, err
		}
		args = append(args, loadIfLValue(b, v))
	}
	return args, nil
}

// applyCall checks and transforms one argument list against the callee,
// then either emits the call or, when the list ends in the expansion
// sentinel, partially applies through the trampoline binder.
func (c *Context) applyCall(b *ir.Builder, callee ir.Value, args []ir.Value, pos parsePos) (ir.Value, error) {
	if err := c.checkTransformArgs(b, callee, args, pos); err != nil {
		return nil, err
	}
	if n := len(args); n > 0 && isExpansion(args[n-1]) {
		return c.partialApply(b, callee, args[:n-1], pos)
	}
	return b.CreateCall(callee, args...), nil
}

// checkTransformArgs validates arity and per-parameter types, casting
// arguments to interface parameters on the fly. An expansion sentinel is
// only legal in final position.
func (c *Context) checkTransformArgs(b *ir.Builder, callee ir.Value, args []ir.Value, pos parsePos) error {
	sig, ok := calleeFuncType(callee)
	if !ok {
		return errors.New(errors.TypeMismatch, pos,
			"expected `%s` to be callable", calleeName(callee))
	}

	expansion := len(args) > 0 && isExpansion(args[len(args)-1])
	if !expansion && len(sig.Params) != len(args) {
		return errors.New(errors.ArityMismatch, pos,
			"invalid number of arguments given for function `%s` (expected %d, got %d)",
			calleeName(callee), len(sig.Params), len(args))
	}

	for i, arg := range args {
		if isExpansion(arg) {
			if i == len(args)-1 {
				break
			}
			return errors.New(errors.EmptyExpansionContext, pos,
				"cannot use an expansion as argument %d in call to function `%s`",
				i, calleeName(callee))
		}
		if i >= len(sig.Params) {
			return errors.New(errors.ArityMismatch, pos,
				"invalid number of arguments given for function `%s` (expected %d, got %d)",
				calleeName(callee), len(sig.Params), len(args))
		}
		paramType := sig.Params[i]
		if IsInterfaceType(paramType) {
			impl, err := c.CastToInterface(b, paramType, arg, pos)
			if err != nil {
				return err
			}
			args[i] = impl
		} else if !arg.Type().Equal(paramType) {
			return errors.New(errors.TypeMismatch, pos,
				"invalid type given for argument %d of call to function `%s`",
				i+1, calleeName(callee))
		}
	}
	return nil
}

// partialApply binds the leading arguments one at a time through the
// trampoline binder, producing a callable of reduced arity.
func (c *Context) partialApply(b *ir.Builder, callee ir.Value, args []ir.Value, pos parsePos) (ir.Value, error) {
	sig, _ := calleeFuncType(callee)
	if len(sig.Params) <= len(args) {
		return nil, errors.New(errors.OverApplication, pos,
			"cannot partially applicate function `%s` (number of arguments exceeds %d, got %d)",
			calleeName(callee), len(sig.Params), len(args))
	}
	value := callee
	for _, arg := range args {
		sig = ir.FuncOf(sig.Ret, sig.Params[1:], sig.Variadic)
		bound, err := c.bindFirstArg(b, value, arg, sig, pos)
		if err != nil {
			return nil, err
		}
		value = bound
	}
	return value, nil
}

func calleeFuncType(callee ir.Value) (*ir.FuncType, bool) {
	pt, ok := callee.Type().(*ir.PointerType)
	if !ok {
		return nil, false
	}
	sig, ok := pt.Elem.(*ir.FuncType)
	return sig, ok
}

func calleeName(callee ir.Value) string {
	if n := callee.Name(); n != "" {
		return n
	}
	return "<anonymous>"
}
