package codegen

import (
	"fmt"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// LowerExpr lowers a value-producing node at the builder's insertion point.
// The produced value may be an l-value (stack slot or element pointer);
// callers needing the value itself load through it.
func (c *Context) LowerExpr(b *ir.Builder, e ast.Expr) (ir.Value, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return ir.ConstInt(c.basic["int"], e.Value), nil
	case *ast.FloatLit:
		return ir.ConstFloat(c.basic["double"], e.Value), nil
	case *ast.BoolLit:
		return ir.ConstBool(e.Value), nil
	case *ast.CharLit:
		return ir.ConstInt(c.basic["char"], int64(e.Value)), nil
	case *ast.StringLit:
		return c.lowerString(b, e), nil
	case *ast.NullPtr:
		return ir.ConstNull(ir.Ptr(c.basic["char"])), nil
	case *ast.Ident:
		return c.lowerIdent(b, e)
	case *ast.BinaryExpr:
		return c.lowerBinary(b, e)
	case *ast.StructMember:
		return c.lowerStructMember(b, e)
	case *ast.Cast:
		return c.lowerCast(b, e)
	case *ast.FuncCall:
		return c.lowerFuncCall(b, e)
	case *ast.ScopeRes:
		return c.lowerScopeRes(e)
	case *ast.Expansion:
		return c.expansionSentinel(), nil
	case *ast.Reference:
		return nil, errors.New(errors.NotImplemented, e.Pos(), "references not implemented")
	case *ast.Deref:
		return c.lowerDeref(b, e)
	case *ast.PreOp:
		return c.lowerPreOp(b, e)
	case *ast.PostOp:
		return c.lowerPostOp(b, e)
	case *ast.Element:
		return c.lowerElement(b, e)
	case *ast.SizeOf:
		return c.lowerSizeOf(e)
	case *ast.AlignOf:
		return c.lowerAlignOf(e)
	case *ast.LenExpr:
		return c.lowerLen(b, e)
	case *ast.Closure:
		return c.lowerClosure(b, e)
	case *ast.UnsupportedExpr:
		return nil, errors.New(errors.NotImplemented, e.Pos(), "%s not implemented", e.Feature)
	default:
		return nil, errors.New(errors.NotImplemented, e.Pos(), "expression kind not implemented")
	}
}

func (c *Context) lowerString(b *ir.Builder, s *ast.StringLit) ir.Value {
	name := fmt.Sprintf("str.%d", len(c.Module.Globals))
	g := c.Module.NewGlobal(name, ir.ArrayOf(c.basic["char"], len(s.Value)+1),
		&ir.Const{Typ: c.basic["char"], Str: s.Value})
	g.Immutable = true
	// decay to char*; the bitcast keeps the literal from reading as a
	// loadable address
	gep := b.CreateElemGEP(g, ir.ConstInt(c.basic["int"], 0))
	return b.CreateBitCast(gep, ir.Ptr(c.basic["char"]))
}

// lowerBinary folds one binary step through the context's operator table,
// selecting the float variant when the operands are floating point.
func (c *Context) lowerBinary(b *ir.Builder, e *ast.BinaryExpr) (ir.Value, error) {
	lhs, err := c.LowerExpr(b, e.Left)
	if err != nil {
		return nil, err
	}
	lhs = loadIfLValue(b, lhs)
	rhs, err := c.LowerExpr(b, e.Right)
	if err != nil {
		return nil, err
	}
	rhs = loadIfLValue(b, rhs)

	key := e.Op
	if ir.IsFloat(lhs.Type()) {
		if _, ok := c.ops[key+"f"]; ok {
			key += "f"
		}
	}
	op, ok := c.ops[key]
	if !ok {
		return nil, errors.New(errors.NotImplemented, e.Pos(),
			"operator `%s` not implemented", e.Op)
	}
	return op(b, lhs, rhs), nil
}

func (c *Context) lowerScopeRes(e *ast.ScopeRes) (ir.Value, error) {
	if len(e.Segments) == 2 {
		if ord, ok := c.Env.EnumOrdinal(e.Segments[0], e.Segments[1]); ok {
			return ir.ConstInt(c.basic["int"], int64(ord)), nil
		}
	}
	return nil, errors.New(errors.NotImplemented, e.Pos(),
		"cross-module references not implemented")
}

func (c *Context) lowerDeref(b *ir.Builder, e *ast.Deref) (ir.Value, error) {
	v, err := c.LowerExpr(b, e.Target)
	if err != nil {
		return nil, err
	}
	v = loadIfLValue(b, v)
	if _, ok := v.Type().(*ir.PointerType); !ok {
		return nil, errors.New(errors.TypeMismatch, e.Pos(),
			"cannot dereference a value of type `%s`", v.Type())
	}
	return b.CreateLoad(v), nil
}

func (c *Context) lowerPreOp(b *ir.Builder, e *ast.PreOp) (ir.Value, error) {
	target, err := c.LowerExpr(b, e.Target)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "++", "--":
		if !isLValue(target) {
			return nil, errors.New(errors.TypeMismatch, e.Pos(),
				"operand of `%s` is not assignable", e.Op)
		}
		val := b.CreateLoad(target)
		op := ir.OpAdd
		if e.Op == "--" {
			op = ir.OpSub
		}
		next := b.CreateBinOp(op, val, ir.ConstInt(val.Type(), 1))
		b.CreateStore(next, target)
		return next, nil
	case "-":
		val := loadIfLValue(b, target)
		if ir.IsFloat(val.Type()) {
			return b.CreateBinOp(ir.OpFSub, ir.ConstFloat(val.Type(), 0), val), nil
		}
		return b.CreateBinOp(ir.OpSub, ir.ConstInt(val.Type(), 0), val), nil
	case "!":
		val := loadIfLValue(b, target)
		return b.CreateBinOp(ir.OpXor, val, ir.ConstInt(val.Type(), 1)), nil
	case "~":
		val := loadIfLValue(b, target)
		return b.CreateBinOp(ir.OpXor, val, ir.ConstInt(val.Type(), -1)), nil
	default:
		return nil, errors.New(errors.NotImplemented, e.Pos(),
			"prefix operator `%s` not implemented", e.Op)
	}
}

func (c *Context) lowerPostOp(b *ir.Builder, e *ast.PostOp) (ir.Value, error) {
	target, err := c.LowerExpr(b, e.Target)
	if err != nil {
		return nil, err
	}
	if !isLValue(target) {
		return nil, errors.New(errors.TypeMismatch, e.Pos(),
			"operand of `%s` is not assignable", e.Op)
	}
	val := b.CreateLoad(target)
	op := ir.OpAdd
	if e.Op == "--" {
		op = ir.OpSub
	}
	next := b.CreateBinOp(op, val, ir.ConstInt(val.Type(), 1))
	b.CreateStore(next, target)
	return val, nil
}

func (c *Context) lowerElement(b *ir.Builder, e *ast.Element) (ir.Value, error) {
	base, err := c.LowerExpr(b, e.Base)
	if err != nil {
		return nil, err
	}
	idx, err := c.LowerExpr(b, e.Index)
	if err != nil {
		return nil, err
	}
	idx = loadIfLValue(b, idx)
	if pt, ok := base.Type().(*ir.PointerType); ok {
		if _, ok := pt.Elem.(*ir.ArrayType); ok {
			return b.CreateElemGEP(base, idx), nil
		}
	}
	return nil, errors.New(errors.TypeMismatch, e.Pos(),
		"cannot index a value of type `%s`", base.Type())
}

func (c *Context) lowerSizeOf(e *ast.SizeOf) (ir.Value, error) {
	t, err := c.ResolveType(e.Target)
	if err != nil {
		return nil, err
	}
	bits := c.Module.Layout.TypeBits(t)
	return ir.ConstInt(c.basic["int64"], int64((bits+7)/8)), nil
}

func (c *Context) lowerAlignOf(e *ast.AlignOf) (ir.Value, error) {
	t, err := c.ResolveType(e.Target)
	if err != nil {
		return nil, err
	}
	return ir.ConstInt(c.basic["int64"], int64(c.Module.Layout.ABIAlignBytes(t))), nil
}

func (c *Context) lowerLen(b *ir.Builder, e *ast.LenExpr) (ir.Value, error) {
	v, err := c.LowerExpr(b, e.Target)
	if err != nil {
		return nil, err
	}
	if pt, ok := v.Type().(*ir.PointerType); ok {
		switch elem := pt.Elem.(type) {
		case *ir.ArrayType:
			return ir.ConstInt(c.basic["int"], int64(elem.Len)), nil
		case *ir.StructType:
			if c.IsVariableLengthArray(elem) {
				ptr := b.CreateStructGEP(elem, v, 0, "")
				return b.CreateLoad(ptr), nil
			}
		}
	}
	if at, ok := v.Type().(*ir.ArrayType); ok {
		return ir.ConstInt(c.basic["int"], int64(at.Len)), nil
	}
	return nil, errors.New(errors.TypeMismatch, e.Pos(),
		"cannot take the length of a value of type `%s`", v.Type())
}
