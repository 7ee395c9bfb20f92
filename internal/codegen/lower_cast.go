package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerCast lowers `cast<T>(expr)` across the integer, float, pointer,
// struct and interface domains. An InvalidCast commits no IR beyond the
// evaluated operand; a failed interface cast (MissingMethod or
// MethodSignatureMismatch) may already have emitted the trampoline binding
// of earlier slots.
func (c *Context) lowerCast(b *ir.Builder, e *ast.Cast) (ir.Value, error) {
	v, err := c.LowerExpr(b, e.Value)
	if err != nil {
		return nil, err
	}
	expr := loadForCast(b, v)
	from := expr.Type()

	to, err := c.ResolveType(e.Target)
	if err != nil {
		return nil, err
	}

	switch {
	case ir.IsInt(from):
		if ir.IsFloat(to) {
			return b.CreateSIToFP(expr, to), nil
		}
		if ir.IsInt(to) {
			return b.CreateZExtOrTrunc(expr, to), nil
		}

	case ir.IsFloat(from):
		if ir.IsInt(to) {
			return b.CreateFPToSI(expr, to), nil
		}
		if ir.IsFloat(to) {
			fromBits, toBits := ir.PrimitiveBits(from), ir.PrimitiveBits(to)
			switch {
			case fromBits > toBits:
				return b.CreateFPTrunc(expr, to), nil
			case fromBits < toBits:
				return b.CreateFPExt(expr, to), nil
			default:
				return expr, nil
			}
		}

	case isPointer(from):
		if st, isStruct := IsStructKind(from); isStruct {
			if IsInterfaceType(to) {
				return c.CastToInterface(b, to, expr, e.Pos())
			}
			if _, toIsStruct := IsStructKind(to); toIsStruct {
				caster := c.Module.Func("struct::" + st.TypeName + "::operator " + TypeName(to))
				if caster != nil {
					return b.CreateCall(caster, expr), nil
				}
				break
			}
			if isPointer(to) {
				return b.CreateBitCast(expr, to), nil
			}
			break
		}
		if from.(*ir.PointerType).Elem.Equal(c.basic["char"]) &&
			(ir.IsInt(to) || ir.IsFloat(to)) {
			return nil, errors.New(errors.NotImplemented, e.Pos(),
				"parsing numbers from char* not implemented")
		}
		if isPointer(to) {
			// a struct pointer can only be produced from struct kinds
			if _, toIsStruct := IsStructKind(to); toIsStruct {
				break
			}
			return b.CreateBitCast(expr, to), nil
		}
	}

	return nil, errors.New(errors.InvalidCast, e.Pos(), "invalid cast")
}

func isPointer(t ir.Type) bool {
	_, ok := t.(*ir.PointerType)
	return ok
}

// loadForCast loads primitive and pointer values out of l-values; a slot
// holding a struct stays an address, since struct casts operate on the
// pointer.
func loadForCast(b *ir.Builder, v ir.Value) ir.Value {
	if !isLValue(v) {
		return v
	}
	elem := v.Type().(*ir.PointerType).Elem
	switch elem.(type) {
	case *ir.IntType, *ir.FloatType, *ir.PointerType:
		return b.CreateLoad(v)
	}
	return v
}
