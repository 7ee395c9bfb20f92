package codegen

import (
	"strings"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerIdent resolves a bare identifier. Resolution order: local symbol
// table, captured closure environment, module functions, the discard sink.
func (c *Context) lowerIdent(b *ir.Builder, e *ast.Ident) (ir.Value, error) {
	fn := b.Func()

	// variable
	if v := fn.Lookup(e.Name); v != nil {
		return v, nil
	}

	// captured variables in closure
	if strings.HasPrefix(fn.FuncName, "::closure") {
		if env := fn.Lookup(".env"); env != nil {
			if pt, ok := env.Type().(*ir.PointerType); ok {
				if st, ok := pt.Elem.(*ir.StructType); ok {
					if idx, ok := c.Env.FieldIndex(st.TypeName, e.Name); ok {
						ptr := b.CreateStructGEP(st, env, idx, e.Name)
						return b.CreateLoad(ptr), nil
					}
				}
			}
		}
	}

	// free function
	if f := c.Module.Func(e.Name); f != nil {
		return f, nil
	}

	if e.Name == "_" {
		return c.discard(), nil
	}

	return nil, errors.New(errors.UnboundIdent, e.Pos(),
		"variable `%s` does not exist in scope", e.Name)
}

// checkLocalUnique verifies that a new binding neither shadows a reserved
// word nor reuses a name already bound in the function or at module scope.
func (c *Context) checkLocalUnique(b *ir.Builder, name string, pos parsePos) error {
	if name == "_" {
		return errors.New(errors.ReservedIdent, pos,
			"identifier `_` is reserved for discarded assignment values")
	}
	if parseReserved(name) {
		return errors.New(errors.ReservedIdent, pos, "identifier `%s` is reserved", name)
	}
	fn := b.Func()
	if fn.Lookup(name) != nil {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists in function `%s`", name, fn.FuncName)
	}
	return c.CheckModuleUnique(name, pos)
}

// lowerStructMember walks a member-access chain a.b.c, resolving each step
// to a field, an operator member or a bound member function.
func (c *Context) lowerStructMember(b *ir.Builder, e *ast.StructMember) (ir.Value, error) {
	fn := b.Func()
	extracted := fn.Lookup(e.Base)
	if extracted == nil {
		return nil, errors.New(errors.UnboundIdent, e.Pos(),
			"variable `%s` does not exist in scope", e.Base)
	}

	prev := e.Base
	for _, ref := range e.Chain {
		st, isStruct := IsStructKind(extracted.Type())
		if !isStruct {
			return nil, errors.New(errors.NotAStruct, e.Pos(),
				"expected `%s` to be a struct type", prev)
		}

		member := ref.Name
		if ref.OpName != nil {
			name, err := c.structOpNameString(ref.OpName)
			if err != nil {
				return nil, err
			}
			member = name
		}

		extracted = c.spillStruct(b, extracted)
		if idx, ok := c.Env.FieldIndex(st.TypeName, member); ok {
			extracted = b.CreateStructGEP(st, extracted, idx, member)
			if strings.HasPrefix(st.TypeName, "interface::") {
				// interface fields already hold function pointers
				extracted = b.CreateLoad(extracted)
			}
		} else if memFun := c.Module.Func("struct::" + st.TypeName + "::" + member); memFun != nil {
			bound, err := c.bindThis(b, memFun, extracted)
			if err != nil {
				return nil, err
			}
			bound.SetName(prev + "." + member)
			extracted = bound
		} else {
			return nil, errors.New(errors.NoSuchMember, ref.Pos,
				"`%s` is not a field or member function for struct `%s`",
				member, st.TypeName)
		}
		prev = member
	}
	return extracted, nil
}

// spillStruct gives a plain struct value an address so element pointers
// can be taken through it.
func (c *Context) spillStruct(b *ir.Builder, v ir.Value) ir.Value {
	st, ok := v.Type().(*ir.StructType)
	if !ok {
		return v
	}
	slot := b.CreateAlloca(st, "")
	b.CreateStore(v, slot)
	return slot
}

// structOpNameString computes the canonical member-function name of an
// operator spelling: `operator <symbol>` or `operator <printable type>`.
func (c *Context) structOpNameString(op *ast.OpName) (string, error) {
	if op.Type == nil {
		return "operator " + op.Symbol, nil
	}
	t, err := c.ResolveType(op.Type)
	if err != nil {
		return "", err
	}
	if c.IsAuto(t) {
		return "", errors.New(errors.TypeMismatch, op.Pos,
			"struct function cannot define an operator for deduced type auto")
	}
	return "operator " + TypeName(t), nil
}
