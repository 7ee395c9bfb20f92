package codegen

import (
	"strconv"
	"strings"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerInterface synthesizes an interface declaration: a named struct
// `interface::<name>` whose fields are function-pointer types in
// declaration order, registered in the module environment.
func (c *Context) lowerInterface(decl *ast.Interface) error {
	if err := c.CheckModuleUnique(decl.Name, decl.Pos()); err != nil {
		return err
	}

	var funcs []IfaceFunc
	for _, parent := range decl.Inherits {
		if parent.Scoped {
			return errors.New(errors.NotImplemented, parent.Pos,
				"cross-module interface inheritance not implemented")
		}
		inherited, err := c.FuncsInfo(parent.Name, parent.Pos)
		if err != nil {
			return err
		}
		funcs = append(funcs, inherited...)
	}

	for _, fn := range decl.Funcs {
		t, err := c.ResolveType(fn.Type)
		if err != nil {
			return err
		}
		ft, ok := t.(*ir.FuncType)
		if !ok {
			return errors.New(errors.TypeMismatch, decl.Pos(),
				"interface `%s` member must be a function type", decl.Name)
		}
		name := fn.Name
		if name == "" {
			name = strconv.Itoa(len(funcs))
		}
		for _, existing := range funcs {
			if existing.Name == name {
				return errors.New(errors.DuplicateInterfaceFunction, decl.Pos(),
					"interface `%s` already declares function `%s`", decl.Name, name)
			}
		}
		funcs = append(funcs, IfaceFunc{Name: name, Type: ir.Ptr(ft)})
	}

	fields := make([]ir.Type, len(funcs))
	names := make([]string, len(funcs))
	for i, fn := range funcs {
		fields[i] = fn.Type
		names[i] = fn.Name
	}
	impl := c.Module.NewStructType("interface::"+decl.Name, fields)
	c.Env.AddInterface(decl.Name, funcs)
	c.Env.AddStructure(impl.TypeName, names)
	return nil
}

// FuncsInfo returns an interface's ordered (name, function-pointer type)
// slots.
func (c *Context) FuncsInfo(interfaceName string, pos parsePos) ([]IfaceFunc, error) {
	funcs, ok := c.Env.Interface(interfaceName)
	if !ok {
		return nil, errors.New(errors.UnknownType, pos,
			"interface `%s` does not exist", interfaceName)
	}
	return funcs, nil
}

// Implements validates that the struct behind value implements the
// interface, returning the receiver-bound implementation for each slot.
func (c *Context) Implements(b *ir.Builder, iface *ir.StructType, value ir.Value, pos parsePos) ([]ir.Value, error) {
	st, isStruct := IsStructKind(value.Type())
	if !isStruct {
		return nil, errors.New(errors.NotAStruct, pos,
			"expected value `%s` to be a struct kind", value.Name())
	}
	ifaceName := strings.TrimPrefix(iface.TypeName, "interface::")
	funcs, err := c.FuncsInfo(ifaceName, pos)
	if err != nil {
		return nil, err
	}

	var impls []ir.Value
	for _, slot := range funcs {
		structFunc := c.Module.Func("struct::" + st.TypeName + "::" + slot.Name)
		if structFunc == nil {
			return nil, errors.New(errors.MissingMethod, pos,
				"struct `%s` does not implement interface `%s` (no implementation found for function `%s`)",
				st.TypeName, ifaceName, slot.Name)
		}
		bound, err := c.bindThis(b, structFunc, value)
		if err != nil {
			return nil, err
		}
		if !bound.Type().Equal(slot.Type) {
			return nil, errors.New(errors.MethodSignatureMismatch, pos,
				"struct `%s` does not implement interface `%s` (type mismatch for function `%s`)",
				st.TypeName, ifaceName, slot.Name)
		}
		impls = append(impls, bound)
	}
	return impls, nil
}

// CastToInterface stack-allocates an interface record and stores the
// receiver-bound function pointer of each slot. The record substitutes for
// a fat pointer: `this` is embedded in each trampoline, so the vtable alone
// carries enough state.
func (c *Context) CastToInterface(b *ir.Builder, iface ir.Type, value ir.Value, pos parsePos) (ir.Value, error) {
	ifaceType, ok := IsStructKind(iface)
	if !ok {
		return nil, errors.New(errors.InvalidCast, pos, "invalid cast")
	}
	impls, err := c.Implements(b, ifaceType, value, pos)
	if err != nil {
		return nil, err
	}
	record := b.CreateAlloca(ifaceType, "")
	for i, impl := range impls {
		ptr := b.CreateStructGEP(ifaceType, record, i, "")
		b.CreateStore(impl, ptr)
	}
	return record, nil
}
