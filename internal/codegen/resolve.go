package codegen

import (
	"strings"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// ResolveType resolves type syntax against the basic-type table and the
// module environment.
func (c *Context) ResolveType(tr *ast.TypeRef) (ir.Type, error) {
	switch tr.Kind {
	case ast.TypePointer:
		elem, err := c.ResolveType(tr.Elem)
		if err != nil {
			return nil, err
		}
		for i := 0; i < tr.PtrLevels; i++ {
			elem = ir.Ptr(elem)
		}
		return elem, nil

	case ast.TypeArray:
		elem, err := c.ResolveType(tr.Elem)
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem, tr.ArrayLen), nil

	case ast.TypeFn:
		return c.resolveFnType(tr)

	case ast.TypeVariadic:
		return c.ResolveType(tr.Elem)

	case ast.TypeScoped:
		// types from other module scopes are not resolvable here
		return nil, errors.New(errors.UnknownType, tr.Pos,
			"type `%s` does not exist in scope", tr.Name)

	default:
		if t := c.lookupTypeName(tr.Name); t != nil {
			return t, nil
		}
		return nil, errors.New(errors.UnknownType, tr.Pos,
			"type `%s` does not exist in scope", tr.Name)
	}
}

// ResolveValueType resolves type syntax for a value slot: bare function
// types decay to function pointers.
func (c *Context) ResolveValueType(tr *ast.TypeRef) (ir.Type, error) {
	t, err := c.ResolveType(tr)
	if err != nil {
		return nil, err
	}
	if _, ok := t.(*ir.FuncType); ok {
		return ir.Ptr(t), nil
	}
	return t, nil
}

func (c *Context) resolveFnType(tr *ast.TypeRef) (ir.Type, error) {
	ret := ir.Type(ir.Void)
	if tr.FnReturns != nil {
		types, variadic, err := c.ResolveTypeList(tr.FnReturns)
		if err != nil {
			return nil, err
		}
		if variadic {
			return nil, errors.New(errors.VariadicInReturn, tr.Pos,
				"cannot use a variadic type as function return type")
		}
		ret = returnTypeOf(types)
	}
	var params []ir.Type
	variadic := false
	if tr.FnParams != nil {
		var err error
		params, variadic, err = c.ResolveTypeList(tr.FnParams)
		if err != nil {
			return nil, err
		}
	}
	return ir.FuncOf(ret, params, variadic), nil
}

// ResolveTypeList resolves an ordered type list and its variadic marker.
func (c *Context) ResolveTypeList(tl *ast.TypeList) ([]ir.Type, bool, error) {
	var types []ir.Type
	for _, tr := range tl.Types {
		t, err := c.ResolveValueType(tr)
		if err != nil {
			return nil, false, err
		}
		types = append(types, t)
	}
	return types, tl.Variadic, nil
}

// ReturnType folds an optional return-type list into a single return type:
// none is void, several become an anonymous struct, variadic is rejected.
func (c *Context) ReturnType(tl *ast.TypeList, pos parsePos) (ir.Type, error) {
	if tl == nil {
		return ir.Void, nil
	}
	types, variadic, err := c.ResolveTypeList(tl)
	if err != nil {
		return nil, err
	}
	if variadic {
		return nil, errors.New(errors.VariadicInReturn, pos,
			"cannot use a variadic return type for function")
	}
	return returnTypeOf(types), nil
}

func returnTypeOf(types []ir.Type) ir.Type {
	if len(types) == 0 {
		return ir.Void
	}
	if len(types) > 1 {
		return ir.StructOf(types...)
	}
	return types[0]
}

// lookupTypeName resolves a bare type name: built-ins first, then named
// structs, then interfaces, then aliases.
func (c *Context) lookupTypeName(name string) ir.Type {
	if t, ok := c.basic[name]; ok {
		return t
	}
	if st := c.Module.StructType(name); st != nil {
		return st
	}
	if st := c.Module.StructType("interface::" + name); st != nil {
		return st
	}
	if t, ok := c.Env.Alias(name); ok {
		return t
	}
	return nil
}

// IsStructKind returns the struct type behind t when t is a struct or a
// pointer to one.
func IsStructKind(t ir.Type) (*ir.StructType, bool) {
	if st, ok := t.(*ir.StructType); ok {
		return st, true
	}
	if pt, ok := t.(*ir.PointerType); ok {
		if st, ok := pt.Elem.(*ir.StructType); ok {
			return st, true
		}
	}
	return nil, false
}

// Underlying strips every pointer level off t.
func Underlying(t ir.Type) ir.Type {
	for {
		pt, ok := t.(*ir.PointerType)
		if !ok {
			return t
		}
		t = pt.Elem
	}
}

// IsFunctionKind reports whether t is a function type or a pointer to one.
func IsFunctionKind(t ir.Type) bool {
	if _, ok := t.(*ir.FuncType); ok {
		return true
	}
	if pt, ok := t.(*ir.PointerType); ok {
		_, ok = pt.Elem.(*ir.FuncType)
		return ok
	}
	return false
}

// IsInterfaceType reports whether t is (a pointer to) an interface record.
func IsInterfaceType(t ir.Type) bool {
	st, ok := IsStructKind(t)
	return ok && strings.HasPrefix(st.TypeName, "interface::")
}

// IsVariableLengthArray recognises the VLA convention: a struct of
// {int length, T[0] data}.
func (c *Context) IsVariableLengthArray(t ir.Type) bool {
	st, ok := t.(*ir.StructType)
	if !ok || len(st.Fields) != 2 {
		return false
	}
	if !st.Fields[0].Equal(c.basic["int"]) {
		return false
	}
	at, ok := st.Fields[1].(*ir.ArrayType)
	return ok && at.Len == 0
}

// TypeName renders t the way operator overloads spell it: primitive width
// names, bare struct names (interfaces stripped of their prefix), one '*'
// per pointer level.
func TypeName(t ir.Type) string {
	levels := 0
	for {
		pt, ok := t.(*ir.PointerType)
		if !ok {
			break
		}
		levels++
		t = pt.Elem
	}
	var name string
	switch t := t.(type) {
	case *ir.IntType:
		name = map[int]string{
			1: "bool", 8: "char", 16: "short", 32: "int", 64: "int64", 128: "int128",
		}[t.Bits]
	case *ir.FloatType:
		name = map[int]string{16: "half", 32: "float", 64: "double"}[t.Bits]
	case *ir.StructType:
		name = strings.TrimPrefix(t.TypeName, "interface::")
	}
	return name + strings.Repeat("*", levels)
}
