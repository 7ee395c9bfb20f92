package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
	"github.com/slatelang/go-slate/internal/parsetree"
)

// LowerModule builds the AST for a parse tree and lowers every top-level
// declaration into the context's module. Declarations lower independently:
// on error the driver records the diagnostic and continues with the next
// declaration, so one bad function does not hide the rest.
func LowerModule(c *Context, root *parsetree.Node) []error {
	return Lower(c, ast.NewModule(root))
}

// Lower lowers an already-built module AST.
func Lower(c *Context, mod *ast.Module) []error {
	var errs []error
	for _, decl := range mod.Decls {
		var err error
		switch decl := decl.(type) {
		case *ast.Structure:
			err = c.lowerStructure(decl)
		case *ast.Alias:
			err = c.lowerAlias(decl)
		case *ast.Enum:
			err = c.lowerEnum(decl)
		case *ast.Interface:
			err = c.lowerInterface(decl)
		case *ast.StructFunc:
			err = c.lowerStructFunc(decl)
		case *ast.Function:
			err = c.lowerFunction(decl)
		default:
			err = errors.New(errors.NotImplemented, decl.Pos(),
				"declaration kind not implemented")
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// lowerStructure registers a named struct type and its ordered field names.
func (c *Context) lowerStructure(decl *ast.Structure) error {
	if err := c.CheckModuleUnique(decl.Name, decl.Pos()); err != nil {
		return err
	}
	var names []string
	var types []ir.Type
	for _, field := range decl.Fields {
		t, err := c.ResolveValueType(field.Type)
		if err != nil {
			return err
		}
		for _, name := range field.Names {
			for _, existing := range names {
				if existing == name {
					return errors.New(errors.DuplicateIdent, decl.Pos(),
						"struct `%s` already declares field `%s`", decl.Name, name)
				}
			}
			names = append(names, name)
			types = append(types, t)
		}
	}
	c.Module.NewStructType(decl.Name, types)
	c.Env.AddStructure(decl.Name, names)
	return nil
}

// lowerAlias registers a type alias.
func (c *Context) lowerAlias(decl *ast.Alias) error {
	if err := c.CheckModuleUnique(decl.Name, decl.Pos()); err != nil {
		return err
	}
	t, err := c.ResolveType(decl.Type)
	if err != nil {
		return err
	}
	c.Env.AddAlias(decl.Name, t)
	return nil
}

// lowerEnum registers an enumeration: the name aliases int, members become
// scope-resolved ordinal constants.
func (c *Context) lowerEnum(decl *ast.Enum) error {
	if err := c.CheckModuleUnique(decl.Name, decl.Pos()); err != nil {
		return err
	}
	c.Env.AddAlias(decl.Name, c.basic["int"])
	c.Env.AddEnum(decl.Name, decl.Members)
	return nil
}

// lowerStructFunc lowers a member function or operator overload. The
// receiver binds as a leading `this` parameter carrying the Nest attribute
// (and ReadOnly unless declared mut).
func (c *Context) lowerStructFunc(decl *ast.StructFunc) error {
	structure := c.Module.StructType(decl.StructName)
	if structure == nil {
		return errors.New(errors.UnknownType, decl.Pos(),
			"cannot find struct `%s` for function", decl.StructName)
	}

	name := decl.Name
	if decl.Op != nil {
		opName, err := c.structOpNameString(decl.Op)
		if err != nil {
			return err
		}
		name = opName
	}
	funcName := "struct::" + decl.StructName + "::" + name
	if c.Module.Func(funcName) != nil {
		return errors.New(errors.DuplicateIdent, decl.Pos(),
			"function `%s` already exists for struct `%s`", name, decl.StructName)
	}

	params := []ir.Type{ir.Ptr(structure)}
	variadic := false
	if decl.Params != nil {
		variadic = decl.Params.Variadic
		for _, p := range decl.Params.Params {
			t, err := c.ResolveValueType(p.Type)
			if err != nil {
				return err
			}
			params = append(params, t)
		}
	} else if decl.ParamTypes != nil {
		types, v, err := c.ResolveTypeList(decl.ParamTypes)
		if err != nil {
			return err
		}
		params = append(params, types...)
		variadic = v
	}

	ret := c.Auto()
	if decl.Returns != nil {
		t, err := c.ResolveValueType(decl.Returns)
		if err != nil {
			return err
		}
		ret = t
	}

	fn := c.Module.NewFunc(funcName, ir.FuncOf(ret, params, variadic))
	fn.Params[0].SetName("this")
	fn.AddParamAttr(0, ir.AttrNest)
	if !decl.Mut {
		fn.AddParamAttr(0, ir.AttrReadOnly)
	}
	if decl.Params != nil {
		for i, p := range decl.Params.Params {
			fn.Params[i+1].SetName(p.Name)
		}
	}

	if decl.Body == nil {
		return errors.New(errors.NotImplemented, decl.Pos(),
			"defaulted struct operators not implemented")
	}
	_, err := c.buildFunction(fn, decl.Body, decl.Pos())
	return err
}
