package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerTypeSwitch dispatches on the scrutinee's static type at compile
// time. The scrutinee is lowered into a throw-away block that is erased
// once its type is known; only the first matching arm (or the default) is
// lowered into the real builder.
func (c *Context) lowerTypeSwitch(b *ir.Builder, s *ast.TypeSwitch) error {
	fn := b.Func()
	tempBlk := fn.NewBlock("")
	tmp := ir.NewBuilder(tempBlk)
	v, err := c.LowerExpr(tmp, s.Scrutinee)
	if err == nil {
		v = loadIfLValue(tmp, v)
	}
	tempBlk.EraseFromParent()
	if err != nil {
		return err
	}
	scrutinee := v.Type()

	matched := false
	for _, arm := range s.Arms {
		if matched {
			break
		}
		types, variadic, err := c.ResolveTypeList(arm.Types)
		if err != nil {
			return err
		}
		if variadic {
			return errors.New(errors.VariadicInTypeSwitch, s.Pos(),
				"cannot use a variadic type in type switch")
		}
		for _, t := range types {
			if scrutinee.Equal(t) {
				matched = true
				if err := c.LowerStmt(b, arm.Body); err != nil {
					return err
				}
				if err := c.RunScopeExit(b, arm.Body); err != nil {
					return err
				}
				break
			}
		}
	}
	if !matched && s.Default != nil {
		if err := c.LowerStmt(b, s.Default); err != nil {
			return err
		}
		return c.RunScopeExit(b, s.Default)
	}
	return nil
}
