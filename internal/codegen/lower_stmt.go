package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// LowerStmt lowers one statement at the builder's insertion point, leaving
// the insertion point on the block where execution logically continues.
func (c *Context) LowerStmt(b *ir.Builder, s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Body:
		return c.lowerBody(b, s)
	case *ast.Return:
		return c.lowerReturn(b, s)
	case *ast.Break:
		return c.lowerBreak(b, s)
	case *ast.Defer:
		// recorded by the enclosing body; replayed at scope exit
		return nil
	case *ast.While:
		return c.lowerWhile(b, s)
	case *ast.If:
		return c.lowerIf(b, s)
	case *ast.DeclAssign:
		return c.lowerDeclAssign(b, s)
	case *ast.Assign:
		return c.lowerAssign(b, s)
	case *ast.OpEq:
		return c.lowerOpEq(b, s)
	case *ast.TypeSwitch:
		return c.lowerTypeSwitch(b, s)
	case *ast.FuncCallStmt:
		return c.lowerCallStmt(b, s)
	case *ast.StepStmt:
		_, err := c.LowerExpr(b, s.Step)
		return err
	case *ast.Comment:
		return nil
	case *ast.UnsupportedStmt:
		return errors.New(errors.NotImplemented, s.Pos(), "%s not implemented", s.Feature)
	default:
		return errors.New(errors.NotImplemented, s.Pos(), "statement kind not implemented")
	}
}

// lowerDeclAssign binds names: `let mut? names (: type)? = exprs`. The `_`
// target evaluates its expression and discards the result.
func (c *Context) lowerDeclAssign(b *ir.Builder, s *ast.DeclAssign) error {
	if len(s.Names) != len(s.Exprs) {
		return errors.New(errors.ArityMismatch, s.Pos(),
			"expected %d values in declaration, got %d", len(s.Names), len(s.Exprs))
	}
	var declared ir.Type
	if s.Type != nil {
		t, err := c.ResolveValueType(s.Type)
		if err != nil {
			return err
		}
		declared = t
	}
	for i, name := range s.Names {
		val, err := c.LowerExpr(b, s.Exprs[i])
		if err != nil {
			return err
		}
		val = loadIfLValue(b, val)
		if name == "_" {
			continue
		}
		if err := c.checkLocalUnique(b, name, s.Pos()); err != nil {
			return err
		}
		if declared != nil && !val.Type().Equal(declared) {
			return errors.New(errors.TypeMismatch, s.Pos(),
				"cannot initialize `%s` of type `%s` with a value of type `%s`",
				name, declared, val.Type())
		}
		slot := b.CreateAlloca(val.Type(), name)
		b.CreateStore(val, slot)
	}
	return nil
}

// lowerAssign stores through an existing l-value; stores into the discard
// sink vanish.
func (c *Context) lowerAssign(b *ir.Builder, s *ast.Assign) error {
	target, err := c.LowerExpr(b, s.Target)
	if err != nil {
		return err
	}
	val, err := c.LowerExpr(b, s.Value)
	if err != nil {
		return err
	}
	val = loadIfLValue(b, val)

	if g, ok := target.(*ir.Global); ok && g.GlobalName == "_" {
		return nil
	}
	if !isLValue(target) {
		return errors.New(errors.TypeMismatch, s.Pos(), "assignment target is not assignable")
	}
	elem := target.Type().(*ir.PointerType).Elem
	if !val.Type().Equal(elem) {
		return errors.New(errors.TypeMismatch, s.Pos(),
			"cannot assign a value of type `%s` to a target of type `%s`",
			val.Type(), elem)
	}
	b.CreateStore(val, target)
	return nil
}

// lowerOpEq applies a compound assignment through the operator table.
func (c *Context) lowerOpEq(b *ir.Builder, s *ast.OpEq) error {
	target, err := c.LowerExpr(b, s.Target)
	if err != nil {
		return err
	}
	if !isLValue(target) {
		return errors.New(errors.TypeMismatch, s.Pos(), "assignment target is not assignable")
	}
	current := b.CreateLoad(target)
	val, err := c.LowerExpr(b, s.Value)
	if err != nil {
		return err
	}
	val = loadIfLValue(b, val)

	key := s.Op
	if ir.IsFloat(current.Type()) {
		if _, ok := c.ops[key+"f"]; ok {
			key += "f"
		}
	}
	op, ok := c.ops[key]
	if !ok {
		return errors.New(errors.NotImplemented, s.Pos(),
			"operator `%s=` not implemented", s.Op)
	}
	b.CreateStore(op(b, current, val), target)
	return nil
}

// lowerReturn emits a return; several values aggregate into an anonymous
// struct.
func (c *Context) lowerReturn(b *ir.Builder, s *ast.Return) error {
	switch len(s.Values) {
	case 0:
		b.CreateRetVoid()
	case 1:
		v, err := c.LowerExpr(b, s.Values[0])
		if err != nil {
			return err
		}
		b.CreateRet(loadIfLValue(b, v))
	default:
		var vals []ir.Value
		var types []ir.Type
		for _, e := range s.Values {
			v, err := c.LowerExpr(b, e)
			if err != nil {
				return err
			}
			v = loadIfLValue(b, v)
			vals = append(vals, v)
			types = append(types, v.Type())
		}
		aggregate := ir.StructOf(types...)
		slot := b.CreateAlloca(aggregate, "")
		for i, v := range vals {
			b.CreateStore(v, b.CreateStructGEP(aggregate, slot, i, ""))
		}
		b.CreateRet(b.CreateLoad(slot))
	}
	return nil
}

// lowerIf branches on a condition into then/else arms joining at a
// continuation block.
func (c *Context) lowerIf(b *ir.Builder, s *ast.If) error {
	cond, err := c.LowerExpr(b, s.Cond)
	if err != nil {
		return err
	}
	cond = loadIfLValue(b, cond)

	fn := b.Func()
	thenBlk := fn.NewBlock("then")
	var elseBlk *ir.Block
	cont := fn.NewBlock("cont")
	if s.Else != nil {
		elseBlk = fn.NewBlock("else")
		elseBlk.MoveAfter(thenBlk)
		b.CreateCondBr(cond, thenBlk, elseBlk)
	} else {
		b.CreateCondBr(cond, thenBlk, cont)
	}

	b.SetInsertPoint(thenBlk)
	if err := c.LowerStmt(b, s.Then); err != nil {
		return err
	}
	if !b.InsertBlock().Terminated() {
		b.CreateBr(cont)
	}

	if s.Else != nil {
		b.SetInsertPoint(elseBlk)
		if err := c.LowerStmt(b, s.Else); err != nil {
			return err
		}
		if !b.InsertBlock().Terminated() {
			b.CreateBr(cont)
		}
	}

	cont.MoveAfter(fn.Last())
	b.SetInsertPoint(cont)
	return nil
}

// lowerCallStmt evaluates a call for its effect and warns when a non-void
// result is discarded.
func (c *Context) lowerCallStmt(b *ir.Builder, s *ast.FuncCallStmt) error {
	ret, err := c.lowerFuncCall(b, s.Call)
	if err != nil {
		return err
	}
	if !ret.Type().Equal(ir.Void) {
		c.warnf(s.Pos(), "function return value discarded")
	}
	return nil
}

// continueInDeadBlock parks the insertion point on a fresh unreachable
// block so statements after a terminator lower without corrupting the
// emitted control flow; unreachable blocks are pruned at function
// finalization.
func (c *Context) continueInDeadBlock(b *ir.Builder) {
	b.SetInsertPoint(b.Func().NewBlock(""))
}
