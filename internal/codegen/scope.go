package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// deferral records one deferred statement and the block that was current
// when it was recorded.
type deferral struct {
	origin *ir.Block
	stmt   ast.Stmt
}

// bodyInfo is the per-scope lowering state: the deferral list, most recent
// first.
type bodyInfo struct {
	deferrals []deferral
}

// lowerBody lowers a lexical scope. Defer statements are recorded at the
// front of the scope's deferral list so replay is LIFO.
func (c *Context) lowerBody(b *ir.Builder, body *ast.Body) error {
	info := &bodyInfo{}
	c.bodies[body] = info
	for _, s := range body.Stmts {
		if err := c.LowerStmt(b, s); err != nil {
			return err
		}
		if d, ok := s.(*ast.Defer); ok {
			info.deferrals = append([]deferral{{origin: b.InsertBlock(), stmt: d.Stmt}},
				info.deferrals...)
		}
	}
	return nil
}

// RunScopeExit replays a statement's scope-exit obligations: nested scopes
// first, then the recorded defers, then any body tags. The builder's
// insertion point is restored afterwards.
func (c *Context) RunScopeExit(b *ir.Builder, s ast.Stmt) error {
	saved := b.InsertBlock()
	defer b.SetInsertPoint(saved)

	switch s := s.(type) {
	case *ast.Body:
		return c.runBodyScopeExit(b, s)
	case *ast.While:
		if deferBlk := c.loopExits[s]; deferBlk != nil {
			b.SetInsertPoint(deferBlk)
			return c.RunScopeExit(b, s.Body)
		}
		return nil
	case *ast.If:
		if err := c.RunScopeExit(b, s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return c.RunScopeExit(b, s.Else)
		}
		return nil
	default:
		return nil
	}
}

func (c *Context) runBodyScopeExit(b *ir.Builder, body *ast.Body) error {
	current := b.InsertBlock()
	for _, s := range body.Stmts {
		if _, isDefer := s.(*ast.Defer); !isDefer {
			if err := c.RunScopeExit(b, s); err != nil {
				return err
			}
		}
	}

	info := c.bodies[body]
	if info != nil {
		for _, d := range info.deferrals {
			if err := c.applyDefer(b, current, d.origin, d.stmt, map[*ir.Block]bool{}); err != nil {
				return err
			}
		}
	}

	if len(body.Tags) > 0 {
		return c.handleTags(b, body.Tags)
	}
	return nil
}

// applyDefer replays one deferred statement on every control-flow exit
// reachable from its origin block. The seen set keeps the walk from
// spinning on loop back-edges.
func (c *Context) applyDefer(b *ir.Builder, current, origin *ir.Block, stmt ast.Stmt, seen map[*ir.Block]bool) error {
	if origin == current {
		b.SetInsertPoint(origin)
		return c.runDeferred(b, stmt)
	}
	if seen[origin] {
		return nil
	}
	seen[origin] = true
	for _, succ := range origin.Succs() {
		if succ == current || len(succ.Succs()) == 0 {
			b.SetInsertPoint(succ)
			if err := c.runDeferred(b, stmt); err != nil {
				return err
			}
		} else {
			if err := c.applyDefer(b, current, succ, stmt, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// runDeferred emits the deferred statement itself, then its own scope-exit
// obligations.
func (c *Context) runDeferred(b *ir.Builder, stmt ast.Stmt) error {
	if err := c.LowerStmt(b, stmt); err != nil {
		return err
	}
	return c.RunScopeExit(b, stmt)
}

var internalTags = map[string]ir.Attr{
	"noinline":   ir.AttrNoInline,
	"inline":     ir.AttrInlineHint,
	"mustinline": ir.AttrAlwaysInline,
	"noreturn":   ir.AttrNoReturn,
}

// handleTags applies body attributes to the enclosing function.
func (c *Context) handleTags(b *ir.Builder, tags []ast.Tag) error {
	fn := b.Func()
	for _, tag := range tags {
		attr, ok := internalTags[tag.Name]
		if !ok {
			return errors.New(errors.UnknownTag, tag.Pos,
				"tag `%s` not implemented", tag.Name)
		}
		fn.AddAttr(attr)
	}
	return nil
}
