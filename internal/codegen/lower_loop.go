package codegen

import (
	"strings"

	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// lowerWhile emits the loop shape the defer engine and break lowering are
// written against: the condition is evaluated before the loop and again at
// the end of the body, both branching to a dedicated deferBlock that feeds
// the continuation. Deferred statements inject into deferBlock, so they
// replay on every loop exit.
func (c *Context) lowerWhile(b *ir.Builder, s *ast.While) error {
	fn := b.Func()
	block := fn.NewBlock("while")
	deferBlk := fn.NewBlock("deferBlock")
	cont := fn.NewBlock("cont")

	cond, err := c.LowerExpr(b, s.Cond)
	if err != nil {
		return err
	}
	b.CreateCondBr(loadIfLValue(b, cond), block, deferBlk)

	b.SetInsertPoint(block)
	if err := c.LowerStmt(b, s.Body); err != nil {
		return err
	}
	cond, err = c.LowerExpr(b, s.Cond)
	if err != nil {
		return err
	}
	b.CreateCondBr(loadIfLValue(b, cond), block, deferBlk)

	deferBlk.MoveAfter(b.InsertBlock())
	b.SetInsertPoint(deferBlk)
	b.CreateBr(cont)
	cont.MoveAfter(deferBlk)
	b.SetInsertPoint(cont)

	c.loopExits[s] = deferBlk
	return nil
}

// lowerBreak branches to the continuation of the nearest enclosing loop,
// found by walking blocks and their predecessors for the loop header name
// prefix. The continuation is the second successor of the branch dominating
// the loop block, so deferred statements still run on the way out.
func (c *Context) lowerBreak(b *ir.Builder, s *ast.Break) error {
	if !c.handleBreak(b, b.InsertBlock(), map[*ir.Block]bool{}) {
		return errors.New(errors.StrayBreak, s.Pos(),
			"could not find a loop to break out of")
	}
	c.continueInDeadBlock(b)
	return nil
}

func (c *Context) handleBreak(b *ir.Builder, blk *ir.Block, seen map[*ir.Block]bool) bool {
	if seen[blk] {
		return false
	}
	seen[blk] = true

	name := blk.Name()
	if strings.HasPrefix(name, "while") || strings.HasPrefix(name, "for") {
		single := blk.SinglePred()
		if single == nil {
			return false
		}
		term := single.Terminator()
		if term == nil || len(term.Blocks) < 2 {
			return false
		}
		b.CreateBr(term.Blocks[1])
		return true
	}
	for _, pred := range blk.Preds() {
		if c.handleBreak(b, pred, seen) {
			return true
		}
	}
	return false
}
