package ir

// Block is a basic block: a named instruction sequence ending (once
// complete) in a single terminator.
type Block struct {
	BlockName string
	Instrs    []*Instr

	fn *Func
}

// Name returns the block label.
func (b *Block) Name() string { return b.BlockName }

// Parent returns the function containing the block.
func (b *Block) Parent() *Func { return b.fn }

// Empty reports whether the block holds no instructions.
func (b *Block) Empty() bool { return len(b.Instrs) == 0 }

// Terminator returns the block's terminator, or nil while the block is
// still open.
func (b *Block) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	if last := b.Instrs[len(b.Instrs)-1]; last.IsTerminator() {
		return last
	}
	return nil
}

// Terminated reports whether the block ends in a terminator.
func (b *Block) Terminated() bool { return b.Terminator() != nil }

// Succs returns the block's successors in terminator operand order.
func (b *Block) Succs() []*Block {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	return term.Blocks
}

// Preds returns every block of the function branching to b.
func (b *Block) Preds() []*Block {
	var preds []*Block
	for _, blk := range b.fn.Blocks {
		for _, succ := range blk.Succs() {
			if succ == b {
				preds = append(preds, blk)
				break
			}
		}
	}
	return preds
}

// SinglePred returns the block's sole predecessor, or nil when it has zero
// or several.
func (b *Block) SinglePred() *Block {
	preds := b.Preds()
	if len(preds) != 1 {
		return nil
	}
	return preds[0]
}

// MoveAfter repositions b immediately after other in the function's block
// list.
func (b *Block) MoveAfter(other *Block) {
	if b == other {
		return
	}
	blocks := b.fn.Blocks
	out := blocks[:0:0]
	for _, blk := range blocks {
		if blk == b {
			continue
		}
		out = append(out, blk)
		if blk == other {
			out = append(out, b)
		}
	}
	b.fn.Blocks = out
}

// EraseFromParent removes the block from its function.
func (b *Block) EraseFromParent() {
	blocks := b.fn.Blocks
	for i, blk := range blocks {
		if blk == b {
			b.fn.Blocks = append(blocks[:i], blocks[i+1:]...)
			break
		}
	}
	b.fn = nil
}
