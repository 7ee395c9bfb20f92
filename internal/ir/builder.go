package ir

import "fmt"

// Builder appends instructions at the end of an insertion block; once the
// block is terminated, further non-terminators go just ahead of the
// terminator. The
// insertion point is the only mutable lowering-wide state; every statement
// leaves it on the block where execution logically continues.
type Builder struct {
	blk *Block
}

// NewBuilder returns a builder inserting into blk.
func NewBuilder(blk *Block) *Builder { return &Builder{blk: blk} }

// SetInsertPoint moves the builder to the end of blk.
func (b *Builder) SetInsertPoint(blk *Block) { b.blk = blk }

// InsertBlock returns the current insertion block.
func (b *Builder) InsertBlock() *Block { return b.blk }

// Func returns the function containing the insertion block.
func (b *Builder) Func() *Func { return b.blk.fn }

// Module returns the module containing the insertion block.
func (b *Builder) Module() *Module { return b.blk.fn.mod }

func (b *Builder) insert(in *Instr) *Instr {
	in.blk = b.blk
	// scope-exit code lands in blocks that already branch onward; it is
	// injected ahead of the terminator so the block stays well-formed
	if term := b.blk.Terminator(); term != nil && !in.IsTerminator() {
		b.blk.Instrs[len(b.blk.Instrs)-1] = in
		b.blk.Instrs = append(b.blk.Instrs, term)
		return in
	}
	b.blk.Instrs = append(b.blk.Instrs, in)
	return in
}

// CreateAlloca reserves a stack slot for one value of t.
func (b *Builder) CreateAlloca(t Type, name string) *Instr {
	in := &Instr{Op: OpAlloca, Typ: Ptr(t), name: name}
	return b.insert(in)
}

// CreateLoad reads through a pointer-typed value.
func (b *Builder) CreateLoad(ptr Value) *Instr {
	pt, ok := ptr.Type().(*PointerType)
	if !ok {
		panic(fmt.Sprintf("ir: load through non-pointer %s", ptr.Type()))
	}
	return b.insert(&Instr{Op: OpLoad, Typ: pt.Elem, Args: []Value{ptr}})
}

// CreateStore writes val through ptr.
func (b *Builder) CreateStore(val, ptr Value) *Instr {
	return b.insert(&Instr{Op: OpStore, Args: []Value{val, ptr}})
}

// CreateStructGEP yields a pointer to field idx of the struct behind ptr.
func (b *Builder) CreateStructGEP(st Type, ptr Value, idx int, name string) *Instr {
	s, ok := st.(*StructType)
	if !ok || idx >= len(s.Fields) {
		panic(fmt.Sprintf("ir: struct gep into %s index %d", st, idx))
	}
	in := &Instr{Op: OpGEP, Typ: Ptr(s.Fields[idx]), Args: []Value{ptr}, Index: idx, name: name}
	return b.insert(in)
}

// CreateElemGEP yields a pointer to element idx of the array behind ptr.
func (b *Builder) CreateElemGEP(ptr, idx Value) *Instr {
	pt, ok := ptr.Type().(*PointerType)
	if !ok {
		panic(fmt.Sprintf("ir: element gep through non-pointer %s", ptr.Type()))
	}
	at, ok := pt.Elem.(*ArrayType)
	if !ok {
		panic(fmt.Sprintf("ir: element gep into non-array %s", pt.Elem))
	}
	return b.insert(&Instr{Op: OpGEP, Typ: Ptr(at.Elem), Args: []Value{ptr, idx}, Index: -1})
}

// CreateCall invokes callee with args. The callee must be function-typed or
// a pointer to a function type.
func (b *Builder) CreateCall(callee Value, args ...Value) *Instr {
	sig := calleeSig(callee)
	operands := append([]Value{callee}, args...)
	in := &Instr{Op: OpCall, Args: operands}
	if _, void := sig.Ret.(*VoidType); !void {
		in.Typ = sig.Ret
	}
	return b.insert(in)
}

func calleeSig(callee Value) *FuncType {
	switch t := callee.Type().(type) {
	case *FuncType:
		return t
	case *PointerType:
		if sig, ok := t.Elem.(*FuncType); ok {
			return sig
		}
	}
	panic(fmt.Sprintf("ir: call through non-function %s", callee.Type()))
}

// CreateBr branches unconditionally to target.
func (b *Builder) CreateBr(target *Block) *Instr {
	return b.insert(&Instr{Op: OpBr, Blocks: []*Block{target}})
}

// CreateCondBr branches to then when cond is true, otherwise to els.
func (b *Builder) CreateCondBr(cond Value, then, els *Block) *Instr {
	return b.insert(&Instr{Op: OpCondBr, Args: []Value{cond}, Blocks: []*Block{then, els}})
}

// CreateRet returns v from the function.
func (b *Builder) CreateRet(v Value) *Instr {
	return b.insert(&Instr{Op: OpRet, Args: []Value{v}})
}

// CreateRetVoid returns from a void function.
func (b *Builder) CreateRetVoid() *Instr {
	return b.insert(&Instr{Op: OpRet})
}

// CreateBinOp applies a two-operand arithmetic or bitwise opcode.
func (b *Builder) CreateBinOp(op Op, lhs, rhs Value) *Instr {
	return b.insert(&Instr{Op: op, Typ: lhs.Type(), Args: []Value{lhs, rhs}})
}

func (b *Builder) cast(op Op, v Value, to Type) *Instr {
	return b.insert(&Instr{Op: op, Typ: to, Args: []Value{v}})
}

// CreateZExt zero-extends an integer.
func (b *Builder) CreateZExt(v Value, to Type) *Instr { return b.cast(OpZExt, v, to) }

// CreateSExt sign-extends an integer.
func (b *Builder) CreateSExt(v Value, to Type) *Instr { return b.cast(OpSExt, v, to) }

// CreateTrunc truncates an integer.
func (b *Builder) CreateTrunc(v Value, to Type) *Instr { return b.cast(OpTrunc, v, to) }

// CreateZExtOrTrunc widens or narrows an integer as needed; a same-width
// value passes through untouched.
func (b *Builder) CreateZExtOrTrunc(v Value, to Type) Value {
	from := PrimitiveBits(v.Type())
	target := PrimitiveBits(to)
	switch {
	case from == target:
		return v
	case from < target:
		return b.CreateZExt(v, to)
	default:
		return b.CreateTrunc(v, to)
	}
}

// CreateFPTrunc narrows a float.
func (b *Builder) CreateFPTrunc(v Value, to Type) *Instr { return b.cast(OpFPTrunc, v, to) }

// CreateFPExt widens a float.
func (b *Builder) CreateFPExt(v Value, to Type) *Instr { return b.cast(OpFPExt, v, to) }

// CreateFPToSI converts a float to a signed integer.
func (b *Builder) CreateFPToSI(v Value, to Type) *Instr { return b.cast(OpFPToSI, v, to) }

// CreateSIToFP converts a signed integer to a float.
func (b *Builder) CreateSIToFP(v Value, to Type) *Instr { return b.cast(OpSIToFP, v, to) }

// CreateBitCast reinterprets v as to without changing bits.
func (b *Builder) CreateBitCast(v Value, to Type) *Instr { return b.cast(OpBitCast, v, to) }
