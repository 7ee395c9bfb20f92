package ir

// Op identifies an instruction opcode.
type Op int

const (
	OpAlloca Op = iota
	OpLoad
	OpStore
	OpGEP
	OpCall
	OpBr
	OpCondBr
	OpRet

	OpAnd
	OpOr
	OpXor
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpSDiv
	OpUDiv
	OpFDiv
	OpSRem
	OpURem
	OpFRem
	OpShl
	OpAShr
	OpLShr

	OpZExt
	OpSExt
	OpTrunc
	OpFPTrunc
	OpFPExt
	OpFPToSI
	OpSIToFP
	OpBitCast
)

var opNames = map[Op]string{
	OpAlloca: "alloca", OpLoad: "load", OpStore: "store", OpGEP: "getelementptr",
	OpCall: "call", OpBr: "br", OpCondBr: "br", OpRet: "ret",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpAdd: "add", OpFAdd: "fadd", OpSub: "sub", OpFSub: "fsub",
	OpMul: "mul", OpFMul: "fmul",
	OpSDiv: "sdiv", OpUDiv: "udiv", OpFDiv: "fdiv",
	OpSRem: "srem", OpURem: "urem", OpFRem: "frem",
	OpShl: "shl", OpAShr: "ashr", OpLShr: "lshr",
	OpZExt: "zext", OpSExt: "sext", OpTrunc: "trunc",
	OpFPTrunc: "fptrunc", OpFPExt: "fpext",
	OpFPToSI: "fptosi", OpSIToFP: "sitofp", OpBitCast: "bitcast",
}

func (op Op) String() string { return opNames[op] }

// Instr is a single instruction. Args carries the value operands; Blocks
// the branch targets; Index the field index of a struct GEP.
type Instr struct {
	Op     Op
	Typ    Type
	Args   []Value
	Blocks []*Block
	Index  int

	name string
	blk  *Block
}

func (in *Instr) Type() Type {
	if in.Typ == nil {
		return Void
	}
	return in.Typ
}

func (in *Instr) Name() string { return in.name }

// SetName renames the instruction's result.
func (in *Instr) SetName(name string) { in.name = name }

// Block returns the basic block holding the instruction.
func (in *Instr) Block() *Block { return in.blk }

// IsTerminator reports whether the instruction ends a basic block.
func (in *Instr) IsTerminator() bool {
	return in.Op == OpBr || in.Op == OpCondBr || in.Op == OpRet
}
