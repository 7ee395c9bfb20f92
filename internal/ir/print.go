package ir

import (
	"fmt"
	"sort"
	"strings"
)

// String renders the module as deterministic IR text. The syntax follows
// the LLVM assembly shape closely enough to eyeball, but is not meant to be
// fed back into any assembler.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; module '%s'\n", m.ModuleName)

	for _, name := range m.structOrder {
		st := m.structs[name]
		fields := make([]string, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = f.String()
		}
		fmt.Fprintf(&sb, "%%%s = type { %s }\n", quoteName(name), strings.Join(fields, ", "))
	}

	for _, g := range m.Globals {
		kind := "global"
		if g.Immutable {
			kind = "constant"
		}
		init := "zeroinitializer"
		if g.Init != nil {
			init = g.Init.valueString()
		}
		fmt.Fprintf(&sb, "@%s = %s %s %s\n", quoteName(g.GlobalName), kind, g.Elem.String(), init)
	}

	for _, fn := range m.Funcs {
		sb.WriteByte('\n')
		sb.WriteString(fn.string())
	}
	return sb.String()
}

func (f *Func) string() string {
	names := f.numberValues()

	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		var attrs string
		for _, a := range sortedAttrs(f.paramAttrs[i]) {
			attrs += a.String() + " "
		}
		params[i] = fmt.Sprintf("%s %s%s", p.Typ.String(), attrs, names.vals[p])
	}
	if f.Sig.Variadic {
		params = append(params, "...")
	}
	keyword := "define"
	if f.IsDeclaration() {
		keyword = "declare"
	}
	fmt.Fprintf(&sb, "%s %s @%s(%s)", keyword, f.Sig.Ret.String(),
		quoteName(f.FuncName), strings.Join(params, ", "))
	for _, a := range sortedAttrs(f.attrs) {
		sb.WriteString(" " + a.String())
	}
	if f.IsDeclaration() {
		sb.WriteByte('\n')
		return sb.String()
	}
	sb.WriteString(" {\n")
	for i, blk := range f.Blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s:\n", names.block(blk))
		for _, in := range blk.Instrs {
			sb.WriteString("  " + in.string(names) + "\n")
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// valueNames maps values and blocks to their printed names. Unnamed values
// and blocks are numbered in program order, per function.
type valueNames struct {
	vals   map[Value]string
	blocks map[*Block]string
}

func (f *Func) numberValues() *valueNames {
	names := &valueNames{vals: make(map[Value]string), blocks: make(map[*Block]string)}
	next := 0
	fresh := func(name string) string {
		if name != "" {
			return "%" + quoteName(name)
		}
		next++
		return fmt.Sprintf("%%%d", next-1)
	}
	for _, p := range f.Params {
		names.vals[p] = fresh(p.ParamName)
	}
	seen := map[string]int{}
	for _, blk := range f.Blocks {
		label := blk.BlockName
		if label == "" {
			label = "bb"
		}
		if n := seen[label]; n > 0 {
			names.blocks[blk] = fmt.Sprintf("%s.%d", label, n)
		} else {
			names.blocks[blk] = label
		}
		seen[label]++
		for _, in := range blk.Instrs {
			if _, void := in.Type().(*VoidType); void {
				continue
			}
			names.vals[in] = fresh(in.name)
		}
	}
	return names
}

func (v *valueNames) operand(val Value) string {
	switch val := val.(type) {
	case *Const:
		return val.valueString()
	case *Global:
		return "@" + quoteName(val.GlobalName)
	case *Func:
		return "@" + quoteName(val.FuncName)
	}
	if name, ok := v.vals[val]; ok {
		return name
	}
	if n := val.Name(); n != "" {
		return "%" + quoteName(n)
	}
	return "%?"
}

func (v *valueNames) typed(val Value) string {
	return val.Type().String() + " " + v.operand(val)
}

func (v *valueNames) block(blk *Block) string { return v.blocks[blk] }

func (in *Instr) string(names *valueNames) string {
	assign := ""
	if _, void := in.Type().(*VoidType); !void && in.Op != OpStore {
		assign = names.vals[in] + " = "
	}
	switch in.Op {
	case OpAlloca:
		return fmt.Sprintf("%s%s %s", assign, in.Op, in.Typ.(*PointerType).Elem.String())
	case OpLoad:
		return fmt.Sprintf("%s%s %s, %s", assign, in.Op, in.Typ.String(), names.typed(in.Args[0]))
	case OpStore:
		return fmt.Sprintf("%s %s, %s", in.Op, names.typed(in.Args[0]), names.typed(in.Args[1]))
	case OpGEP:
		base := in.Args[0]
		elem := base.Type().(*PointerType).Elem
		if in.Index >= 0 {
			return fmt.Sprintf("%s%s %s, %s, i32 0, i32 %d",
				assign, in.Op, elem.String(), names.typed(base), in.Index)
		}
		return fmt.Sprintf("%s%s %s, %s, i32 0, %s",
			assign, in.Op, elem.String(), names.typed(base), names.typed(in.Args[1]))
	case OpCall:
		callee := in.Args[0]
		args := make([]string, len(in.Args)-1)
		for i, a := range in.Args[1:] {
			args[i] = names.typed(a)
		}
		ret := "void"
		if in.Typ != nil {
			ret = in.Typ.String()
		}
		return fmt.Sprintf("%s%s %s %s(%s)", assign, in.Op, ret,
			names.operand(callee), strings.Join(args, ", "))
	case OpBr:
		return fmt.Sprintf("%s label %%%s", in.Op, names.block(in.Blocks[0]))
	case OpCondBr:
		return fmt.Sprintf("%s %s, label %%%s, label %%%s", in.Op,
			names.typed(in.Args[0]), names.block(in.Blocks[0]), names.block(in.Blocks[1]))
	case OpRet:
		if len(in.Args) == 0 {
			return "ret void"
		}
		return "ret " + names.typed(in.Args[0])
	case OpZExt, OpSExt, OpTrunc, OpFPTrunc, OpFPExt, OpFPToSI, OpSIToFP, OpBitCast:
		return fmt.Sprintf("%s%s %s to %s", assign, in.Op, names.typed(in.Args[0]), in.Typ.String())
	default:
		return fmt.Sprintf("%s%s %s %s, %s", assign, in.Op,
			in.Args[0].Type().String(), names.operand(in.Args[0]), names.operand(in.Args[1]))
	}
}

func sortedAttrs(set map[Attr]bool) []Attr {
	var attrs []Attr
	for a, ok := range set {
		if ok {
			attrs = append(attrs, a)
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
	return attrs
}
