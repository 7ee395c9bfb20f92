package ir

// Attr is a function or parameter attribute.
type Attr int

const (
	AttrNest Attr = iota
	AttrReadOnly
	AttrNoInline
	AttrInlineHint
	AttrAlwaysInline
	AttrNoReturn
)

var attrNames = map[Attr]string{
	AttrNest: "nest", AttrReadOnly: "readonly",
	AttrNoInline: "noinline", AttrInlineHint: "inlinehint",
	AttrAlwaysInline: "alwaysinline", AttrNoReturn: "noreturn",
}

func (a Attr) String() string { return attrNames[a] }

// Func is a function definition (or declaration, when it has no blocks).
// Its value type is a pointer to its function type.
type Func struct {
	FuncName string
	Sig      *FuncType
	Params   []*Param
	Blocks   []*Block

	attrs      map[Attr]bool
	paramAttrs []map[Attr]bool
	mod        *Module
}

func newFunc(name string, sig *FuncType, mod *Module) *Func {
	fn := &Func{
		FuncName:   name,
		Sig:        sig,
		attrs:      make(map[Attr]bool),
		paramAttrs: make([]map[Attr]bool, len(sig.Params)),
		mod:        mod,
	}
	for i, pt := range sig.Params {
		fn.Params = append(fn.Params, &Param{Typ: pt})
		fn.paramAttrs[i] = make(map[Attr]bool)
	}
	return fn
}

func (f *Func) Type() Type   { return Ptr(f.Sig) }
func (f *Func) Name() string { return f.FuncName }

// SetName renames the function without touching the module index.
func (f *Func) SetName(name string) { f.FuncName = name }

// Module returns the owning module.
func (f *Func) Module() *Module { return f.mod }

// IsDeclaration reports whether the function has no body.
func (f *Func) IsDeclaration() bool { return len(f.Blocks) == 0 }

// Entry returns the entry block, nil for declarations.
func (f *Func) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Last returns the final block of the function's block list.
func (f *Func) Last() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[len(f.Blocks)-1]
}

// NewBlock appends a new block to the function.
func (f *Func) NewBlock(name string) *Block {
	blk := &Block{BlockName: name, fn: f}
	f.Blocks = append(f.Blocks, blk)
	return blk
}

// Lookup resolves a name against the function's value symbol table:
// parameters first, then named instruction results.
func (f *Func) Lookup(name string) Value {
	for _, p := range f.Params {
		if p.ParamName == name {
			return p
		}
	}
	for _, blk := range f.Blocks {
		for _, in := range blk.Instrs {
			if in.name == name {
				return in
			}
		}
	}
	return nil
}

// AddAttr sets a function attribute.
func (f *Func) AddAttr(a Attr) { f.attrs[a] = true }

// HasAttr reports whether the function carries the attribute.
func (f *Func) HasAttr(a Attr) bool { return f.attrs[a] }

// AddParamAttr sets an attribute on the i-th parameter.
func (f *Func) AddParamAttr(i int, a Attr) { f.paramAttrs[i][a] = true }

// HasParamAttr reports whether the i-th parameter carries the attribute.
func (f *Func) HasParamAttr(i int, a Attr) bool {
	return i < len(f.paramAttrs) && f.paramAttrs[i][a]
}

// TakeBodyFrom splices other's parameters, attributes and basic blocks into
// f and detaches them from other. Used when a function is rebuilt with a
// different signature after return-type deduction.
func (f *Func) TakeBodyFrom(other *Func) {
	f.Params = other.Params
	f.attrs = other.attrs
	f.paramAttrs = other.paramAttrs
	f.Blocks = other.Blocks
	for _, blk := range f.Blocks {
		blk.fn = f
	}
	other.Blocks = nil
	other.Params = nil
}
