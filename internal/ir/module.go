package ir

// DataLayout answers target size and alignment queries.
type DataLayout struct {
	PointerBits int
}

// TypeBits returns the size of t in bits. Aggregates are summed without
// padding; the lowering only relies on primitive and pointer widths.
func (dl DataLayout) TypeBits(t Type) int {
	switch t := t.(type) {
	case *VoidType:
		return 0
	case *IntType:
		return t.Bits
	case *FloatType:
		return t.Bits
	case *PointerType, *FuncType:
		return dl.PointerBits
	case *ArrayType:
		return t.Len * dl.TypeBits(t.Elem)
	case *StructType:
		total := 0
		for _, f := range t.Fields {
			total += dl.TypeBits(f)
		}
		return total
	}
	return 0
}

// ABIAlignBytes returns the byte alignment of t.
func (dl DataLayout) ABIAlignBytes(t Type) int {
	switch t := t.(type) {
	case *PointerType, *FuncType:
		return dl.PointerBits / 8
	case *ArrayType:
		return dl.ABIAlignBytes(t.Elem)
	case *StructType:
		align := 1
		for _, f := range t.Fields {
			if a := dl.ABIAlignBytes(f); a > align {
				align = a
			}
		}
		return align
	}
	bytes := (PrimitiveBits(t) + 7) / 8
	if bytes == 0 {
		bytes = 1
	}
	if bytes > 8 {
		bytes = 8
	}
	return bytes
}

// Module owns every IR entity produced while lowering one source module.
type Module struct {
	ModuleName string
	Funcs      []*Func
	Globals    []*Global
	Layout     DataLayout

	structs     map[string]*StructType
	structOrder []string
}

// NewModule returns an empty module with a 64-bit default layout.
func NewModule(name string) *Module {
	return &Module{
		ModuleName: name,
		Layout:     DataLayout{PointerBits: 64},
		structs:    make(map[string]*StructType),
	}
}

// Func returns the named function, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.FuncName == name {
			return f
		}
	}
	return nil
}

// NewFunc creates and registers a function with the given signature.
func (m *Module) NewFunc(name string, sig *FuncType) *Func {
	fn := newFunc(name, sig, m)
	m.Funcs = append(m.Funcs, fn)
	return fn
}

// GetOrInsertFunc returns the named function, declaring it with the given
// signature when absent.
func (m *Module) GetOrInsertFunc(name string, sig *FuncType) *Func {
	if fn := m.Func(name); fn != nil {
		return fn
	}
	return m.NewFunc(name, sig)
}

// RemoveFunc detaches the function from the module.
func (m *Module) RemoveFunc(fn *Func) {
	for i, f := range m.Funcs {
		if f == fn {
			m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
			return
		}
	}
}

// Global returns the named global, or nil.
func (m *Module) Global(name string) *Global {
	for _, g := range m.Globals {
		if g.GlobalName == name {
			return g
		}
	}
	return nil
}

// NewGlobal creates and registers a module-level variable.
func (m *Module) NewGlobal(name string, elem Type, init *Const) *Global {
	g := &Global{GlobalName: name, Elem: elem, Init: init}
	m.Globals = append(m.Globals, g)
	return g
}

// StructType returns the named struct type, or nil.
func (m *Module) StructType(name string) *StructType {
	return m.structs[name]
}

// NewStructType creates and registers a named struct type. An existing
// registration with the same name is returned unchanged.
func (m *Module) NewStructType(name string, fields []Type) *StructType {
	if st, ok := m.structs[name]; ok {
		return st
	}
	st := &StructType{TypeName: name, Fields: fields}
	m.structs[name] = st
	m.structOrder = append(m.structOrder, name)
	return st
}
