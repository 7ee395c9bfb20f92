// Top-level declarations: functions, structures, interfaces, aliases,
// enumerations and struct member functions.
package ast

import (
	"github.com/slatelang/go-slate/internal/parsetree"
)

// Function is a free function definition.
type Function struct {
	position
	Name    string
	Params  *Args
	Returns *TypeList
	Body    *Body
}

// Args is a function parameter list.
type Args struct {
	Pos      parsetree.Position
	Params   []Param
	Variadic bool
}

// Param is one declared parameter.
type Param struct {
	Mut  bool
	Name string
	Type *TypeRef
}

// Structure declares a named struct and its ordered fields.
type Structure struct {
	position
	Name   string
	Fields []Field
}

// Field is one field group of a structure (several names, one type).
type Field struct {
	Names []string
	Type  *TypeRef
}

// Interface declares a named set of function signatures.
type Interface struct {
	position
	Name     string
	Inherits []InterfaceParent
	Funcs    []IfaceFunc
}

// InterfaceParent names an inherited interface. Scoped parents live in
// other modules.
type InterfaceParent struct {
	Name   string
	Scoped bool
	Pos    parsetree.Position
}

// IfaceFunc is one declared interface function: a function type and an
// optional name (unnamed functions are addressed by index).
type IfaceFunc struct {
	Type *TypeRef
	Name string
}

// Alias binds a name to an existing type.
type Alias struct {
	position
	Name string
	Type *TypeRef
}

// Enum declares an enumeration; enumerators are ordinal int constants.
type Enum struct {
	position
	Name    string
	Members []string
}

// StructFunc is a member function or operator overload attached to a
// struct. Op is set for operator spellings, Name otherwise.
type StructFunc struct {
	position
	Mut        bool
	StructName string
	Name       string
	Op         *OpName
	Params     *Args
	ParamTypes *TypeList
	Returns    *TypeRef
	Body       *Body
}

func (*Function) declNode()   {}
func (*Structure) declNode()  {}
func (*Interface) declNode()  {}
func (*Alias) declNode()      {}
func (*Enum) declNode()       {}
func (*StructFunc) declNode() {}

// NewFunction builds a free function: fn name "(" args? ")" typelist? body.
func NewFunction(n *parsetree.Node) *Function {
	fn := &Function{position: at(n), Name: n.Child(1).Contents}
	for i := 2; i < n.NumChildren(); i++ {
		child := n.Child(i)
		switch parsetree.OutermostTag(child) {
		case "args":
			fn.Params = NewArgs(child)
		case "typelist":
			fn.Returns = NewTypeList(child)
		case "body":
			fn.Body = NewBody(child)
		}
	}
	return fn
}

// NewArgs builds a parameter list from comma-separated arg nodes.
func NewArgs(n *parsetree.Node) *Args {
	args := &Args{Pos: n.Pos}
	for i := 0; i < n.NumChildren(); i += 2 {
		arg := n.Child(i)
		if arg.Contents == "..." {
			args.Variadic = true
			continue
		}
		param := Param{}
		idx := 0
		if arg.Child(idx) != nil && arg.Child(idx).Contents == "mut" {
			param.Mut = true
			idx++
		}
		param.Name = arg.Child(idx).Contents
		param.Type = NewTypeRef(arg.Child(idx + 2))
		args.Params = append(args.Params, param)
	}
	return args
}

// Names returns the declared parameter names in order.
func (a *Args) Names() []string {
	names := make([]string, len(a.Params))
	for i, p := range a.Params {
		names[i] = p.Name
	}
	return names
}

// NewStructure builds: struct name "{" (identlist ":" type ";")* "}".
func NewStructure(n *parsetree.Node) *Structure {
	st := &Structure{position: at(n), Name: n.Child(1).Contents}
	for i := 3; i < n.NumChildren()-1; i += 4 {
		st.Fields = append(st.Fields, Field{
			Names: parsetree.IdentList(n.Child(i)),
			Type:  NewTypeRef(n.Child(i + 2)),
		})
	}
	return st
}

// NewInterface builds an interface declaration. The member block walks
// like the grammar lays it out: an optional ":" inheritance list, then
// (type ident?) pairs.
func NewInterface(n *parsetree.Node) *Interface {
	iface := &Interface{position: at(n), Name: n.Child(1).Contents}
	ref := n.Child(2)
	idx := 1
	if ref.Child(idx) != nil && ref.Child(idx).Contents == ":" {
		for idx = 2; idx < ref.NumChildren(); idx++ {
			inherit := ref.Child(idx)
			if inherit.Contents == "," {
				continue
			}
			if inherit.Contents == ";" {
				idx++
				break
			}
			scoped := parsetree.InnermostTag(inherit) == "scoperes"
			name := inherit.Contents
			if scoped {
				segs := parsetree.IdentList(inherit)
				name = segs[len(segs)-1]
			}
			iface.Inherits = append(iface.Inherits, InterfaceParent{
				Name: name, Scoped: scoped, Pos: inherit.Pos,
			})
		}
	}
	for ; idx < ref.NumChildren()-1; idx++ {
		child := ref.Child(idx)
		if child.Contents == ";" {
			continue
		}
		fn := IfaceFunc{Type: NewTypeRef(child)}
		if next := ref.Child(idx + 1); next != nil && parsetree.InnermostTag(next) == "ident" {
			fn.Name = next.Contents
			idx++
		}
		iface.Funcs = append(iface.Funcs, fn)
	}
	return iface
}

// NewAlias builds: alias name "=" type.
func NewAlias(n *parsetree.Node) *Alias {
	return &Alias{position: at(n), Name: n.Child(1).Contents, Type: NewTypeRef(n.Child(3))}
}

// NewEnum builds: enum name "{" identlist "}".
func NewEnum(n *parsetree.Node) *Enum {
	return &Enum{position: at(n), Name: n.Child(1).Contents, Members: parsetree.IdentList(n.Child(3))}
}

// NewStructFunc builds a member function or operator overload:
// fn "(" mut? structname ")" (ident | structopname) "(" (args|typelist)? ")"
// type? body?.
func NewStructFunc(n *parsetree.Node) *StructFunc {
	sf := &StructFunc{position: at(n)}
	idx := 2
	if n.Child(idx) != nil && n.Child(idx).Contents == "mut" {
		sf.Mut = true
		idx++
	}
	sf.StructName = n.Child(idx).Contents
	for idx++; idx < n.NumChildren(); idx++ {
		child := n.Child(idx)
		switch parsetree.OutermostTag(child) {
		case "args":
			sf.Params = NewArgs(child)
			continue
		case "typelist":
			sf.ParamTypes = NewTypeList(child)
			continue
		case "type":
			sf.Returns = NewTypeRef(child)
			continue
		case "body":
			sf.Body = NewBody(child)
			continue
		}
		switch parsetree.InnermostTag(child) {
		case "ident":
			if sf.Name == "" && sf.Op == nil {
				sf.Name = child.Contents
			}
		case "structopname":
			sf.Op = NewOpName(child)
		case "body":
			sf.Body = NewBody(child)
		}
	}
	return sf
}
