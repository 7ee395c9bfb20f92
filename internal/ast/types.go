// Type syntax nodes. These carry the textual form only; resolution against
// the module environment happens during lowering.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slatelang/go-slate/internal/parsetree"
)

// TypeKind discriminates the type syntax variants.
type TypeKind int

const (
	TypeNamed TypeKind = iota
	TypePointer
	TypeArray
	TypeFn
	TypeVariadic
	TypeScoped
)

// TypeRef is one piece of type syntax.
type TypeRef struct {
	Pos  parsetree.Position
	Kind TypeKind
	Mut  bool

	Name      string    // TypeNamed, TypeScoped (joined form)
	Elem      *TypeRef  // TypePointer, TypeArray, TypeVariadic
	PtrLevels int       // TypePointer
	ArrayLen  int       // TypeArray
	FnParams  *TypeList // TypeFn
	FnReturns *TypeList // TypeFn
}

// TypeList is an ordered type list, possibly ending variadic.
type TypeList struct {
	Pos      parsetree.Position
	Types    []*TypeRef
	Variadic bool
}

// NewTypeRef builds type syntax from a parse node.
func NewTypeRef(n *parsetree.Node) *TypeRef {
	ref := n
	mut := false
	if n.NumChildren() > 0 && n.Child(0).Contents == "mut" {
		mut = true
		ref = n.Child(1)
	}

	tr := &TypeRef{Pos: n.Pos, Mut: mut}
	switch parsetree.InnermostTag(ref) {
	case "pointertype":
		tr.Kind = TypePointer
		tr.Elem = NewTypeRef(ref.Child(0))
		tr.PtrLevels = ref.NumChildren() - 1
	case "arraytype":
		tr.Kind = TypeArray
		tr.ArrayLen, _ = strconv.Atoi(ref.Child(1).Contents)
		tr.Elem = NewTypeRef(ref.Child(3))
	case "fntype":
		tr.Kind = TypeFn
		if ref.NumChildren() >= 4 && parsetree.OutermostTag(ref.Child(2)) == "typelist" {
			tr.FnParams = NewTypeList(ref.Child(2))
		}
		if ref.NumChildren() > 4 {
			tr.FnReturns = NewTypeList(ref.Child(4))
		}
	case "variadictype":
		tr.Kind = TypeVariadic
		tr.Elem = NewTypeRef(ref.Child(0))
	case "identifier", "scoperes":
		tr.Kind = TypeScoped
		tr.Name = strings.Join(parsetree.IdentList(ref), "::")
	default:
		tr.Kind = TypeNamed
		tr.Name = ref.Contents
	}
	return tr
}

// NewTypeList builds a type list; a non-list node contributes one entry.
func NewTypeList(n *parsetree.Node) *TypeList {
	tl := &TypeList{Pos: n.Pos}
	switch tag := parsetree.InnermostTag(n); {
	case tag == "variadictype":
		tl.Types = append(tl.Types, NewTypeRef(n.Child(0)))
		tl.Variadic = true
	case tag != "typelist" || n.NumChildren() == 0:
		tl.Types = append(tl.Types, NewTypeRef(n))
	default:
		for i := 0; i < n.NumChildren(); i += 2 {
			ref := n.Child(i)
			if parsetree.InnermostTag(ref) == "variadictype" {
				tl.Types = append(tl.Types, NewTypeRef(ref.Child(0)))
				tl.Variadic = true
			} else {
				tl.Types = append(tl.Types, NewTypeRef(ref))
			}
		}
	}
	return tl
}

// String reconstructs the textual spelling for diagnostics.
func (tr *TypeRef) String() string {
	var s string
	switch tr.Kind {
	case TypePointer:
		s = tr.Elem.String() + strings.Repeat("*", tr.PtrLevels)
	case TypeArray:
		s = fmt.Sprintf("[%d]%s", tr.ArrayLen, tr.Elem.String())
	case TypeFn:
		params := ""
		if tr.FnParams != nil {
			params = tr.FnParams.String()
		}
		s = "fn(" + params + ")"
		if tr.FnReturns != nil {
			s += " " + tr.FnReturns.String()
		}
	case TypeVariadic:
		s = tr.Elem.String() + "..."
	default:
		s = tr.Name
	}
	if tr.Mut {
		return "mut " + s
	}
	return s
}

func (tl *TypeList) String() string {
	parts := make([]string, len(tl.Types))
	for i, t := range tl.Types {
		parts[i] = t.String()
	}
	s := strings.Join(parts, ", ")
	if tl.Variadic {
		s += "..."
	}
	return s
}
