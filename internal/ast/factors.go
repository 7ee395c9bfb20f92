// Factor nodes: the value-producing leaves and near-leaves of the tree.
package ast

import (
	"strconv"
	"strings"

	"github.com/slatelang/go-slate/internal/parsetree"
)

// Ident is a bare identifier reference.
type Ident struct {
	position
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	position
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	position
	Value float64
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	position
	Value bool
}

// CharLit is a character literal.
type CharLit struct {
	position
	Value byte
}

// StringLit is a string literal.
type StringLit struct {
	position
	Value string
}

// NullPtr is the `nullptr` literal.
type NullPtr struct {
	position
}

// BinaryExpr is one step of a binary operator chain.
type BinaryExpr struct {
	position
	Op    string
	Left  Expr
	Right Expr
}

// StructMember walks a member-access chain a.b.c. A step is either a plain
// member name or a struct operator spelling.
type StructMember struct {
	position
	Base  string
	Chain []MemberRef
}

// MemberRef is one step of a member chain.
type MemberRef struct {
	Name   string   // plain member, "" when OpName is set
	OpName *OpName  // operator member
	Pos    parsetree.Position
}

// OpName is the `operator <sym>` / `operator <type>` spelling.
type OpName struct {
	Symbol string   // operator symbol, "" when Type is set
	Type   *TypeRef // operator target type
	Pos    parsetree.Position
}

// Cast is `cast<T>(expr)`.
type Cast struct {
	position
	Target *TypeRef
	Value  Expr
}

// ScopeRes is a scope-resolved identifier A::B::...
type ScopeRes struct {
	position
	Segments []string
}

// Expansion is the `::expansion` placeholder requesting partial
// application.
type Expansion struct {
	position
}

// Reference is `&factor`.
type Reference struct {
	position
	Target Expr
}

// Deref is `*factor`.
type Deref struct {
	position
	Target Expr
}

// PreOp applies a prefix operator (++, --, -, !, ~).
type PreOp struct {
	position
	Op     string
	Target Expr
}

// PostOp applies a postfix step operator (++, --).
type PostOp struct {
	position
	Op     string
	Target Expr
}

// Element indexes an array value.
type Element struct {
	position
	Base  Expr
	Index Expr
}

// SizeOf is `sizeof(T)`.
type SizeOf struct {
	position
	Target *TypeRef
}

// AlignOf is `alignof(T)`.
type AlignOf struct {
	position
	Target *TypeRef
}

// LenExpr is `len(expr)`.
type LenExpr struct {
	position
	Target Expr
}

// Closure is an anonymous function literal capturing the enclosing scope.
type Closure struct {
	position
	Params  *Args
	Returns *TypeList
	Body    *Body
}

// FuncCall is a call chain: callees joined by `->`, then one or more
// argument lists applied in sequence.
type FuncCall struct {
	position
	Await   bool
	Async   bool
	Callees []Expr
	ArgPos  []parsetree.Position
	Args    [][]Expr
}

// UnsupportedExpr marks a factor kind the lowering reports as
// unimplemented, preserving its position and feature name.
type UnsupportedExpr struct {
	position
	Feature string
}

func (*Ident) exprNode()           {}
func (*IntLit) exprNode()          {}
func (*FloatLit) exprNode()        {}
func (*BoolLit) exprNode()         {}
func (*CharLit) exprNode()         {}
func (*StringLit) exprNode()       {}
func (*NullPtr) exprNode()         {}
func (*BinaryExpr) exprNode()      {}
func (*StructMember) exprNode()    {}
func (*Cast) exprNode()            {}
func (*ScopeRes) exprNode()        {}
func (*Expansion) exprNode()       {}
func (*Reference) exprNode()       {}
func (*Deref) exprNode()           {}
func (*PreOp) exprNode()           {}
func (*PostOp) exprNode()          {}
func (*Element) exprNode()         {}
func (*SizeOf) exprNode()          {}
func (*AlignOf) exprNode()         {}
func (*LenExpr) exprNode()         {}
func (*Closure) exprNode()         {}
func (*FuncCall) exprNode()        {}
func (*UnsupportedExpr) exprNode() {}

// NewFactor dispatches a parse node to its factor constructor.
func NewFactor(n *parsetree.Node) Expr {
	switch tag := parsetree.InnermostTag(n); tag {
	case "ident":
		return &Ident{position: at(n), Name: n.Contents}
	case "int":
		v, _ := strconv.ParseInt(n.Contents, 0, 64)
		return &IntLit{position: at(n), Value: v}
	case "float":
		v, _ := strconv.ParseFloat(n.Contents, 64)
		return &FloatLit{position: at(n), Value: v}
	case "bool":
		return &BoolLit{position: at(n), Value: n.Contents == "true"}
	case "char":
		return &CharLit{position: at(n), Value: charValue(n.Contents)}
	case "string":
		return &StringLit{position: at(n), Value: strings.Trim(n.Contents, `"`)}
	case "nullptr":
		return &NullPtr{position: at(n)}
	case "structmember":
		return NewStructMember(n)
	case "cast":
		return &Cast{position: at(n), Target: NewTypeRef(n.Child(2)), Value: NewExpr(n.Child(5))}
	case "scoperes":
		return NewScopeRes(n)
	case "expansion":
		return &Expansion{position: at(n)}
	case "reference":
		return &Reference{position: at(n), Target: NewFactor(n.Child(0))}
	case "deref":
		return &Deref{position: at(n), Target: NewFactor(n.Child(0))}
	case "preop":
		return &PreOp{position: at(n), Op: n.Child(0).Contents, Target: NewFactor(n.Child(1))}
	case "postop":
		return &PostOp{position: at(n), Op: n.Child(1).Contents, Target: NewFactor(n.Child(0))}
	case "element":
		return &Element{position: at(n), Base: NewFactor(n.Child(0)), Index: NewExpr(n.Child(2))}
	case "sizeof":
		return &SizeOf{position: at(n), Target: NewTypeRef(n.Child(2))}
	case "alignof":
		return &AlignOf{position: at(n), Target: NewTypeRef(n.Child(2))}
	case "len":
		return &LenExpr{position: at(n), Target: NewExpr(n.Child(2))}
	case "closure":
		return NewClosure(n)
	case "funccall":
		return NewFuncCall(n)
	case "value":
		return NewExpr(n.Child(1))
	case "expr":
		return NewExpr(n)
	case "newexpr":
		return &UnsupportedExpr{position: at(n), Feature: "new expressions"}
	case "initializer":
		return &UnsupportedExpr{position: at(n), Feature: "initializer lists"}
	case "append":
		return &UnsupportedExpr{position: at(n), Feature: "append expressions"}
	case "range":
		return &UnsupportedExpr{position: at(n), Feature: "range expressions"}
	case "listcomp":
		return &UnsupportedExpr{position: at(n), Feature: "list comprehensions"}
	case "expandop":
		return &UnsupportedExpr{position: at(n), Feature: "expansion operators"}
	case "receive":
		return &UnsupportedExpr{position: at(n), Feature: "channel receives"}
	default:
		return &UnsupportedExpr{position: at(n), Feature: "factor kind " + tag}
	}
}

// NewStructMember builds a member-access chain node.
func NewStructMember(n *parsetree.Node) *StructMember {
	sm := &StructMember{position: at(n), Base: n.Child(0).Contents}
	for i := 2; i < n.NumChildren(); i += 2 {
		ref := n.Child(i)
		if parsetree.InnermostTag(ref) == "structopname" {
			sm.Chain = append(sm.Chain, MemberRef{OpName: NewOpName(ref), Pos: ref.Pos})
		} else {
			sm.Chain = append(sm.Chain, MemberRef{Name: ref.Contents, Pos: ref.Pos})
		}
	}
	return sm
}

// NewOpName builds an operator spelling from a structopname node.
func NewOpName(n *parsetree.Node) *OpName {
	ref := n.Child(1)
	if parsetree.OutermostTag(ref) == "type" {
		return &OpName{Type: NewTypeRef(ref), Pos: n.Pos}
	}
	return &OpName{Symbol: ref.Contents, Pos: n.Pos}
}

// NewScopeRes builds a scope resolution from its identifier segments.
func NewScopeRes(n *parsetree.Node) *ScopeRes {
	sr := &ScopeRes{position: at(n)}
	for i := 0; i < n.NumChildren(); i += 2 {
		sr.Segments = append(sr.Segments, n.Child(i).Contents)
	}
	return sr
}

// NewClosure builds a closure literal. The shape mirrors function minus the
// name: fn "(" args? ")" typelist? body.
func NewClosure(n *parsetree.Node) *Closure {
	cl := &Closure{position: at(n)}
	for i := 0; i < n.NumChildren(); i++ {
		child := n.Child(i)
		switch parsetree.OutermostTag(child) {
		case "args":
			cl.Params = NewArgs(child)
		case "typelist":
			cl.Returns = NewTypeList(child)
		case "body":
			cl.Body = NewBody(child)
		}
	}
	return cl
}

// NewFuncCall builds a call chain, walking the children the way the parser
// lays them out: optional await/async, callees separated by "->", then
// parenthesized argument lists.
func NewFuncCall(n *parsetree.Node) *FuncCall {
	fc := &FuncCall{position: at(n)}
	idx := 0
	if n.NumChildren() > 0 {
		switch n.Child(0).Contents {
		case "await":
			fc.Await = true
			idx = 1
		case "async":
			fc.Async = true
			idx = 1
		}
	}
	for ; idx < n.NumChildren(); idx++ {
		ref := n.Child(idx)
		if ref.Contents == "->" {
			continue
		}
		if ref.Contents == "(" {
			idx++
			break
		}
		fc.Callees = append(fc.Callees, NewFactor(ref))
	}
	for ; idx < n.NumChildren(); idx += 2 {
		ref := n.Child(idx)
		if parsetree.OutermostTag(ref) == "exprlist" || parsetree.InnermostTag(ref) == "expr" {
			fc.ArgPos = append(fc.ArgPos, ref.Pos)
			fc.Args = append(fc.Args, NewExprList(ref))
			idx++
		} else {
			fc.ArgPos = append(fc.ArgPos, ref.Pos)
			fc.Args = append(fc.Args, nil)
		}
	}
	return fc
}

func charValue(contents string) byte {
	s := strings.Trim(contents, "'")
	if unq, err := strconv.Unquote("'" + s + "'"); err == nil && len(unq) > 0 {
		return unq[0]
	}
	if len(s) > 0 {
		return s[0]
	}
	return 0
}
