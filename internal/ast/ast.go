package ast

import (
	"github.com/slatelang/go-slate/internal/parsetree"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the source position of the construct.
	Pos() parsetree.Position
}

// Expr represents any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a node that performs an effect and possibly binds names.
type Stmt interface {
	Node
	stmtNode()
}

// position is embedded by every concrete node.
type position struct {
	P parsetree.Position
}

func (p position) Pos() parsetree.Position { return p.P }

func at(n *parsetree.Node) position { return position{P: n.Pos} }

// Module is the root of one source module's AST.
type Module struct {
	position
	Decls []Decl
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// NewModule builds the AST for a whole parse tree.
func NewModule(root *parsetree.Node) *Module {
	mod := &Module{position: at(root)}
	for _, child := range root.Children {
		if d := NewDecl(child); d != nil {
			mod.Decls = append(mod.Decls, d)
		}
	}
	return mod
}

// NewDecl dispatches a top-level parse node to its declaration constructor.
// Punctuation leaves yield nil.
func NewDecl(n *parsetree.Node) Decl {
	switch parsetree.InnermostTag(n) {
	case "function":
		return NewFunction(n)
	case "structure":
		return NewStructure(n)
	case "interface":
		return NewInterface(n)
	case "alias":
		return NewAlias(n)
	case "enum":
		return NewEnum(n)
	case "structfunc", "structop":
		return NewStructFunc(n)
	case "comment":
		return nil
	}
	return nil
}

// NewStmt dispatches a parse node to its statement constructor. Constructs
// the lowering cannot express yet become UnsupportedStmt nodes so their
// diagnostics carry the original position.
func NewStmt(n *parsetree.Node) Stmt {
	switch tag := parsetree.InnermostTag(n); tag {
	case "body":
		return NewBody(n)
	case "return":
		return NewReturn(n)
	case "break":
		return &Break{position: at(n)}
	case "continue":
		return &UnsupportedStmt{position: at(n), Feature: "continue statements"}
	case "defer":
		return NewDefer(n)
	case "while":
		return NewWhile(n)
	case "if":
		return NewIf(n)
	case "declassign", "letexpr":
		return NewDeclAssign(n)
	case "assign":
		return NewAssign(n)
	case "opeq":
		return NewOpEq(n)
	case "typeswitch":
		return NewTypeSwitch(n)
	case "funccall":
		return &FuncCallStmt{position: at(n), Call: NewFuncCall(n)}
	case "preop", "postop":
		return &StepStmt{position: at(n), Step: NewFactor(n)}
	case "comment":
		return &Comment{position: at(n)}
	case "yield":
		return &UnsupportedStmt{position: at(n), Feature: "yield statements"}
	case "coreturn":
		return &UnsupportedStmt{position: at(n), Feature: "co_return statements"}
	case "delete":
		return &UnsupportedStmt{position: at(n), Feature: "delete statements"}
	case "for":
		return &UnsupportedStmt{position: at(n), Feature: "for statements"}
	case "match":
		return &UnsupportedStmt{position: at(n), Feature: "match statements"}
	case "select":
		return &UnsupportedStmt{position: at(n), Feature: "select statements"}
	case "send":
		return &UnsupportedStmt{position: at(n), Feature: "channel sends"}
	case "receive":
		return &UnsupportedStmt{position: at(n), Feature: "channel receives"}
	case "outstream":
		return &UnsupportedStmt{position: at(n), Feature: "output streams"}
	case "instream":
		return &UnsupportedStmt{position: at(n), Feature: "input streams"}
	case "stmt":
		if n.NumChildren() == 1 {
			return NewStmt(n.Child(0))
		}
		return &UnsupportedStmt{position: at(n), Feature: "statement kind " + n.Tag}
	default:
		return &UnsupportedStmt{position: at(n), Feature: "statement kind " + tag}
	}
}

// NewExpr builds an expression: a lone factor, or a left-associative binary
// operator chain.
func NewExpr(n *parsetree.Node) Expr {
	if parsetree.InnermostTag(n) != "expr" || n.NumChildren() == 0 {
		return NewFactor(n)
	}
	left := NewExpr(n.Child(0))
	for i := 1; i+1 < n.NumChildren(); i += 2 {
		left = &BinaryExpr{
			position: position{P: n.Child(i).Pos},
			Op:       n.Child(i).Contents,
			Left:     left,
			Right:    NewExpr(n.Child(i + 1)),
		}
	}
	return left
}

// NewExprList harvests a comma-separated expression list; a node that is
// not an exprlist contributes itself.
func NewExprList(n *parsetree.Node) []Expr {
	if parsetree.OutermostTag(n) != "exprlist" {
		return []Expr{NewExpr(n)}
	}
	var exprs []Expr
	for i := 0; i < n.NumChildren(); i += 2 {
		exprs = append(exprs, NewExpr(n.Child(i)))
	}
	return exprs
}
