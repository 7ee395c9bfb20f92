// Package ast defines the abstract syntax tree for Slate and its
// construction from the parser's generic parse tree.
//
// Node categories:
//   - Factors/Expressions: values that can be evaluated (literals,
//     identifiers, member access, casts, calls, closures, ...)
//   - Statements: actions and bindings (bodies, control flow, declarations,
//     assignments, defers, ...)
//   - Types: textual type syntax (named, pointer, array, function, variadic)
//
// Nodes are inert data: they carry no lowering logic and hold no references
// into the parse tree. Construction copies out names, positions and child
// structure; the parse tree may be discarded afterwards (it is owned by the
// parser either way).
//
// Parse shapes consumed by the constructors (tags are the parser's rule
// names, innermost segment decides dispatch):
//
//	module      := toplevel*
//	function    := "fn" ident "(" args? ")" typelist? body
//	structfunc  := "fn" "(" "mut"? ident ")" (ident | structopname)
//	               "(" (args | typelist)? ")" type? body?
//	structure   := "struct" ident "{" (identlist ":" type ";")* "}"
//	interface   := "interface" ident ifacebody
//	ifacebody   := "{" (":" ident ("," ident)* ";")? (type ident? ";")* "}"
//	alias       := "alias" ident "=" type
//	enum        := "enum" ident "{" identlist "}"
//	body        := tags? "{" stmt* "}"
//	while       := "while" expr stmt
//	if          := "if" expr stmt ("else" stmt)?
//	declassign  := "let" "mut"? identlist (":" type)? "=" exprlist
//	typeswitch  := "match" "type" "(" expr ")" "{" ((typelist|"default") ":" stmt)* "}"
//	funccall    := ("await"|"async")? factor ("->" factor)*
//	               ("(" exprlist? ")")+
//	cast        := "cast" "<" type ">" "(" expr ")"
//	structmember:= ident ("." (ident | structopname))+
//	structopname:= "operator" (opsymbol | type)
//	expr        := factor (binop factor)*
//	exprlist    := expr ("," expr)*
package ast
