// Package codegen lowers a Slate parse tree into typed SSA IR. Lowering is
// a single synchronous traversal: declarations, statements and factors are
// dispatched by type switch and emit instructions at the context builder's
// insertion point.
package codegen

import (
	"github.com/slatelang/go-slate/internal/ast"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
	"github.com/slatelang/go-slate/internal/parsetree"
)

// parsePos abbreviates the parse-tree position type throughout the package.
type parsePos = parsetree.Position

func parseReserved(name string) bool { return parsetree.IsReserved(name) }

// binOp builds one two-operand arithmetic instruction.
type binOp func(b *ir.Builder, lhs, rhs ir.Value) ir.Value

// Context owns all mutable lowering state for one module: the basic-type
// and operator tables (context-owned so modules can lower in parallel), the
// symbol environment, per-node scope bookkeeping and collected warnings.
type Context struct {
	Module   *ir.Module
	Env      *ModuleEnv
	Warnings []errors.Warning

	basic map[string]ir.Type
	ops   map[string]binOp

	bodies       map[*ast.Body]*bodyInfo
	loopExits    map[*ast.While]*ir.Block
	closureCount int
}

// NewContext creates a lowering context for the given module.
func NewContext(mod *ir.Module) *Context {
	c := &Context{
		Module:    mod,
		Env:       NewModuleEnv(),
		bodies:    make(map[*ast.Body]*bodyInfo),
		loopExits: make(map[*ast.While]*ir.Block),
	}
	c.basic = map[string]ir.Type{
		"void":   ir.Void,
		"bool":   ir.Int(1),
		"char":   ir.Int(8),
		"short":  ir.Int(16),
		"int":    ir.Int(32),
		"int64":  ir.Int(64),
		"int128": ir.Int(128),
		"half":   ir.Float(16),
		"float":  ir.Float(32),
		"double": ir.Float(64),
		// placeholder
		"auto": &ir.StructType{TypeName: "auto"},
	}
	c.ops = map[string]binOp{
		"&":  mkOp(ir.OpAnd),
		"|":  mkOp(ir.OpOr),
		"^":  mkOp(ir.OpXor),
		"+":  mkOp(ir.OpAdd),
		"+f": mkOp(ir.OpFAdd),
		"-":  mkOp(ir.OpSub),
		"-f": mkOp(ir.OpFSub),
		"*":  mkOp(ir.OpMul),
		"*f": mkOp(ir.OpFMul),
		"/":  mkOp(ir.OpSDiv),
		"/f": mkOp(ir.OpFDiv),
		"%":  mkOp(ir.OpSRem),
		"%f": mkOp(ir.OpFRem),
		">>": mkOp(ir.OpAShr),
		"<<": mkOp(ir.OpShl),
	}
	return c
}

func mkOp(op ir.Op) binOp {
	return func(b *ir.Builder, lhs, rhs ir.Value) ir.Value {
		return b.CreateBinOp(op, lhs, rhs)
	}
}

// Basic returns the named built-in type, nil when unknown.
func (c *Context) Basic(name string) ir.Type { return c.basic[name] }

// Auto returns the `auto` return-type placeholder.
func (c *Context) Auto() ir.Type { return c.basic["auto"] }

// IsAuto reports whether t is the deduction placeholder.
func (c *Context) IsAuto(t ir.Type) bool { return t.Equal(c.basic["auto"]) }

func (c *Context) warnf(pos parsePos, format string, args ...any) {
	c.Warnings = append(c.Warnings, errors.Warnf(pos, format, args...))
}

// discard returns the module-global discard sink `_`, creating it on first
// reference.
func (c *Context) discard() *ir.Global {
	if g := c.Module.Global("_"); g != nil {
		return g
	}
	return c.Module.NewGlobal("_", c.basic["char"], nil)
}

// expansionSentinel returns the `::expansion` placeholder value.
func (c *Context) expansionSentinel() *ir.Global {
	if g := c.Module.Global("::expansion"); g != nil {
		return g
	}
	return c.Module.NewGlobal("::expansion", c.basic["char"], nil)
}

// isExpansion reports whether v is the partial-application placeholder.
func isExpansion(v ir.Value) bool { return v.Name() == "::expansion" }

// isLValue reports whether v is an address the caller must load through to
// obtain the value: a stack slot or an element pointer.
func isLValue(v ir.Value) bool {
	in, ok := v.(*ir.Instr)
	return ok && (in.Op == ir.OpAlloca || in.Op == ir.OpGEP)
}

// loadIfLValue loads through stack slots and element pointers; every other
// value passes through untouched.
func loadIfLValue(b *ir.Builder, v ir.Value) ir.Value {
	if isLValue(v) {
		return b.CreateLoad(v)
	}
	return v
}
