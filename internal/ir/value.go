package ir

import (
	"fmt"
	"strconv"
)

// Value is anything an instruction can consume: constants, globals,
// parameters, functions and other instructions.
type Value interface {
	Type() Type

	// Name returns the value's symbolic name, "" for unnamed values.
	Name() string
}

// Const is an immediate constant.
type Const struct {
	Typ      Type
	IntVal   int64
	FloatVal float64
	Null     bool
	Str      string
}

// ConstInt returns an integer constant of the given type.
func ConstInt(t Type, v int64) *Const { return &Const{Typ: t, IntVal: v} }

// ConstFloat returns a float constant of the given type.
func ConstFloat(t Type, v float64) *Const { return &Const{Typ: t, FloatVal: v} }

// ConstBool returns an i1 constant.
func ConstBool(v bool) *Const {
	c := &Const{Typ: Int(1)}
	if v {
		c.IntVal = 1
	}
	return c
}

// ConstNull returns the null constant of a pointer type.
func ConstNull(t Type) *Const { return &Const{Typ: t, Null: true} }

// ZeroValue returns the all-zero constant of t.
func ZeroValue(t Type) *Const {
	if _, ok := t.(*PointerType); ok {
		return ConstNull(t)
	}
	return &Const{Typ: t}
}

func (c *Const) Type() Type   { return c.Typ }
func (c *Const) Name() string { return "" }

func (c *Const) valueString() string {
	switch {
	case c.Null:
		return "null"
	case IsFloat(c.Typ):
		return strconv.FormatFloat(c.FloatVal, 'g', -1, 64)
	case c.Str != "":
		return fmt.Sprintf("c%q", c.Str)
	default:
		return strconv.FormatInt(c.IntVal, 10)
	}
}

// Global is a module-level variable. Its value type is a pointer to Elem.
type Global struct {
	GlobalName string
	Elem       Type
	Init       *Const
	Immutable  bool
}

func (g *Global) Type() Type   { return Ptr(g.Elem) }
func (g *Global) Name() string { return g.GlobalName }

// Param is a function parameter.
type Param struct {
	ParamName string
	Typ       Type
}

func (p *Param) Type() Type   { return p.Typ }
func (p *Param) Name() string { return p.ParamName }

// SetName renames the parameter.
func (p *Param) SetName(name string) { p.ParamName = name }
