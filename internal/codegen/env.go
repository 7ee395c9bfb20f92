package codegen

import (
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
)

// IfaceFunc is one interface slot: a function name and the stored
// function-pointer type.
type IfaceFunc struct {
	Name string
	Type ir.Type
}

// ModuleEnv is the module symbol environment: named metadata for
// structures, interfaces, data classes, aliases and enumerations. It is a
// context-owned side table; lookups never round-trip through IR metadata.
// All registries are append-only during lowering.
type ModuleEnv struct {
	structures map[string][]string
	interfaces map[string][]IfaceFunc
	classes    map[string][]string
	aliases    map[string]ir.Type
	enums      map[string][]string
}

// NewModuleEnv returns an empty environment.
func NewModuleEnv() *ModuleEnv {
	return &ModuleEnv{
		structures: make(map[string][]string),
		interfaces: make(map[string][]IfaceFunc),
		classes:    make(map[string][]string),
		aliases:    make(map[string]ir.Type),
		enums:      make(map[string][]string),
	}
}

// AddStructure records a structure's ordered field names.
func (e *ModuleEnv) AddStructure(name string, fields []string) {
	e.structures[name] = fields
}

// Structure returns a structure's ordered field names.
func (e *ModuleEnv) Structure(name string) ([]string, bool) {
	fields, ok := e.structures[name]
	return fields, ok
}

// FieldIndex resolves a member name to its field index by linear search.
func (e *ModuleEnv) FieldIndex(structName, member string) (int, bool) {
	for i, f := range e.structures[structName] {
		if f == member {
			return i, true
		}
	}
	return 0, false
}

// AddInterface records an interface's ordered function slots.
func (e *ModuleEnv) AddInterface(name string, funcs []IfaceFunc) {
	e.interfaces[name] = funcs
}

// Interface returns an interface's ordered function slots.
func (e *ModuleEnv) Interface(name string) ([]IfaceFunc, bool) {
	funcs, ok := e.interfaces[name]
	return funcs, ok
}

// AddAlias records a type alias.
func (e *ModuleEnv) AddAlias(name string, t ir.Type) { e.aliases[name] = t }

// Alias returns an aliased type.
func (e *ModuleEnv) Alias(name string) (ir.Type, bool) {
	t, ok := e.aliases[name]
	return t, ok
}

// AddEnum records an enumeration's ordered member names.
func (e *ModuleEnv) AddEnum(name string, members []string) { e.enums[name] = members }

// EnumOrdinal resolves Name::Member to the member's ordinal.
func (e *ModuleEnv) EnumOrdinal(name, member string) (int, bool) {
	for i, m := range e.enums[name] {
		if m == member {
			return i, true
		}
	}
	return 0, false
}

// HasClass reports whether a data class of that name exists.
func (e *ModuleEnv) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// CheckModuleUnique verifies that name is unused across every module-level
// namespace: functions, structures, interfaces, data classes and aliases.
func (c *Context) CheckModuleUnique(name string, pos parsePos) error {
	if c.Module.Func(name) != nil {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists as a function", name)
	}
	if _, ok := c.Env.structures[name]; ok {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists as a structure", name)
	}
	if _, ok := c.Env.interfaces[name]; ok {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists as an interface", name)
	}
	if _, ok := c.Env.classes[name]; ok {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists as a data class", name)
	}
	if _, ok := c.Env.aliases[name]; ok {
		return errors.New(errors.DuplicateIdent, pos,
			"identifier `%s` already exists as an alias", name)
	}
	return nil
}
