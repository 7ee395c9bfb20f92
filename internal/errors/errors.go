// Package errors defines the compile-error taxonomy for the Slate
// front-end. Every error carries a stable code and the source position of
// the construct that produced it; errors propagate unchanged from the point
// of failure to the module driver.
package errors

import (
	"fmt"

	"github.com/slatelang/go-slate/internal/parsetree"
)

// Code classifies a compile error.
type Code string

const (
	UnknownType                Code = "UnknownType"
	InvalidCast                Code = "InvalidCast"
	NotAStruct                 Code = "NotAStruct"
	NoSuchMember               Code = "NoSuchMember"
	UnboundIdent               Code = "UnboundIdent"
	DuplicateIdent             Code = "DuplicateIdent"
	ReservedIdent              Code = "ReservedIdent"
	ArityMismatch              Code = "ArityMismatch"
	TypeMismatch               Code = "TypeMismatch"
	MissingMethod              Code = "MissingMethod"
	MethodSignatureMismatch    Code = "MethodSignatureMismatch"
	DuplicateInterfaceFunction Code = "DuplicateInterfaceFunction"
	ReturnTypeConflict         Code = "ReturnTypeConflict"
	ReturnTypeMismatch         Code = "ReturnTypeMismatch"
	StrayBreak                 Code = "StrayBreak"
	UnknownTag                 Code = "UnknownTag"
	OverApplication            Code = "OverApplication"
	NotImplemented             Code = "NotImplemented"
	VariadicInReturn           Code = "VariadicInReturn"
	VariadicInTypeSwitch       Code = "VariadicInTypeSwitch"
	EmptyExpansionContext      Code = "EmptyExpansionContext"
)

// CompileError is a single compilation error with its source position.
type CompileError struct {
	Code    Code
	Pos     parsetree.Position
	Message string
}

// New creates a compile error at pos.
func New(code Code, pos parsetree.Position, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    code,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface. Rows render one-based.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at line %d", e.Message, e.Pos.Row+1)
}

// CodeOf returns the code of a *CompileError, "" for anything else.
func CodeOf(err error) Code {
	if ce, ok := err.(*CompileError); ok {
		return ce.Code
	}
	return ""
}

// Warning is a non-fatal diagnostic; warnings surface but never abort.
type Warning struct {
	Pos     parsetree.Position
	Message string
}

// Warnf creates a warning at pos.
func Warnf(pos parsetree.Position, format string, args ...any) Warning {
	return Warning{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("warning: %s at line %d", w.Message, w.Pos.Row+1)
}
