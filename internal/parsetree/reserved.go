package parsetree

import (
	_ "embed"
	"strings"
)

// The reserved-word table ships as a single textual resource so the parser
// and the lowering agree on one list.
//
//go:embed reserved.txt
var reservedWords string

var reserved = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(reservedWords) {
		set[word] = struct{}{}
	}
	return set
}()

// IsReserved reports whether name is a Slate keyword.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}
