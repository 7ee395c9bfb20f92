package parsetree

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a parser-serialized parse tree. The external parser writes
// one JSON object per module; the decoder rejects trailing garbage.
func Decode(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	root := &Node{}
	if err := dec.Decode(root); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse tree: trailing data after module")
	}
	return root, nil
}
