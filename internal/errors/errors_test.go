package errors

import (
	"strings"
	"testing"

	"github.com/slatelang/go-slate/internal/parsetree"
)

func TestCompileError(t *testing.T) {
	err := New(UnboundIdent, parsetree.Position{Row: 4, Col: 2},
		"variable `%s` does not exist in scope", "x")

	if err.Code != UnboundIdent {
		t.Errorf("code = %s", err.Code)
	}
	// rows render one-based
	want := "variable `x` does not exist in scope at line 5"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCodeOf(t *testing.T) {
	err := New(InvalidCast, parsetree.Position{}, "invalid cast")
	if CodeOf(err) != InvalidCast {
		t.Errorf("CodeOf = %s, want InvalidCast", CodeOf(err))
	}
	if CodeOf(nil) != "" {
		t.Error("CodeOf(nil) should be empty")
	}
}

func TestFormatWithSource(t *testing.T) {
	source := "fn f() {\n  return ghost\n}"
	err := New(UnboundIdent, parsetree.Position{Row: 1, Col: 9},
		"variable `ghost` does not exist in scope")

	out := Format(err, source, false)
	if !strings.Contains(out, "error[UnboundIdent]: line 2:10") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "return ghost") {
		t.Errorf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret:\n%s", out)
	}

	// caret column lines up under the offending token
	lines := strings.Split(out, "\n")
	var srcLine, caretLine string
	for i, line := range lines {
		if strings.Contains(line, "return ghost") && i+1 < len(lines) {
			srcLine, caretLine = line, lines[i+1]
		}
	}
	if srcLine == "" {
		t.Fatal("source line not rendered")
	}
	caret := strings.IndexByte(caretLine, '^')
	ghost := strings.Index(srcLine, "ghost")
	if caret != ghost {
		t.Errorf("caret at %d, token at %d:\n%s", caret, ghost, out)
	}
}

func TestFormatWithoutSource(t *testing.T) {
	err := New(InvalidCast, parsetree.Position{Row: 9, Col: 0}, "invalid cast")
	out := Format(err, "", false)
	if !strings.Contains(out, "invalid cast") {
		t.Errorf("missing message:\n%s", out)
	}
	if strings.Contains(out, "|") {
		t.Errorf("no source line should render:\n%s", out)
	}
}

func TestWarning(t *testing.T) {
	w := Warnf(parsetree.Position{Row: 2}, "function return value discarded")
	want := "warning: function return value discarded at line 3"
	if w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}
	if out := FormatWarning(w, false); !strings.Contains(out, "discarded") {
		t.Errorf("FormatWarning = %q", out)
	}
}
