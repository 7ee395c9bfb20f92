package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Format renders a compile error for terminal output: position header,
// offending source line with a caret, then the message. Source may be ""
// when the original text is unavailable.
func Format(e *CompileError, source string, useColor bool) string {
	red := color.New(color.FgRed, color.Bold)
	bold := color.New(color.Bold)
	if !useColor {
		red.DisableColor()
		bold.DisableColor()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s line %d:%d\n",
		red.Sprintf("error[%s]:", e.Code), e.Pos.Row+1, e.Pos.Col+1)

	if line := sourceLine(source, e.Pos.Row); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Row+1)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Col))
		sb.WriteString(red.Sprint("^"))
		sb.WriteByte('\n')
	}

	sb.WriteString(bold.Sprint(e.Message))
	return sb.String()
}

// FormatWarning renders a warning for terminal output.
func FormatWarning(w Warning, useColor bool) string {
	yellow := color.New(color.FgYellow, color.Bold)
	if !useColor {
		yellow.DisableColor()
	}
	return fmt.Sprintf("%s %s (line %d)", yellow.Sprint("warning:"), w.Message, w.Pos.Row+1)
}

func sourceLine(source string, row int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}
