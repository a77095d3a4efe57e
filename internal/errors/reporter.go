package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats CompileError values with Rust-like caret styling, the
// way kanso's ErrorReporter formats CompilerError. It is used by the CLI
// (compile errors against the source file) and is the template the LSP's
// diagnostic conversion follows, minus the ANSI coloring.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

// NewReporter creates a reporter for a given source file's contents.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a single CompileError.
func (r *Reporter) Format(err CompileError) string {
	var out strings.Builder
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	out.WriteString(fmt.Sprintf("%s[%s]: %s\n", red("error"), err.Code(), err.Error()))

	pos := err.Position()
	if pos.Line <= 0 {
		out.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), r.filename))
		out.WriteString("\n")
		return out.String()
	}

	width := lineNumberWidth(pos.Line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, pos.Line, pos.Column))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("|")))

	if pos.Line <= len(r.lines) && pos.Line > 0 {
		line := r.lines[pos.Line-1]
		out.WriteString(fmt.Sprintf("%s %s %s\n", bold(fmt.Sprintf("%*d", width, pos.Line)), dim("|"), line))
		marker := strings.Repeat(" ", max0(pos.Column-1)) + red("^")
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("|"), marker))
	}

	out.WriteString("\n")
	return out.String()
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		return 3
	}
	return w
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
