package diag

import (
	"fmt"
	"strings"

	"github.com/mna/zero/lang/token"
)

// Phase identifies which stage of the pipeline raised a Diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseChecker  Phase = "checker"
	PhaseCompiler Phase = "compiler"
	PhaseRuntime  Phase = "runtime"
)

// Diagnostic is a single pipeline failure, ready to render in either mode
// spec.md §7 describes. Message is the phase's own formatted error text,
// used verbatim when no registry entry matches Code or in simple mode;
// Args feeds the registry template's {placeholder} substitutions.
type Diagnostic struct {
	Code    Code
	Phase   Phase
	Pos     token.Position // runtime diagnostics set only a line (column 1, no filename)
	Message string
	Args    map[string]string
}

// Simple renders a one-line summary: "pos: CODE: message".
func (d Diagnostic) Simple() string {
	if d.Pos.Filename == "" && d.Pos.Pos == 0 {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Code, d.Message)
}

// Detailed renders the registry title, an optional source snippet with a
// caret under the failing span, and the registry description/suggestion.
// src is the full source of the file named by d.Pos; pass nil (or a
// Diagnostic with no Pos) to skip the snippet.
func (d Diagnostic) Detailed(src []byte) string {
	var b strings.Builder

	entry, ok := Lookup(d.Code)
	title := d.Message
	if ok && entry.Title != "" {
		title = substitute(entry.Title, d.Args)
	}
	fmt.Fprintf(&b, "error[%s]: %s\n", d.Code, title)

	if d.Pos.Pos != 0 {
		fmt.Fprintf(&b, "  --> %s\n", d.Pos)
	}
	if src != nil && d.Pos.Pos != 0 {
		if line, ok := sourceLine(src, d.Pos.Line()); ok {
			col := d.Pos.Column()
			if col < 1 {
				col = 1
			}
			width := d.Pos.Length
			if width < 1 {
				width = 1
			}
			fmt.Fprintf(&b, "  %4d | %s\n", d.Pos.Line(), line)
			fmt.Fprintf(&b, "       | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
		}
	}

	if ok && entry.Description != "" {
		fmt.Fprintf(&b, "  %s\n", substitute(entry.Description, d.Args))
	}
	if ok && entry.Suggestion != "" {
		fmt.Fprintf(&b, "  help: %s\n", substitute(entry.Suggestion, d.Args))
	}
	return b.String()
}

// sourceLine returns the 1-based nth line of src, without its trailing
// newline.
func sourceLine(src []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	line := 1
	start := 0
	for i, c := range src {
		if c != '\n' {
			continue
		}
		if line == n {
			return string(src[start:i]), true
		}
		line++
		start = i + 1
	}
	if line == n {
		return string(src[start:]), true
	}
	return "", false
}
