// Package errors models the compiler's two-tier diagnostic system
// (spec.md §7): fatal CompilerError values that abort a compilation unit,
// and collected, non-fatal Warning values returned alongside a successful
// result.
package errors

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/ralph-lang/ralphc/internal/token"
)

// Kind is the fixed diagnostic taxonomy from spec.md §9: "a single sum
// type with kinds {Syntax, Type, Name, Mutability, Inheritance, Assets,
// Return, Internal}".
type Kind string

const (
	Syntax     Kind = "syntax"
	Type       Kind = "type"
	Name       Kind = "name"
	Mutability Kind = "mutability"
	Inheritance Kind = "inheritance"
	Assets     Kind = "assets"
	Return     Kind = "return"
	Internal   Kind = "internal"
)

// CompilerError is a fatal diagnostic. It carries an optional source span
// so the reporter can render a caret under the offending text.
type CompilerError struct {
	Kind     Kind
	Message  string
	Position token.Position
	HasPos   bool
}

// Slug gives a CompilerError a stable snake_case identifier: its kind,
// an underscore, then the first four words of its message (e.g.
// "mutability_there_are_unassigned_mutable"), used as the code prefix of
// LSP diagnostic messages. It is derived from kind and message rather
// than a hand-maintained E-number table (spec.md §9 leaves error codes
// unspecified beyond the Kind taxonomy).
func (e *CompilerError) Slug() string {
	return strcase.ToSnake(string(e.Kind)) + "_" + strcase.ToSnake(firstWords(e.Message, 4))
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func (e *CompilerError) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a position-less CompilerError, used for whole-unit failures
// (e.g. cyclic inheritance) that don't anchor to one token.
func New(kind Kind, format string, args ...interface{}) *CompilerError {
	return &CompilerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At builds a CompilerError anchored to a source position.
func At(kind Kind, pos token.Position, format string, args ...interface{}) *CompilerError {
	return &CompilerError{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos, HasPos: true}
}

// Warning is a collected, non-fatal diagnostic (spec.md §4.4/§7): unused
// symbols, annotation mismatches, style issues. Warnings never change
// emitted bytecode (spec.md §8 testable property).
type Warning struct {
	// Scope is the human-readable identity prefix, e.g. "Foo.bar" for a
	// function or "Foo" for a contract-level symbol (spec.md §6.3).
	Scope    string
	Message  string
	Position token.Position
	HasPos   bool
}

func (w Warning) String() string {
	if w.Scope == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Scope, w.Message)
}

// Warn builds a scoped warning.
func Warn(scope string, format string, args ...interface{}) Warning {
	return Warning{Scope: scope, Message: fmt.Sprintf(format, args...)}
}

// WarnAt builds a scoped, positioned warning.
func WarnAt(scope string, pos token.Position, format string, args ...interface{}) Warning {
	return Warning{Scope: scope, Message: fmt.Sprintf(format, args...), Position: pos, HasPos: true}
}

// Render formats one error with a fatih/color-driven, rustc-style
// `error[kind]: message` header, a `--> file:line:col` location line and
// a caret-pointed source snippet, matching the reference tree's
// `internal/errors` reporter shape.
func Render(filename, source string, err *CompilerError, colorize bool) string {
	var b strings.Builder
	header := fmt.Sprintf("error[%s]: %s", err.Kind, err.Message)
	if colorize {
		header = errColor(header)
	}
	b.WriteString(header)
	b.WriteByte('\n')
	if !err.HasPos {
		return b.String()
	}
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", filename, err.Position.Line, err.Position.Column)
	writeSnippet(&b, source, err.Position, colorize)
	return b.String()
}

// RenderWarning formats one warning the same way, with a `warning:` header.
func RenderWarning(w Warning, colorize bool) string {
	header := fmt.Sprintf("warning: %s", w.String())
	if colorize {
		header = warnColor(header)
	}
	if !w.HasPos {
		return header
	}
	return fmt.Sprintf("%s\n  --> line %d, column %d\n", header, w.Position.Line, w.Position.Column)
}

func writeSnippet(b *strings.Builder, source string, pos token.Position, colorize bool) {
	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return
	}
	line := lines[pos.Line-1]
	fmt.Fprintf(b, "%5d | %s\n", pos.Line, line)
	col := pos.Column
	if col < 1 {
		col = 1
	}
	caret := strings.Repeat(" ", col-1) + "^"
	if colorize {
		caret = caretColor(caret)
	}
	fmt.Fprintf(b, "      | %s\n", caret)
}
