package errors

import (
	"strings"
	"testing"

	"github.com/ralph-lang/ralphc/internal/token"
	"github.com/stretchr/testify/assert"
)

func TestAtCarriesPosition(t *testing.T) {
	pos := token.Position{Line: 3, Column: 5}
	err := At(Mutability, pos, "There are unassigned mutable fields in contract %s: %s", "Foo", "a")
	assert.True(t, err.HasPos)
	assert.Equal(t, pos, err.Position)
	assert.Contains(t, err.Error(), "unassigned mutable fields in contract Foo: a")
}

func TestRenderIncludesCaret(t *testing.T) {
	src := "fn foo() {\n  return a\n}\n"
	err := At(Name, token.Position{Line: 2, Column: 10}, "undefined name %q", "a")
	out := Render("test.ral", src, err, false)
	assert.Contains(t, out, "error[name]: undefined name \"a\"")
	assert.Contains(t, out, "--> test.ral:2:10")
	lines := strings.Split(out, "\n")
	assert.True(t, len(lines) >= 4)
}

func TestWarnScoping(t *testing.T) {
	w := Warn("Foo.bar", "unused local variable %q", "x")
	assert.Equal(t, "Foo.bar: unused local variable \"x\"", w.String())
}
