package compiler_test

import (
	"bytes"
	"testing"

	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/gc"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) (fn interface{ String() string }, stderr string, ok bool) {
	t.Helper()
	var buf bytes.Buffer
	f, ok := compiler.Compile(gc.New(), src, &buf)
	return f, buf.String(), ok
}

func TestCompileValidProgram(t *testing.T) {
	_, stderr, ok := compile(t, `var x = 1 + 2; print x;`)
	require.True(t, ok)
	require.Empty(t, stderr)
}

func TestCompileReportsUnexpectedToken(t *testing.T) {
	_, stderr, ok := compile(t, `var = 1;`)
	require.False(t, ok)
	require.Contains(t, stderr, "Error")
}

func TestCompileRejectsSelfReferencingInitializer(t *testing.T) {
	_, stderr, ok := compile(t, "{ var a = a; }")
	require.False(t, ok)
	require.Contains(t, stderr, "Can't read local variable in its own initializer")
}

func TestCompileRejectsTopLevelReturn(t *testing.T) {
	_, stderr, ok := compile(t, `return 1;`)
	require.False(t, ok)
	require.Contains(t, stderr, "Can't return from top-level code")
}

func TestCompileRejectsReturnValueFromInitializer(t *testing.T) {
	_, stderr, ok := compile(t, `class A { init() { return 1; } }`)
	require.False(t, ok)
	require.Contains(t, stderr, "Can't return a value from an initializer")
}

func TestCompileRejectsThisOutsideClass(t *testing.T) {
	_, stderr, ok := compile(t, `print this;`)
	require.False(t, ok)
	require.Contains(t, stderr, "Can't use 'this' outside of a class")
}

func TestCompileRejectsSuper(t *testing.T) {
	_, stderr, ok := compile(t, `class A { m() { super.m(); } }`)
	require.False(t, ok)
	require.Contains(t, stderr, "Superclasses are not supported")
}

func TestCompileRejectsInvalidAssignmentTarget(t *testing.T) {
	_, stderr, ok := compile(t, `1 + 2 = 3;`)
	require.False(t, ok)
	require.Contains(t, stderr, "Invalid assignment target")
}

func TestCompileSynchronizesAfterError(t *testing.T) {
	// A malformed statement followed by a valid one: compilation still
	// fails overall, but synchronize() must not cascade spurious errors
	// onto the second statement.
	_, stderr, ok := compile(t, "var; var y = 1;")
	require.False(t, ok)
	require.Equal(t, 1, bytes.Count([]byte(stderr), []byte("Error")))
}

func TestCompileClassAndClosure(t *testing.T) {
	_, stderr, ok := compile(t, `
class Greeter {
  init(name) {
    this.name = name;
  }
  greet() {
    print "hi " + this.name;
  }
}
fun counter() {
  var i = 0;
  fun inc() {
    i = i + 1;
    print i;
  }
  return inc;
}
var c = counter();
c();
c();
Greeter("world").greet();
`)
	require.True(t, ok)
	require.Empty(t, stderr)
}
