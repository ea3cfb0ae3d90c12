package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/machine"
)

func run(t *testing.T, source string) (stdout, stderr string, result machine.InterpretResult) {
	t.Helper()
	var out, errBuf bytes.Buffer
	vm := machine.New(gc.New(), &out, &errBuf)
	result = vm.Interpret(source)
	return out.String(), errBuf.String(), result
}

func TestArithmeticAndPrint(t *testing.T) {
	out, _, result := run(t, `print 1 + 2 * 3;`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _, result := run(t, `print "foo" + "bar";`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "foobar\n", out)
}

func TestGlobalsAndScopes(t *testing.T) {
	out, _, result := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "inner\nouter\n", out)
}

func TestUndefinedGlobalRead(t *testing.T) {
	_, errOut, result := run(t, `print nope;`)
	require.Equal(t, machine.InterpretRuntimeError, result)
	require.True(t, strings.Contains(errOut, "Undefined variable 'nope'."))
}

func TestControlFlow(t *testing.T) {
	out, _, result := run(t, `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		print sum;

		for (var j = 0; j < 3; j = j + 1) {
			print j;
		}

		if (sum > 5) {
			print "big";
		} else {
			print "small";
		}
	`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "10\n0\n1\n2\nbig\n", out)
}

func TestClosuresCaptureByReference(t *testing.T) {
	out, _, result := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				print count;
			}
			return increment;
		}
		var counter = makeCounter();
		counter();
		counter();
		counter();
	`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestClassesFieldsAndMethods(t *testing.T) {
	out, _, result := run(t, `
		class Counter {
			init(start) {
				this.value = start;
			}
			increment() {
				this.value = this.value + 1;
				return this.value;
			}
		}
		var c = Counter(10);
		print c.increment();
		print c.increment();
		print c;
	`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "11\n12\nCounter instance\n", out)
}

func TestBoundMethodSurvivesDetachedFromReceiver(t *testing.T) {
	out, _, result := run(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "hello " + this.name;
			}
		}
		var g = Greeter("world");
		var greetFn = g.greet;
		greetFn();
	`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "hello world\n", out)
}

func TestRuntimeErrorOnInvalidOperand(t *testing.T) {
	_, errOut, result := run(t, `print 1 + "two";`)
	require.Equal(t, machine.InterpretRuntimeError, result)
	require.True(t, strings.Contains(errOut, "Operands must be two numbers or two strings."))
	require.True(t, strings.Contains(errOut, "in script"))
}

func TestCompileErrorDoesNotRun(t *testing.T) {
	out, _, result := run(t, `print ;`)
	require.Equal(t, machine.InterpretCompileError, result)
	require.Empty(t, out)
}

func TestNativeClockIsCallable(t *testing.T) {
	out, _, result := run(t, `print clock() > 0;`)
	require.Equal(t, machine.InterpretOk, result)
	require.Equal(t, "true\n", out)
}
