// Package machine implements the stack-based bytecode interpreter: a
// fetch-decode-execute loop over the chunks the compiler package produces,
// plus the call protocol, upvalue capture and closing, and class/instance
// dispatch that give those chunks their runtime meaning.
package machine

import (
	"fmt"
	"io"

	"github.com/dolthub/swiss"

	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// InterpretResult is the outcome of running a source program, mirroring the
// three-way split the top-level driver reports to the OS as an exit code.
type InterpretResult int

const (
	InterpretOk InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// VM is one bytecode interpreter instance: its value stack, call frames,
// global variables, and the list of upvalues still open onto the stack.
// A VM is single-threaded and not safe for concurrent use.
type VM struct {
	gc     *gc.GC
	stdout io.Writer
	stderr io.Writer

	frames     [framesMax]CallFrame
	frameCount int

	stack    [stackMax]value.Value
	stackTop int

	globals      value.Table
	openUpvalues *value.ObjUpvalue

	natives *swiss.Map[string, *value.ObjNative]

	initString *value.ObjStringVal
}

// New returns a VM backed by g, writing PRINT output to stdout and runtime
// error traces to stderr. It registers itself as a GC root for the
// lifetime of the returned value.
func New(g *gc.GC, stdout, stderr io.Writer) *VM {
	vm := &VM{gc: g, stdout: stdout, stderr: stderr}
	vm.natives = swiss.NewMap[string, *value.ObjNative](8)
	vm.initString = g.InternString("init")
	g.AddRoot(vm)
	vm.defineNatives()
	return vm
}

// MarkRoots implements gc.RootProvider: the value stack, every live call
// frame's closure, the globals table, and the open-upvalue chain are the
// machine's contribution to the root set.
func (vm *VM) MarkRoots(t value.Tracer) {
	for i := 0; i < vm.stackTop; i++ {
		t.MarkValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		t.MarkObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		t.MarkObject(uv)
	}
	vm.globals.Each(func(k *value.ObjStringVal, v value.Value) {
		t.MarkObject(k)
		t.MarkValue(v)
	})
	if vm.initString != nil {
		t.MarkObject(vm.initString)
	}
	vm.natives.Iter(func(_ string, n *value.ObjNative) bool {
		t.MarkObject(n)
		return false
	})
}

// Interpret compiles and runs source in a fresh stack. It returns
// InterpretCompileError without executing anything if compilation fails.
func (vm *VM) Interpret(source string) InterpretResult {
	fn, ok := compiler.Compile(vm.gc, source, vm.stderr)
	if !ok {
		return InterpretCompileError
	}

	vm.resetStack()
	vm.push(value.FromObj(fn))
	closure := vm.gc.NewClosure(fn)
	vm.pop()
	vm.push(value.FromObj(closure))
	vm.callClosure(closure, 0)

	return vm.run()
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// runtimeError reports msg (with any formatting args applied) alongside a
// frame-by-frame stack trace, matching the driver-level error convention
// used by the compiler: "[line N] in <where>".
func (vm *VM) runtimeError(format string, args ...any) {
	fmt.Fprintf(vm.stderr, format+"\n", args...)

	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars
		}
		fmt.Fprintf(vm.stderr, "[line %d] in %s\n", frame.line(), name)
	}
	vm.resetStack()
}
