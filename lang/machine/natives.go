package machine

import (
	"time"

	"github.com/emberlang/ember/lang/value"
)

// defineNatives populates the global scope with the machine's built-in
// functions and registers them in the natives table the garbage collector
// roots through MarkRoots.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", 0, func(args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
	})
}

func (vm *VM) defineNative(name string, arity int, fn value.NativeFn) {
	native := vm.gc.NewNative(name, arity, fn)
	vm.natives.Put(name, native)
	vm.globals.Set(vm.gc.InternString(name), value.FromObj(native))
}
