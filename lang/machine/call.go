package machine

import "github.com/emberlang/ember/lang/value"

// callValue dispatches a call instruction's callee to the right protocol:
// a closure pushes a new call frame, a native runs immediately and leaves
// its result on the stack, a class constructs an instance (running its
// initializer, if any), and a bound method rebinds its receiver into slot
// 0 before behaving like an ordinary closure call.
func (vm *VM) callValue(callee value.Value, argCount int) bool {
	if !callee.IsObj() {
		vm.runtimeError("Can only call functions and classes.")
		return false
	}

	switch obj := callee.AsObj().(type) {
	case *value.ObjClosure:
		return vm.callClosure(obj, argCount)
	case *value.ObjNative:
		return vm.callNative(obj, argCount)
	case *value.ObjClass:
		return vm.callClass(obj, argCount)
	case *value.ObjBoundMethod:
		vm.stack[vm.stackTop-argCount-1] = obj.Receiver
		return vm.callClosure(obj.Method, argCount)
	default:
		vm.runtimeError("Can only call functions and classes.")
		return false
	}
}

func (vm *VM) callClosure(closure *value.ObjClosure, argCount int) bool {
	if argCount != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
		return false
	}
	if vm.frameCount == framesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	return true
}

func (vm *VM) callNative(native *value.ObjNative, argCount int) bool {
	if argCount != native.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", native.Arity, argCount)
		return false
	}
	args := vm.stack[vm.stackTop-argCount : vm.stackTop]
	result, err := native.Fn(args)
	if err != nil {
		vm.runtimeError("%s", err.Error())
		return false
	}
	vm.stackTop -= argCount + 1
	vm.push(result)
	return true
}

func (vm *VM) callClass(class *value.ObjClass, argCount int) bool {
	instance := vm.gc.NewInstance(class)
	vm.stack[vm.stackTop-argCount-1] = value.FromObj(instance)

	if initializer, ok := class.Methods.Get(vm.initString); ok {
		return vm.callClosure(initializer.AsObj().(*value.ObjClosure), argCount)
	}
	if argCount != 0 {
		vm.runtimeError("Expected 0 arguments but got %d.", argCount)
		return false
	}
	return true
}

// invoke is the OP_INVOKE fast path: it looks up name on the receiver
// (peeked argCount below the top of stack) and calls it directly, without
// first materializing an ObjBoundMethod the way a plain OP_GET_PROPERTY
// followed by OP_CALL would.
func (vm *VM) invoke(name *value.ObjStringVal, argCount int) bool {
	receiver := vm.peek(argCount)
	instance, ok := receiver.AsObj().(*value.ObjInstance)
	if !ok {
		vm.runtimeError("Only instances have methods.")
		return false
	}

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	method, ok := instance.Class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	return vm.callClosure(method.AsObj().(*value.ObjClosure), argCount)
}

func (vm *VM) bindMethod(class *value.ObjClass, name *value.ObjStringVal) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	bound := vm.gc.NewBoundMethod(vm.peek(0), method.AsObj().(*value.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}

// captureUpvalue returns the open upvalue already pointing at local (if
// any); otherwise it allocates a new one and splices it into the
// descending-by-location open list so closeUpvalues can find a contiguous
// run to close in one pass.
func (vm *VM) captureUpvalue(local *value.Value) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Location != local && addr(cur.Location) > addr(local) {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Location == local {
		return cur
	}

	created := vm.gc.NewUpvalue(local)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue whose stack location is at or
// above last, copying the value inline so it survives the frame's locals
// being popped.
func (vm *VM) closeUpvalues(last *value.Value) {
	for vm.openUpvalues != nil && addr(vm.openUpvalues.Location) >= addr(last) {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}

func addr(v *value.Value) uintptr { return uintptr(ptrOf(v)) }
