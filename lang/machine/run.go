package machine

import (
	"fmt"

	"github.com/emberlang/ember/lang/value"
)

// run executes call frames until the outermost one returns or a runtime
// error is raised. It is the fetch-decode-execute loop; every opcode in
// value.Opcode has exactly one case here.
func (vm *VM) run() InterpretResult {
	frame := &vm.frames[vm.frameCount-1]

	for {
		switch op := frame.readOp(); op {
		case value.OpConstant:
			vm.push(frame.readConstant())

		case value.OpNil:
			vm.push(value.Nil)
		case value.OpTrue:
			vm.push(value.Bool(true))
		case value.OpFalse:
			vm.push(value.Bool(false))

		case value.OpPop:
			vm.pop()

		case value.OpGetLocal:
			slot := frame.readByte()
			vm.push(vm.stack[frame.slots+int(slot)])
		case value.OpSetLocal:
			slot := frame.readByte()
			vm.stack[frame.slots+int(slot)] = vm.peek(0)

		case value.OpGetGlobal:
			name := frame.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
			vm.push(v)
		case value.OpSetGlobal:
			name := frame.readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
		case value.OpDefineGlobal:
			name := frame.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case value.OpGetUpvalue:
			slot := frame.readByte()
			vm.push(*frame.closure.Upvalues[slot].Location)
		case value.OpSetUpvalue:
			slot := frame.readByte()
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case value.OpGetProperty:
			if !vm.opGetProperty(frame) {
				return InterpretRuntimeError
			}

		case value.OpSetProperty:
			instance, ok := vm.peek(1).AsObj().(*value.ObjInstance)
			if !ok {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError
			}
			instance.Fields.Set(frame.readString(), vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)

		case value.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case value.OpGreater, value.OpLess:
			if !vm.numericCompare(op) {
				return InterpretRuntimeError
			}

		case value.OpAdd:
			if !vm.opAdd() {
				return InterpretRuntimeError
			}
		case value.OpSubtract, value.OpMultiply, value.OpDivide:
			if !vm.numericArith(op) {
				return InterpretRuntimeError
			}

		case value.OpNot:
			vm.push(value.Bool(vm.pop().Falsey()))

		case value.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return InterpretRuntimeError
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case value.OpPrint:
			fmt.Fprintln(vm.stdout, value.Display(vm.pop()))

		case value.OpJump:
			offset := frame.readShort()
			frame.ip += offset
		case value.OpJumpIfFalse:
			offset := frame.readShort()
			if vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case value.OpLoop:
			offset := frame.readShort()
			frame.ip -= offset

		case value.OpCall:
			argCount := int(frame.readByte())
			if !vm.callValue(vm.peek(argCount), argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCount-1]

		case value.OpInvoke:
			name := frame.readString()
			argCount := int(frame.readByte())
			if !vm.invoke(name, argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCount-1]

		case value.OpClosure:
			fn := frame.readConstant().AsObj().(*value.ObjFunction)
			closure := vm.gc.NewClosure(fn)
			vm.push(value.FromObj(closure))
			for i := range closure.Upvalues {
				isLocal := frame.readByte()
				index := frame.readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.slots+int(index)])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case value.OpCloseUpvalue:
			vm.closeUpvalues(&vm.stack[vm.stackTop-1])
			vm.pop()

		case value.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(&vm.stack[frame.slots])
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return InterpretOk
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case value.OpClass:
			vm.push(value.FromObj(vm.gc.NewClass(frame.readString())))

		case value.OpMethod:
			vm.defineMethod(frame.readString())

		default:
			vm.runtimeError("Unknown opcode %d.", byte(op))
			return InterpretRuntimeError
		}
	}
}

func (vm *VM) opGetProperty(frame *CallFrame) bool {
	instance, ok := vm.peek(0).AsObj().(*value.ObjInstance)
	if !ok {
		vm.runtimeError("Only instances have properties.")
		return false
	}
	name := frame.readString()

	if field, ok := instance.Fields.Get(name); ok {
		vm.pop()
		vm.push(field)
		return true
	}
	return vm.bindMethod(instance.Class, name)
}

// opAdd implements the one operator overloaded on type: number+number adds,
// string+string concatenates (producing a freshly interned result), any
// other combination is a runtime error.
func (vm *VM) opAdd() bool {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.Number(a.AsNumber() + b.AsNumber()))
		return true
	case a.Is(value.ObjString) && b.Is(value.ObjString):
		vm.pop()
		vm.pop()
		as := a.AsObj().(*value.ObjStringVal)
		bs := b.AsObj().(*value.ObjStringVal)
		vm.push(value.FromObj(vm.gc.InternString(as.Chars + bs.Chars)))
		return true
	default:
		vm.runtimeError("Operands must be two numbers or two strings.")
		return false
	}
}

func (vm *VM) numericArith(op value.Opcode) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	switch op {
	case value.OpSubtract:
		vm.push(value.Number(a - b))
	case value.OpMultiply:
		vm.push(value.Number(a * b))
	case value.OpDivide:
		vm.push(value.Number(a / b))
	}
	return true
}

func (vm *VM) numericCompare(op value.Opcode) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	switch op {
	case value.OpGreater:
		vm.push(value.Bool(a > b))
	case value.OpLess:
		vm.push(value.Bool(a < b))
	}
	return true
}

func (vm *VM) defineMethod(name *value.ObjStringVal) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*value.ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}
