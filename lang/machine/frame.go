package machine

import "github.com/emberlang/ember/lang/value"

// CallFrame is one activation record: the closure being executed, the
// instruction pointer into its chunk, and the base index into the
// machine's value stack where its locals (parameters included) begin.
// Slot 0 always holds either the receiver (for a method/initializer) or
// the closure itself (for a plain function call or the top-level script).
type CallFrame struct {
	closure *value.ObjClosure
	ip      int
	slots   int
}

func (f *CallFrame) readByte() byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (f *CallFrame) readOp() value.Opcode { return value.Opcode(f.readByte()) }

func (f *CallFrame) readShort() int {
	hi := f.readByte()
	lo := f.readByte()
	return int(hi)<<8 | int(lo)
}

func (f *CallFrame) readConstant() value.Value {
	return f.closure.Function.Chunk.Constants[f.readByte()]
}

func (f *CallFrame) readString() *value.ObjStringVal {
	return f.readConstant().AsObj().(*value.ObjStringVal)
}

func (f *CallFrame) line() int {
	if f.ip == 0 {
		return f.closure.Function.Chunk.Lines[0]
	}
	return f.closure.Function.Chunk.Lines[f.ip-1]
}
