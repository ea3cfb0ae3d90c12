package value

// ObjType discriminates the heap object variants.
type ObjType uint8

const (
	ObjString ObjType = iota
	ObjFunctionType
	ObjClosureType
	ObjUpvalueType
	ObjNativeType
	ObjClassType
	ObjInstanceType
	ObjBoundMethodType
)

func (t ObjType) String() string {
	switch t {
	case ObjString:
		return "string"
	case ObjFunctionType:
		return "function"
	case ObjClosureType:
		return "closure"
	case ObjUpvalueType:
		return "upvalue"
	case ObjNativeType:
		return "native"
	case ObjClassType:
		return "class"
	case ObjInstanceType:
		return "instance"
	case ObjBoundMethodType:
		return "bound method"
	default:
		return "unknown"
	}
}

// Tracer is implemented by the garbage collector. Trace methods on Obj
// variants call back into it to mark every Value and Obj directly reachable
// from the receiver, without the value package needing to import the
// collector (which itself needs to import value).
type Tracer interface {
	MarkValue(Value)
	MarkObject(Obj)
}

// Header is embedded at the front of every heap object. Next links it into
// the garbage collector's process-wide allocation list; Marked is the
// collector's one-bit tri-colour state (grey objects live transiently on the
// collector's worklist instead, so only white/black need to be recorded
// here).
type Header struct {
	Marked bool
	Next   Obj
}

// Obj is implemented by every heap object variant.
type Obj interface {
	ObjHeader() *Header
	Type() ObjType
	// Trace marks every Value/Obj directly reachable from the receiver.
	Trace(Tracer)
	String() string
}
