package value

import "fmt"

// ObjFunction is a compiled function body: its arity, the number of
// upvalues its closures must capture, its bytecode, and an optional name
// (nil for the implicit top-level script function).
type ObjFunction struct {
	Header       Header
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *ObjStringVal
}

func (f *ObjFunction) ObjHeader() *Header { return &f.Header }
func (f *ObjFunction) Type() ObjType      { return ObjFunctionType }

func (f *ObjFunction) Trace(t Tracer) {
	if f.Name != nil {
		t.MarkObject(f.Name)
	}
	for _, c := range f.Chunk.Constants {
		t.MarkValue(c)
	}
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// UpvalueRef is one capture descriptor recorded by the compiler alongside
// OP_CLOSURE: whether the captured slot is a local of the immediately
// enclosing function (true) or one of that function's own upvalues
// (false), and its index in the relevant array.
type UpvalueRef struct {
	IsLocal bool
	Index   int
}

// ObjUpvalue is an indirection onto a stack slot. While open, Location
// points into the machine's value stack; closing it copies the current
// value into Closed and retargets Location there. Next links open upvalues
// into the machine's list, kept sorted by descending stack location.
type ObjUpvalue struct {
	Header   Header
	Location *Value
	Closed   Value
	Next     *ObjUpvalue
}

func (u *ObjUpvalue) ObjHeader() *Header { return &u.Header }
func (u *ObjUpvalue) Type() ObjType      { return ObjUpvalueType }
func (u *ObjUpvalue) Trace(t Tracer)     { t.MarkValue(*u.Location) }
func (u *ObjUpvalue) String() string     { return "upvalue" }

// IsOpen reports whether the upvalue still points into the value stack
// rather than its own inline Closed field.
func (u *ObjUpvalue) IsOpen() bool { return u.Location != &u.Closed }

// Close copies the current value into the inline field and retargets
// Location there. Closing an already-closed upvalue is a no-op.
func (u *ObjUpvalue) Close() {
	if !u.IsOpen() {
		return
	}
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure pairs a Function with the upvalue array its body closes over.
// It is the only callable value produced by user code (top-level script
// included).
type ObjClosure struct {
	Header   Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) ObjHeader() *Header { return &c.Header }
func (c *ObjClosure) Type() ObjType      { return ObjClosureType }

func (c *ObjClosure) Trace(t Tracer) {
	t.MarkObject(c.Function)
	for _, uv := range c.Upvalues {
		if uv != nil {
			t.MarkObject(uv)
		}
	}
}

func (c *ObjClosure) String() string { return c.Function.String() }

// NativeFn is the signature of a built-in function exposed to user code.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a Go function so it can be called like any other value.
type ObjNative struct {
	Header Header
	Name   string
	Arity  int
	Fn     NativeFn
}

func (n *ObjNative) ObjHeader() *Header { return &n.Header }
func (n *ObjNative) Type() ObjType      { return ObjNativeType }
func (n *ObjNative) Trace(Tracer)       {}
func (n *ObjNative) String() string     { return "<native fn>" }
