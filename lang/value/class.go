package value

import "fmt"

// ObjClass is a user-defined class: a name and its method table (selector
// string -> ObjClosure, stored as a Value so the table's generic accessors
// apply uniformly).
type ObjClass struct {
	Header  Header
	Name    *ObjStringVal
	Methods Table
}

func (c *ObjClass) ObjHeader() *Header { return &c.Header }
func (c *ObjClass) Type() ObjType      { return ObjClassType }

func (c *ObjClass) Trace(t Tracer) {
	t.MarkObject(c.Name)
	c.Methods.Each(func(k *ObjStringVal, v Value) {
		t.MarkObject(k)
		t.MarkValue(v)
	})
}

func (c *ObjClass) String() string { return c.Name.Chars }

// ObjInstance is an instance of a class: the class pointer plus a per-
// instance field table.
type ObjInstance struct {
	Header Header
	Class  *ObjClass
	Fields Table
}

func (i *ObjInstance) ObjHeader() *Header { return &i.Header }
func (i *ObjInstance) Type() ObjType      { return ObjInstanceType }

func (i *ObjInstance) Trace(t Tracer) {
	t.MarkObject(i.Class)
	i.Fields.Each(func(k *ObjStringVal, v Value) {
		t.MarkObject(k)
		t.MarkValue(v)
	})
}

func (i *ObjInstance) String() string { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

// ObjBoundMethod pairs a receiver with one of its class's method closures,
// produced by OP_GET_PROPERTY when the property names a method rather than
// a field.
type ObjBoundMethod struct {
	Header   Header
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) ObjHeader() *Header { return &b.Header }
func (b *ObjBoundMethod) Type() ObjType      { return ObjBoundMethodType }

func (b *ObjBoundMethod) Trace(t Tracer) {
	t.MarkValue(b.Receiver)
	t.MarkObject(b.Method)
}

func (b *ObjBoundMethod) String() string { return b.Method.String() }
