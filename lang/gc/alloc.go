package gc

import "github.com/emberlang/ember/lang/value"

// InternString returns the interned ObjStringVal for chars, allocating and
// linking a new one only if no content-equal string already exists.
func (g *GC) InternString(chars string) *value.ObjStringVal {
	hash := value.HashString(chars)
	if existing := g.strings.FindString(chars, hash); existing != nil {
		return existing
	}

	s := &value.ObjStringVal{Chars: chars, Hash: hash}
	g.link(s)
	g.Pin(value.FromObj(s))
	g.track(sizeOf(*s) + len(chars))
	g.Unpin()

	g.strings.Set(s, value.Bool(true))
	return s
}

// NewFunction allocates an empty function object. The caller fills in
// Arity, UpvalueCount, Chunk and Name as compilation of its body completes.
func (g *GC) NewFunction() *value.ObjFunction {
	f := &value.ObjFunction{}
	g.link(f)
	g.track(sizeOf(*f))
	return f
}

// NewNative wraps a Go function as a callable native value.
func (g *GC) NewNative(name string, arity int, fn value.NativeFn) *value.ObjNative {
	n := &value.ObjNative{Name: name, Arity: arity, Fn: fn}
	g.link(n)
	g.track(sizeOf(*n))
	return n
}

// NewClosure allocates a closure over fn with an upvalue array sized to
// fn.UpvalueCount (slots are nil until CLOSURE's capture loop fills them).
func (g *GC) NewClosure(fn *value.ObjFunction) *value.ObjClosure {
	c := &value.ObjClosure{Function: fn, Upvalues: make([]*value.ObjUpvalue, fn.UpvalueCount)}
	g.link(c)
	g.track(sizeOf(*c) + fn.UpvalueCount*int(sizeOf((*value.ObjUpvalue)(nil))))
	return c
}

// NewUpvalue allocates an open upvalue targeting slot.
func (g *GC) NewUpvalue(slot *value.Value) *value.ObjUpvalue {
	u := &value.ObjUpvalue{Location: slot}
	g.link(u)
	g.track(sizeOf(*u))
	return u
}

// NewClass allocates a class named name with an empty method table.
func (g *GC) NewClass(name *value.ObjStringVal) *value.ObjClass {
	c := &value.ObjClass{Name: name}
	g.link(c)
	g.track(sizeOf(*c))
	return c
}

// NewInstance allocates an instance of class with an empty field table.
func (g *GC) NewInstance(class *value.ObjClass) *value.ObjInstance {
	i := &value.ObjInstance{Class: class}
	g.link(i)
	g.track(sizeOf(*i))
	return i
}

// NewBoundMethod allocates a bound method pairing receiver with method.
func (g *GC) NewBoundMethod(receiver value.Value, method *value.ObjClosure) *value.ObjBoundMethod {
	b := &value.ObjBoundMethod{Receiver: receiver, Method: method}
	g.link(b)
	g.track(sizeOf(*b))
	return b
}
