// Package value implements the runtime value representation shared by the
// compiler and the machine: the tagged Value union, the heap object
// variants reachable from it, and the bytecode Chunk that a Function wraps.
//
// Value, Obj and Chunk live in one package rather than three because the
// natural split (chunk holds constants of type Value; a Function object
// holds a chunk; Value can hold an Obj) is circular if separated. Keeping
// them together avoids an import cycle without resorting to interface
// indirection for a hot path.
package value

import "math"

// Kind discriminates the tag of a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is a tagged union over nil, bool, float64 and Obj. It is passed by
// value throughout the compiler and machine, mirroring the fixed-size word
// that a NaN-boxed or tagged-struct representation would occupy in a native
// implementation.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	obj    Obj
}

var Nil = Value{kind: KindNil}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func FromObj(o Obj) Value { return Value{kind: KindObj, obj: o} }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsNumber() float64 { return v.n }
func (v Value) AsObj() Obj        { return v.obj }

// Is reports whether the value's heap object (if any) is of the given type.
func (v Value) Is(t ObjType) bool {
	return v.kind == KindObj && v.obj != nil && v.obj.Type() == t
}

// Falsey implements the language's truthiness rule: nil and false are
// falsey, everything else -- including 0 and the empty string -- is truthy.
func (v Value) Falsey() bool {
	return v.kind == KindNil || (v.kind == KindBool && !v.b)
}

// Equal implements value equality: Nil=Nil, bools by value, numbers by
// IEEE-754 ==  (so NaN != NaN, and +0 == -0), objects by reference identity
// (which, for interned strings, also gives content equality).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindObj:
		return a.obj == b.obj
	}
	return false
}

// IsNaN reports whether the value is a number and is NaN, useful to callers
// that need to special-case the one value for which Equal(v, v) is false.
func (v Value) IsNaN() bool {
	return v.kind == KindNumber && math.IsNaN(v.n)
}
