// Package gc implements the allocator and collector shared by the compiler
// and the machine: every heap object (interned strings, functions,
// closures, upvalues, classes, instances, bound methods) is created through
// a GC method so it can be linked into the allocation list and accounted
// against the next collection threshold.
//
// The collector is a precise, non-moving, stop-the-world mark-sweep pass
// using a grey worklist (the classic tri-colour abstraction): white objects
// are unreached, grey objects are reached but not yet scanned for their own
// referents, black objects are fully scanned. There is no write barrier --
// collection only ever runs at an allocation point, which is the only place
// execution can be suspended, so the root set observed by a collection is
// always complete and consistent.
//
// Go's own garbage collector owns the actual memory backing these objects;
// this collector's "free" is dropping an object from the tracked allocation
// list, at which point nothing in the language runtime can reach it and Go
// reclaims it in its own time. This is a deliberate adaptation for a target
// that disallows manual free: the spec's invariants (every live object is
// on the list exactly once; dead objects leave it during sweep) hold
// regardless of who performs the underlying deallocation.
package gc

import (
	"unsafe"

	"github.com/emberlang/ember/lang/value"
)

// GCHeapGrowFactor is the multiplier applied to bytes live after a
// collection to compute the threshold for the next one.
const GCHeapGrowFactor = 2

// RootProvider is implemented by long-lived owners of Values/Objs that the
// collector cannot otherwise discover: the machine (its value stack, call
// frames, open upvalues, globals table) and the compiler (its chain of
// in-progress Compiler frames and their partially-built functions).
type RootProvider interface {
	MarkRoots(value.Tracer)
}

// GC is the allocator and collector. It owns the process-wide allocation
// list and the string-interning table; everything else it traces starting
// from registered roots.
type GC struct {
	objects value.Obj
	strings value.Table

	bytesAllocated int
	nextGC         int

	// HeapGrowFactor multiplies bytes-live-after-collection to compute the
	// next collection threshold. Defaults to GCHeapGrowFactor; a driver may
	// override it (see internal/config) to tune collection frequency.
	HeapGrowFactor int

	grey []value.Obj
	pins []value.Value

	roots []RootProvider

	// StressMode forces a collection on every allocation, for exercising GC
	// correctness under test without needing to allocate megabytes of heap.
	StressMode bool

	// LogFn, if set, receives a line of collector trace for diagnostics.
	LogFn func(string)
}

// New returns a collector with an empty heap and the default initial
// threshold.
func New() *GC {
	return &GC{nextGC: 1 << 20, HeapGrowFactor: GCHeapGrowFactor}
}

// AddRoot registers a long-lived root provider. It returns a function that
// unregisters it; callers (notably the compiler, whose root chain exists
// only while compiling) should defer the removal.
func (g *GC) AddRoot(r RootProvider) (remove func()) {
	g.roots = append(g.roots, r)
	return func() {
		for i, existing := range g.roots {
			if existing == r {
				g.roots = append(g.roots[:i], g.roots[i+1:]...)
				return
			}
		}
	}
}

// Pin roots a Value that is not yet reachable from any registered root --
// for example a freshly allocated string about to be stored as a table key,
// where the table insertion itself may allocate and trigger a collection
// before the string is linked in. Unpin removes the most recently pinned
// value. This is the allocator-rooting discipline the spec requires: root
// before any allocation that could transitively allocate.
func (g *GC) Pin(v value.Value) { g.pins = append(g.pins, v) }

// Unpin removes the most recently pinned value.
func (g *GC) Unpin() { g.pins = g.pins[:len(g.pins)-1] }

func (g *GC) link(o value.Obj) {
	h := o.ObjHeader()
	h.Next = g.objects
	g.objects = o
}

func (g *GC) track(size int) {
	g.bytesAllocated += size
	if g.bytesAllocated > g.nextGC || g.StressMode {
		// The object just linked (the list head) is not reachable from any
		// root yet; pin it so its own allocation cannot sweep it.
		g.Pin(value.FromObj(g.objects))
		g.Collect()
		g.Unpin()
	}
}

func (g *GC) log(msg string) {
	if g.LogFn != nil {
		g.LogFn(msg)
	}
}

// Collect runs one full mark-sweep cycle: mark every registered root and
// every pinned value, trace the grey worklist to black, evict dead interned
// strings, then sweep the allocation list.
func (g *GC) Collect() {
	g.log("-- gc begin")

	for _, v := range g.pins {
		g.MarkValue(v)
	}
	for _, r := range g.roots {
		r.MarkRoots(g)
	}
	g.traceGrey()

	g.strings.RemoveWhite()
	g.sweep()

	factor := g.HeapGrowFactor
	if factor == 0 {
		factor = GCHeapGrowFactor
	}
	g.nextGC = g.bytesAllocated * factor
	if g.nextGC == 0 {
		g.nextGC = 1 << 20
	}
	g.log("-- gc end")
}

// MarkValue marks v's heap object, if it has one. Implements value.Tracer.
func (g *GC) MarkValue(v value.Value) {
	if v.IsObj() {
		g.MarkObject(v.AsObj())
	}
}

// MarkObject marks o black-pending (grey) unless already marked. Implements
// value.Tracer.
func (g *GC) MarkObject(o value.Obj) {
	if o == nil {
		return
	}
	h := o.ObjHeader()
	if h.Marked {
		return
	}
	h.Marked = true
	g.grey = append(g.grey, o)
}

func (g *GC) traceGrey() {
	for len(g.grey) > 0 {
		n := len(g.grey) - 1
		o := g.grey[n]
		g.grey = g.grey[:n]
		o.Trace(g)
	}
}

func (g *GC) sweep() {
	var prev value.Obj
	obj := g.objects
	for obj != nil {
		h := obj.ObjHeader()
		if h.Marked {
			h.Marked = false
			prev = obj
			obj = h.Next
			continue
		}
		unreached := obj
		obj = h.Next
		if prev != nil {
			prev.ObjHeader().Next = obj
		} else {
			g.objects = obj
		}
		_ = unreached // dropped from the list; Go's GC reclaims it
	}
}

// BytesAllocated reports the collector's current running estimate of live
// heap size, for tests asserting on collection behaviour.
func (g *GC) BytesAllocated() int { return g.bytesAllocated }

func sizeOf[T any](v T) int { return int(unsafe.Sizeof(v)) }
