package machine

import (
	"unsafe"

	"github.com/emberlang/ember/lang/value"
)

// ptrOf exposes a *Value's address for ordering comparisons. The open
// upvalue list is kept sorted by descending stack location so that
// captureUpvalue and closeUpvalues can both work with a single linear scan
// instead of searching the whole list each time.
func ptrOf(v *value.Value) unsafe.Pointer { return unsafe.Pointer(v) }
