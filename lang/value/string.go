package value

// ObjStringVal is the heap representation of an interned string. Two
// ObjStringVal objects with identical bytes are never simultaneously alive;
// the garbage collector's strings table guarantees this, so string equality
// reduces to pointer identity (see Equal).
type ObjStringVal struct {
	Header Header
	Chars  string
	Hash   uint32
}

func (s *ObjStringVal) ObjHeader() *Header { return &s.Header }
func (s *ObjStringVal) Type() ObjType      { return ObjString }
func (s *ObjStringVal) Trace(Tracer)       {} // no children
func (s *ObjStringVal) String() string     { return s.Chars }

// HashString computes the 32-bit FNV-1a hash used to key interned strings.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
