package value

// Table is an open-addressed hash map keyed by interned string identity. It
// backs the machine's globals, the garbage collector's intern set, and
// every class's method table and instance's field table.
//
// Lookup probes linearly from hash%capacity. A deletion leaves a tombstone
// (a slot with a nil Key and Value Bool(true)) so that probe chains through
// it remain intact; tombstones count toward the load factor but are reused
// by subsequent inserts.
type Table struct {
	count    int // live entries + tombstones
	entries  []tableEntry
}

type tableEntry struct {
	Key   *ObjStringVal
	Value Value
	used  bool // distinguishes a never-used slot from a tombstone
}

const tableMaxLoad = 0.75

// NewTable returns an empty table. The zero value of Table is also usable.
func NewTable() *Table { return &Table{} }

// Len reports the number of live (non-tombstone) entries.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.used && e.Key != nil {
			n++
		}
	}
	return n
}

func (t *Table) findEntry(entries []tableEntry, key *ObjStringVal) int {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	tombstone := -1
	for {
		e := &entries[index]
		if !e.used {
			// Truly empty: not found. Prefer a tombstone seen along the way so
			// inserts reuse it instead of growing the probe chain further.
			if tombstone != -1 {
				return tombstone
			}
			return index
		}
		if e.Key == nil {
			if tombstone == -1 {
				tombstone = index
			}
		} else if e.Key == key {
			return index
		}
		index = (index + 1) % capacity
	}
}

// adjustCapacity rehashes all live entries into a table of the given
// capacity, discarding tombstones (they have no meaning in a fresh table).
func (t *Table) adjustCapacity(capacity int) {
	entries := make([]tableEntry, capacity)
	t.count = 0
	for _, e := range t.entries {
		if e.used && e.Key != nil {
			idx := t.findEntryEmpty(entries, e.Key)
			entries[idx] = tableEntry{Key: e.Key, Value: e.Value, used: true}
			t.count++
		}
	}
	t.entries = entries
}

// findEntryEmpty probes for an insertion point in a table known to contain
// no tombstones (used while rehashing).
func (t *Table) findEntryEmpty(entries []tableEntry, key *ObjStringVal) int {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	for {
		e := &entries[index]
		if !e.used || e.Key == key {
			return index
		}
		index = (index + 1) % capacity
	}
}

// Get returns the value stored for key, and whether it was found.
func (t *Table) Get(key *ObjStringVal) (Value, bool) {
	if len(t.entries) == 0 {
		return Nil, false
	}
	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	if !e.used || e.Key == nil {
		return Nil, false
	}
	return e.Value, true
}

// Set stores value for key, growing the table first if the load factor
// would be exceeded. It reports whether this inserted a brand new key (as
// opposed to overwriting an existing one).
func (t *Table) Set(key *ObjStringVal, val Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		capacity := growCapacity(len(t.entries))
		t.adjustCapacity(capacity)
	}

	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	isNew := !e.used || e.Key == nil
	if !e.used {
		// A brand new slot grows the fill count; reusing a tombstone does not,
		// since tombstones already counted toward it.
		t.count++
	}
	*e = tableEntry{Key: key, Value: val, used: true}
	return isNew
}

func growCapacity(cap int) int {
	if cap < 8 {
		return 8
	}
	return cap * 2
}

// Delete removes key, leaving a tombstone in its slot so that later probes
// for other keys sharing its bucket still succeed.
func (t *Table) Delete(key *ObjStringVal) bool {
	if len(t.entries) == 0 {
		return false
	}
	idx := t.findEntry(t.entries, key)
	e := &t.entries[idx]
	if !e.used || e.Key == nil {
		return false
	}
	*e = tableEntry{Key: nil, Value: Bool(true), used: true}
	return true
}

// FindString is the interning probe: it compares candidate keys by length,
// hash, then byte content, so the garbage collector's string table can
// return an existing ObjStringVal for content-equal bytes instead of
// allocating a duplicate.
func (t *Table) FindString(chars string, hash uint32) *ObjStringVal {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := len(t.entries)
	index := int(hash) % capacity
	for {
		e := &t.entries[index]
		if !e.used {
			return nil
		}
		if e.Key != nil && e.Key.Hash == hash && len(e.Key.Chars) == len(chars) && e.Key.Chars == chars {
			return e.Key
		}
		index = (index + 1) % capacity
	}
}

// RemoveWhite deletes every entry whose key object is unmarked. The
// collector calls this on the intern table before sweeping so that
// interned strings with no other referent are reclaimed.
func (t *Table) RemoveWhite() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.used && e.Key != nil && !e.Key.Header.Marked {
			*e = tableEntry{Key: nil, Value: Bool(true), used: true}
		}
	}
}

// Each calls fn for every live entry. fn must not mutate the table.
func (t *Table) Each(fn func(key *ObjStringVal, val Value)) {
	for _, e := range t.entries {
		if e.used && e.Key != nil {
			fn(e.Key, e.Value)
		}
	}
}
