package manifest

// ValueKind discriminates the variants of [Value].
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindString
	KindBool
	KindInteger
	KindArray
	KindInlineTable

	// KindRaw is an opaque passthrough for constructs the model does not
	// type (floats, dates, multi-line strings). The original text is
	// reproduced verbatim on serialization.
	KindRaw
)

// Value is a tagged variant over the literal types a manifest entry can hold.
// The zero Value is invalid and cannot be serialized.
type Value struct {
	str     string
	arr     []Value
	table   []TableEntry
	integer int64
	kind    ValueKind
	boolean bool
}

// TableEntry is one key/value pair of an inline table.
type TableEntry struct {
	Key   string
	Value Value
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Integer returns an integer Value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// Array returns an array Value holding vs in order.
func Array(vs ...Value) Value {
	return Value{kind: KindArray, arr: vs}
}

// InlineTable returns an inline table Value holding entries in order.
func InlineTable(entries ...TableEntry) Value {
	return Value{kind: KindInlineTable, table: entries}
}

// Raw returns an opaque passthrough Value that serializes to text verbatim.
func Raw(text string) Value {
	return Value{kind: KindRaw, str: text}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// AsString returns the string payload, if v is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean payload, if v is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsInteger returns the integer payload, if v is an integer.
func (v Value) AsInteger() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// AsArray returns the element slice, if v is an array. The slice is shared;
// callers must not mutate it.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsTable returns the entry slice, if v is an inline table. The slice is
// shared; callers must not mutate it.
func (v Value) AsTable() ([]TableEntry, bool) {
	return v.table, v.kind == KindInlineTable
}

// RawText returns the passthrough text, if v is raw.
func (v Value) RawText() (string, bool) {
	return v.str, v.kind == KindRaw
}

// Equal reports structural equality: same kind and same payload, element by
// element. Raw values compare by their verbatim text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindString, KindRaw:
		return v.str == o.str
	case KindBool:
		return v.boolean == o.boolean
	case KindInteger:
		return v.integer == o.integer
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}

		return true
	case KindInlineTable:
		if len(v.table) != len(o.table) {
			return false
		}
		for i := range v.table {
			if v.table[i].Key != o.table[i].Key || !v.table[i].Value.Equal(o.table[i].Value) {
				return false
			}
		}

		return true
	case KindInvalid:
		return true
	}

	return false
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	c := v

	if v.arr != nil {
		c.arr = make([]Value, len(v.arr))
		for i := range v.arr {
			c.arr[i] = v.arr[i].Clone()
		}
	}

	if v.table != nil {
		c.table = make([]TableEntry, len(v.table))
		for i := range v.table {
			c.table[i] = TableEntry{Key: v.table[i].Key, Value: v.table[i].Value.Clone()}
		}
	}

	return c
}
