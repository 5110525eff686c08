package manifest

// Document is an ordered sequence of sections parsed from one manifest. The
// first section is always the implicit root, holding any keys that appear
// before the first table header. A Document lives for the duration of one
// augmentation run.
type Document struct {
	Sections []*Section

	// Tail holds trailing comment and blank lines after the last entry.
	Tail []string
}

// Section is one table of the manifest, identified by its dotted path name.
// Array sections ([[name]]) may repeat; plain sections are unique per name.
type Section struct {
	// Name is the dotted path, or "" for the implicit root.
	Name string

	// Trivia holds the comment and blank lines preceding the header,
	// reproduced verbatim on serialization.
	Trivia []string

	// Comment is an inline comment following the header, including the "#".
	Comment string

	Entries []Entry
	Array   bool
}

// Entry is one key/value pair of a section. Keys are unique within a section.
type Entry struct {
	Key   string
	Value Value

	// Trivia holds the comment and blank lines preceding the entry.
	Trivia []string

	// Comment is an inline comment following the value, including the "#".
	Comment string
}

// NewDocument returns an empty document holding only the implicit root.
func NewDocument() *Document {
	return &Document{Sections: []*Section{{}}}
}

// Root returns the implicit root section.
func (d *Document) Root() *Section {
	return d.Sections[0]
}

// Section returns the first non-array section with the given dotted path
// name, or nil.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if !s.Array && s.Name == name {
			return s
		}
	}

	return nil
}

// ArraySections returns all array sections with the given name, in document
// order.
func (d *Document) ArraySections(name string) []*Section {
	var out []*Section

	for _, s := range d.Sections {
		if s.Array && s.Name == name {
			out = append(out, s)
		}
	}

	return out
}

// HasArraySection reports whether at least one [[name]] section exists.
func (d *Document) HasArraySection(name string) bool {
	return len(d.ArraySections(name)) > 0
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{
		Sections: make([]*Section, len(d.Sections)),
		Tail:     cloneStrings(d.Tail),
	}
	for i, s := range d.Sections {
		c.Sections[i] = s.Clone()
	}

	return c
}

// Equal reports structural equality with o: same sections in the same order,
// each with the same keys and values. Trivia is ignored.
func (d *Document) Equal(o *Document) bool {
	if len(d.Sections) != len(o.Sections) {
		return false
	}
	for i := range d.Sections {
		if !d.Sections[i].Equal(o.Sections[i]) {
			return false
		}
	}

	return true
}

// Get returns the value for key, if present.
func (s *Section) Get(key string) (Value, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return Value{}, false
}

// Has reports whether key is present.
func (s *Section) Has(key string) bool {
	_, ok := s.Get(key)

	return ok
}

// Append adds an entry at the end of the section. The caller is responsible
// for key uniqueness.
func (s *Section) Append(key string, v Value) {
	s.Entries = append(s.Entries, Entry{Key: key, Value: v})
}

// Clone returns a deep copy of s.
func (s *Section) Clone() *Section {
	c := &Section{
		Name:    s.Name,
		Array:   s.Array,
		Trivia:  cloneStrings(s.Trivia),
		Comment: s.Comment,
		Entries: make([]Entry, len(s.Entries)),
	}
	for i, e := range s.Entries {
		c.Entries[i] = Entry{
			Key:     e.Key,
			Value:   e.Value.Clone(),
			Trivia:  cloneStrings(e.Trivia),
			Comment: e.Comment,
		}
	}

	return c
}

// Equal reports structural equality with o, ignoring trivia.
func (s *Section) Equal(o *Section) bool {
	if s.Name != o.Name || s.Array != o.Array || len(s.Entries) != len(o.Entries) {
		return false
	}
	for i := range s.Entries {
		if s.Entries[i].Key != o.Entries[i].Key || !s.Entries[i].Value.Equal(o.Entries[i].Value) {
			return false
		}
	}

	return true
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}

	out := make([]string, len(ss))
	copy(out, ss)

	return out
}
