package augment

import (
	"github.com/grumpyproject/grumpy/pkg/manifest"
)

// Policy selects how a [Spec] merges into the document.
type Policy int

const (
	// EnsureKey inserts the key with the given value at the end of the
	// target section iff the key is absent. An existing value is never
	// overwritten, whatever it holds.
	EnsureKey Policy = iota

	// EnsureSection creates the target section (and any missing parents)
	// iff it does not exist.
	EnsureSection

	// EnsureArrayEntry appends a new [[section]] entry iff no existing
	// entry matches on the identity key.
	EnsureArrayEntry
)

func (p Policy) String() string {
	switch p {
	case EnsureKey:
		return "ensure-key"
	case EnsureSection:
		return "ensure-section"
	case EnsureArrayEntry:
		return "ensure-array-entry"
	}

	return "unknown"
}

// Spec describes one addition to ensure is present in a manifest document.
// Specs are static catalog data; they are applied in catalog order and a
// later spec may target a section created by an earlier one.
type Spec struct {
	// Path is the dotted target section path, or "" for the root.
	Path string

	// Key and Value are the payload for [EnsureKey].
	Key   string
	Value manifest.Value

	// IdentityKey names the key that identifies an array entry for
	// [EnsureArrayEntry]; Entries is the full entry template, which must
	// include the identity key.
	IdentityKey string
	Entries     []manifest.Entry

	Policy Policy
}

// KeySpec returns an ensure-key spec.
func KeySpec(path, key string, value manifest.Value) Spec {
	return Spec{Policy: EnsureKey, Path: path, Key: key, Value: value}
}

// SectionSpec returns an ensure-section spec.
func SectionSpec(path string) Spec {
	return Spec{Policy: EnsureSection, Path: path}
}

// ArrayEntrySpec returns an ensure-array-entry spec identified by identityKey.
func ArrayEntrySpec(path, identityKey string, entries ...manifest.Entry) Spec {
	return Spec{Policy: EnsureArrayEntry, Path: path, IdentityKey: identityKey, Entries: entries}
}
