package augment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grumpyproject/grumpy/pkg/manifest"
)

// ErrConflictingEntry indicates an addition found an entry of the wrong shape
// at its target path, e.g. a plain key where a section is required. The user
// has to resolve the conflict by hand before retrying.
var ErrConflictingEntry = errors.New("conflicting manifest entry")

// ConflictError names the path an addition could not be applied to.
type ConflictError struct {
	Path   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v at %q: %s", ErrConflictingEntry, e.Path, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingEntry
}

// Apply merges specs into doc and returns the augmented document. The input
// document is never mutated: on any error the caller's document is exactly as
// it was, and nothing partial escapes.
func Apply(doc *manifest.Document, specs []Spec) (*manifest.Document, error) {
	out := doc.Clone()

	for _, spec := range specs {
		if err := applySpec(out, spec); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func applySpec(doc *manifest.Document, spec Spec) error {
	logger := slog.With(
		slog.String("policy", spec.Policy.String()),
		slog.String("path", spec.Path),
	)

	switch spec.Policy {
	case EnsureKey:
		sec, err := ensureSection(doc, spec.Path)
		if err != nil {
			return err
		}

		if sec.Has(spec.Key) {
			logger.Debug("key present, leaving untouched", slog.String("key", spec.Key))

			return nil
		}

		logger.Debug("inserting key", slog.String("key", spec.Key))
		sec.Append(spec.Key, spec.Value.Clone())

		return nil

	case EnsureSection:
		_, err := ensureSection(doc, spec.Path)

		return err

	case EnsureArrayEntry:
		return ensureArrayEntry(doc, spec)
	}

	return &ConflictError{Path: spec.Path, Reason: "unknown merge policy"}
}

// ensureSection returns the section at path, creating it and any missing
// parents when absent. A plain key occupying any prefix of the path is a
// conflict.
func ensureSection(doc *manifest.Document, path string) (*manifest.Section, error) {
	if path == "" {
		return doc.Root(), nil
	}

	if sec := doc.Section(path); sec != nil {
		return sec, nil
	}

	if doc.HasArraySection(path) {
		return nil, &ConflictError{Path: path, Reason: "existing entry is an array of tables, not a table"}
	}

	if err := checkPrefixConflicts(doc, path); err != nil {
		return nil, err
	}

	var sec *manifest.Section
	for _, prefix := range pathPrefixes(path) {
		if doc.Section(prefix) != nil {
			continue
		}

		sec = insertSection(doc, &manifest.Section{
			Name: prefix,
			// Separate the new header from preceding content.
			Trivia: []string{""},
		})
	}

	if sec == nil || sec.Name != path {
		sec = doc.Section(path)
	}

	return sec, nil
}

// checkPrefixConflicts fails when a plain key occupies path or one of its
// ancestors, e.g. `dependencies = "1.0"` in the root when [dependencies] is
// required.
func checkPrefixConflicts(doc *manifest.Document, path string) error {
	parts := strings.Split(path, ".")

	// Keys in the root can shadow the first component.
	if doc.Root().Has(parts[0]) {
		return &ConflictError{Path: parts[0], Reason: "existing entry is a value, not a section"}
	}

	for i := 1; i < len(parts); i++ {
		parent := strings.Join(parts[:i], ".")

		sec := doc.Section(parent)
		if sec == nil {
			continue
		}

		if sec.Has(parts[i]) {
			return &ConflictError{
				Path:   parent + "." + parts[i],
				Reason: "existing entry is a value, not a section",
			}
		}
	}

	return nil
}

// pathPrefixes returns the dotted prefixes of path from shortest to longest,
// including path itself.
func pathPrefixes(path string) []string {
	parts := strings.Split(path, ".")
	out := make([]string, len(parts))

	for i := range parts {
		out[i] = strings.Join(parts[:i+1], ".")
	}

	return out
}

// insertSection places sec after its nearest existing sibling or parent, or
// at the end of the document.
func insertSection(doc *manifest.Document, sec *manifest.Section) *manifest.Section {
	idx := len(doc.Sections)

	parent := parentPath(sec.Name)

	for i, existing := range doc.Sections {
		if existing.Name == "" {
			continue
		}

		related := existing.Name == parent ||
			parentPath(existing.Name) == parent ||
			strings.HasPrefix(sec.Name, existing.Name+".")
		if related {
			idx = i + 1
		}
	}

	doc.Sections = append(doc.Sections, nil)
	copy(doc.Sections[idx+1:], doc.Sections[idx:])
	doc.Sections[idx] = sec

	return sec
}

func parentPath(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i]
	}

	return ""
}

func ensureArrayEntry(doc *manifest.Document, spec Spec) error {
	if doc.Section(spec.Path) != nil {
		return &ConflictError{Path: spec.Path, Reason: "existing entry is a table, not an array of tables"}
	}

	if err := checkPrefixConflicts(doc, spec.Path); err != nil {
		return err
	}

	identity, ok := entryValue(spec.Entries, spec.IdentityKey)
	if !ok {
		return &ConflictError{Path: spec.Path, Reason: fmt.Sprintf("addition lacks identity key %q", spec.IdentityKey)}
	}

	for _, sec := range doc.ArraySections(spec.Path) {
		existing, ok := sec.Get(spec.IdentityKey)
		if ok && existing.Equal(identity) {
			slog.Debug("array entry present, leaving untouched",
				slog.String("path", spec.Path),
				slog.String("identity", spec.IdentityKey),
			)

			return nil
		}
	}

	sec := &manifest.Section{
		Name:   spec.Path,
		Array:  true,
		Trivia: []string{""},
	}
	for _, e := range spec.Entries {
		sec.Append(e.Key, e.Value.Clone())
	}

	insertArraySection(doc, sec)

	return nil
}

// insertArraySection places sec after the last existing [[sec.Name]] entry,
// falling back to sibling/parent placement.
func insertArraySection(doc *manifest.Document, sec *manifest.Section) {
	last := -1

	for i, existing := range doc.Sections {
		if existing.Array && existing.Name == sec.Name {
			last = i
		}
	}

	if last < 0 {
		insertSection(doc, sec)

		return
	}

	idx := last + 1
	doc.Sections = append(doc.Sections, nil)
	copy(doc.Sections[idx+1:], doc.Sections[idx:])
	doc.Sections[idx] = sec
}

func entryValue(entries []manifest.Entry, key string) (manifest.Value, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return manifest.Value{}, false
}
