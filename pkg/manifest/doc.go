// Package manifest provides a round-trip model for Cargo.toml manifests.
//
// The model preserves section ordering, key ordering, and comment trivia so
// that a parse/serialize cycle reproduces the manifest a user wrote, while
// still exposing a typed tree that the augmentation engine can merge into.
// Constructs the model does not type (floats, dates, multi-line strings) are
// carried as opaque raw values rather than being dropped.
package manifest
