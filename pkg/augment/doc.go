// Package augment applies a fixed, ordered set of additions to a manifest
// document. Every policy is idempotent and non-destructive: re-applying the
// same additions yields a structurally identical document, and keys that are
// not the explicit target of an addition are never touched.
package augment
