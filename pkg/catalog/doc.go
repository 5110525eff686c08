// Package catalog holds the compiled-in conventions grumpy installs into
// every new project: the fixed dependency set, the harness source text, and
// the ordered addition specs the augmentation engine applies. The catalog is
// read-only static data, not user-configurable at runtime.
package catalog
