// Package scaffold orchestrates one project run: create the scaffold via the
// external collaborator, parse the manifest, apply the catalog additions,
// install the harness source, and write the manifest back. A run is
// single-threaded and synchronous; it assumes exclusive access to the project
// directory. A failed run halts at the failing step with no rollback, and
// re-running is always safe because the manifest additions are idempotent.
package scaffold
