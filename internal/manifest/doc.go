// Package manifest reads the package.json produced by the package manager's
// initializer and validates it against an embedded JSON Schema before the
// scaffolder relies on its dev-dependency entry.
package manifest
