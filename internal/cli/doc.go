// Package cli defines the Cobra command tree for the cyscaffold CLI. Each file
// in this package registers one top-level command (new, doctor, guide, etc.)
// with the root command. Command implementations delegate to internal packages
// for the actual work and only handle flag parsing, I/O formatting, and exit codes.
package cli
