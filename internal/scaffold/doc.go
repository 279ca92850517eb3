// Package scaffold creates a new Cypress end-to-end test project. It powers
// the "cyscaffold new" command: a strictly ordered pipeline that creates the
// project directory, initializes git, writes the static templates, installs
// the test runner with npm, commits everything as a single initial commit,
// and finally opens the project in an editor on a best-effort basis.
package scaffold
