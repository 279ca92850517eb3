// Package toolchain wraps the external programs a scaffolded project needs:
// git for version control, npm for the package manifest and the test-runner
// install, and the editor launched once the project is ready. Each adapter
// turns a non-zero exit into a *CommandError carrying the captured stderr.
package toolchain
