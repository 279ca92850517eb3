package toolchain

import (
	"errors"
	"strings"

	"github.com/qa-labs/cyscaffold/internal/process"
)

// Editor opens a directory in the user's editor.
type Editor struct {
	// Command is the editor invocation, e.g. "code" or "code -n".
	Command string
	Starter process.Starter
}

// NewEditor returns an Editor adapter.
func NewEditor(command string, s process.Starter) *Editor {
	return &Editor{Command: command, Starter: s}
}

// Launch starts the editor on dir without waiting for it to exit. The
// returned channel yields the editor's exit result.
func (e *Editor) Launch(dir string) (<-chan error, error) {
	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		return nil, errors.New("no editor configured")
	}
	args := append(append([]string{}, fields[1:]...), dir)
	return e.Starter.Start(fields[0], args, process.Options{})
}
