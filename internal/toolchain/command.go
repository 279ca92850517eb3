package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/qa-labs/cyscaffold/internal/process"
)

// CommandError reports an external program that exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Name, strings.Join(e.Args, " "), e.ExitCode)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Streams carries the writers external program output is mirrored to.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

func run(ctx context.Context, r process.Runner, bin string, args []string, dir string, env map[string]string, s Streams) (*process.Output, error) {
	out, err := r.Run(ctx, bin, args, process.Options{
		Dir:    dir,
		Env:    env,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
	if err != nil {
		return out, err
	}
	if out.ExitCode != 0 {
		return out, &CommandError{
			Name:     bin,
			Args:     args,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
		}
	}
	return out, nil
}

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
