// Package process runs the external programs the scaffolder depends on (git,
// npm, the editor). Output is streamed to optional writers while also being
// captured, and a non-zero exit is reported in Output rather than as an error
// so callers can attach their own context.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes to close after the
// process has been killed.
const waitDelay = 2 * time.Second

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Options holds optional parameters for command execution.
type Options struct {
	Dir string            // working directory
	Env map[string]string // overlay on the current environment

	// Stdout and Stderr receive a live copy of the output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner runs a command to completion.
type Runner interface {
	// Run returns Output with ExitCode set if the process exits (even non-zero).
	// It returns an error only when the process could not run at all
	// (binary not found, context canceled, I/O failure).
	Run(ctx context.Context, name string, args []string, opts Options) (*Output, error)
}

// Starter starts a command without waiting for it.
type Starter interface {
	// Start launches the process and returns a channel that receives the
	// result of waiting on it exactly once, then closes.
	Start(name string, args []string, opts Options) (<-chan error, error)
}

// ExecRunner is the os/exec implementation of Runner and Starter.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, streaming and capturing stdout/stderr.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(os.Environ(), opts.Env)
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = teeWriter(opts.Stdout, &stdoutBuf)
	cmd.Stderr = teeWriter(opts.Stderr, &stderrBuf)

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", name, err)
	}

	return output, nil
}

// Start launches the command detached from the caller's lifetime. The
// process is reaped in a background goroutine so it never becomes a zombie.
func (r *ExecRunner) Start(name string, args []string, opts Options) (<-chan error, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(os.Environ(), opts.Env)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
		close(done)
	}()
	return done, nil
}

// LookPath resolves a program on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// teeWriter returns buf alone or buf and w combined.
func teeWriter(w io.Writer, buf *bytes.Buffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// buildEnv applies overlay to base. Keys are applied in sorted order so the
// result is deterministic.
func buildEnv(base []string, overlay map[string]string) []string {
	env := append([]string(nil), base...)
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, overlay[k])
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
