package toolchain

import (
	"context"
	"strings"

	"github.com/qa-labs/cyscaffold/internal/process"
)

// Git runs git commands against a project directory.
type Git struct {
	Bin     string
	Runner  process.Runner
	Streams Streams
}

// NewGit returns a Git adapter. An empty bin means "git".
func NewGit(bin string, r process.Runner) *Git {
	if bin == "" {
		bin = "git"
	}
	return &Git{Bin: bin, Runner: r}
}

// Init creates an empty repository in dir.
func (g *Git) Init(ctx context.Context, dir string) error {
	_, err := run(ctx, g.Runner, g.Bin, []string{"init"}, dir, nil, g.Streams)
	return err
}

// AddAll stages every file under dir.
func (g *Git) AddAll(ctx context.Context, dir string) error {
	_, err := run(ctx, g.Runner, g.Bin, []string{"add", "."}, dir, nil, g.Streams)
	return err
}

// Commit records the staged changes with message.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	_, err := run(ctx, g.Runner, g.Bin, []string{"commit", "-m", message}, dir, nil, g.Streams)
	return err
}

// Version returns the output of "git --version".
func (g *Git) Version(ctx context.Context) (string, error) {
	out, err := run(ctx, g.Runner, g.Bin, []string{"--version"}, "", nil, Streams{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}
