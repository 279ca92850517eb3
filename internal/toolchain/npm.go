package toolchain

import (
	"context"
	"strings"

	"github.com/qa-labs/cyscaffold/internal/process"
	"github.com/qa-labs/cyscaffold/internal/versions"
)

// NPM runs npm commands against a project directory.
type NPM struct {
	Bin     string
	Runner  process.Runner
	Streams Streams
	// Env is overlaid on the environment of install commands.
	Env map[string]string
}

// NewNPM returns an NPM adapter. An empty bin means "npm".
func NewNPM(bin string, r process.Runner) *NPM {
	if bin == "" {
		bin = "npm"
	}
	return &NPM{Bin: bin, Runner: r}
}

// Init writes a package.json with default fields.
func (n *NPM) Init(ctx context.Context, dir string) error {
	_, err := run(ctx, n.Runner, n.Bin, []string{"init", "-y"}, dir, nil, n.Streams)
	return err
}

// InstallDev installs pkg as a development dependency. Exact selectors are
// saved without a range operator so package.json records the given version.
func (n *NPM) InstallDev(ctx context.Context, dir, pkg string, sel versions.Selector) error {
	_, err := run(ctx, n.Runner, n.Bin, InstallArgs(pkg, sel), dir, n.Env, n.Streams)
	return err
}

// Version returns the output of "npm --version".
func (n *NPM) Version(ctx context.Context) (string, error) {
	out, err := run(ctx, n.Runner, n.Bin, []string{"--version"}, "", nil, Streams{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

// InstallArgs returns the npm arguments installing pkg at sel.
func InstallArgs(pkg string, sel versions.Selector) []string {
	spec := pkg
	if sel.Kind != versions.Latest {
		spec = pkg + "@" + sel.Raw
	}
	args := []string{"install", "--save-dev", spec}
	if sel.Pinned() {
		args = append(args, "--save-exact")
	}
	return args
}
