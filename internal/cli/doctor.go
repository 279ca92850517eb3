package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/qa-labs/cyscaffold/internal/config"
	"github.com/qa-labs/cyscaffold/internal/process"
	"github.com/qa-labs/cyscaffold/internal/versions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// probeTimeout bounds each `--version` call.
const probeTimeout = 10 * time.Second

// tool is an external program the scaffolder depends on.
type tool struct {
	label string
	bin   string
	min   string
}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusMiss
)

func (s checkStatus) tag() string {
	switch s {
	case statusOK:
		return "[ OK ]"
	case statusWarn:
		return "[WARN]"
	default:
		return "[MISS]"
	}
}

type checkResult struct {
	status checkStatus
	line   string
}

// Swapped in tests.
var (
	doctorRunner process.Runner = process.NewExecRunner()
	lookPath                    = process.LookPath
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that git, npm, node and the editor are available",
	Long: `Run diagnostic checks on the tools used to scaffold a project. Each tool is
probed in parallel and its version compared against the supported minimum.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Current()
		tools := []tool{
			{label: "git", bin: settings.Git, min: "2.28.0"},
			{label: "npm", bin: settings.NPM, min: "8.0.0"},
			{label: "node", bin: "node", min: "18.0.0"},
		}

		results := probeTools(cmd.Context(), doctorRunner, tools)
		results = append(results, checkEditor(settings), checkWorkspaceRoot(settings.WorkspaceRoot))

		missing := printChecks(cmd.OutOrStdout(), results)
		if missing > 0 {
			return fmt.Errorf("%d required tool(s) missing", missing)
		}
		return nil
	},
}

// probeTools runs every probe concurrently. Results keep the order of tools.
func probeTools(ctx context.Context, r process.Runner, tools []tool) []checkResult {
	results := make([]checkResult, len(tools))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tools {
		i, t := i, t
		g.Go(func() error {
			results[i] = probe(ctx, r, t)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func probe(ctx context.Context, r process.Runner, t tool) checkResult {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := r.Run(ctx, t.bin, []string{"--version"}, process.Options{})
	if err != nil {
		logger.Debug("probe failed", zap.String("tool", t.bin), zap.Error(err))
		return checkResult{statusMiss, fmt.Sprintf("%s not found", t.label)}
	}
	if out.ExitCode != 0 {
		return checkResult{statusMiss, fmt.Sprintf("%s --version exited with status %d", t.label, out.ExitCode)}
	}

	v, ok := versions.Extract(out.Stdout)
	if !ok {
		return checkResult{statusWarn, fmt.Sprintf("%s: could not read version from %q", t.label, strings.TrimSpace(out.Stdout))}
	}
	ok, err = versions.AtLeast(v, t.min)
	if err != nil {
		return checkResult{statusWarn, fmt.Sprintf("%s %s: %v", t.label, v, err)}
	}
	if !ok {
		return checkResult{statusWarn, fmt.Sprintf("%s %s is older than %s", t.label, v, t.min)}
	}
	return checkResult{statusOK, fmt.Sprintf("%s %s", t.label, v)}
}

func checkEditor(s config.Settings) checkResult {
	if s.SkipEditor {
		return checkResult{statusOK, "editor disabled"}
	}
	fields := strings.Fields(s.Editor)
	if len(fields) == 0 {
		return checkResult{statusWarn, "no editor configured"}
	}
	path, err := lookPath(fields[0])
	if err != nil {
		return checkResult{statusWarn, fmt.Sprintf("editor %s not found; projects will not open automatically", fields[0])}
	}
	return checkResult{statusOK, fmt.Sprintf("editor %s found at %s", fields[0], path)}
}

func checkWorkspaceRoot(root string) checkResult {
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return checkResult{statusOK, fmt.Sprintf("workspace root %s/ will be created", root)}
	case err != nil:
		return checkResult{statusWarn, fmt.Sprintf("workspace root %s: %v", root, err)}
	case !info.IsDir():
		return checkResult{statusWarn, fmt.Sprintf("workspace root %s is not a directory", root)}
	default:
		return checkResult{statusOK, fmt.Sprintf("workspace root %s/", root)}
	}
}

// printChecks writes one line per result and returns the number missing.
func printChecks(w io.Writer, results []checkResult) int {
	fmt.Fprintln(w, "Environment check:")
	missing := 0
	for _, r := range results {
		if r.status == statusMiss {
			missing++
		}
		fmt.Fprintf(w, "  %s %s\n", r.status.tag(), r.line)
	}
	return missing
}
