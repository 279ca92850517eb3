package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/qa-labs/cyscaffold/internal/branding"
	"github.com/qa-labs/cyscaffold/internal/config"
	"github.com/qa-labs/cyscaffold/internal/locale"
	"github.com/qa-labs/cyscaffold/internal/process"
	"github.com/qa-labs/cyscaffold/internal/scaffold"
	"github.com/qa-labs/cyscaffold/internal/toolchain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	newRoot              string
	newLocale            string
	newEditor            string
	newNoEditor          bool
	newCleanup           bool
	newSkipBinaryInstall bool
)

func init() {
	newCmd.Flags().StringVar(&newRoot, "root", "", "Parent directory for the project (default: workspaces)")
	newCmd.Flags().StringVar(&newLocale, "locale", "", "Language of the initial commit message: "+locale.SupportedNames())
	newCmd.Flags().StringVar(&newEditor, "editor", "", "Editor command used to open the project (default: code)")
	newCmd.Flags().BoolVar(&newNoEditor, "no-editor", false, "Do not open the project in an editor")
	newCmd.Flags().BoolVar(&newCleanup, "cleanup", false, "Remove the partial project if a step fails")
	newCmd.Flags().BoolVar(&newSkipBinaryInstall, "skip-binary-install", false, "Install the npm package without downloading the Cypress binary")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:     "new <project_name> [cypress_version]",
	Aliases: []string{"create"},
	Short:   "Scaffold a new Cypress project",
	Long: `Create workspaces/<project_name> with a git repository, package.json, the Cypress
dev dependency, cypress.config.js, environment files and an empty spec, then commit
everything and open the project in your editor.

When cypress_version is omitted the latest release is installed. An exact version is
saved without a range operator.

Examples:
  cyscaffold new checkout-tests
  cyscaffold new checkout-tests 13.6.0
  cyscaffold new login-tests --locale pt-BR --no-editor`,
	Args: projectArgs,
	RunE: runNew,
}

// projectArgs reports argument count problems as invalid arguments so they
// map to the usage exit code.
func projectArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return &scaffold.Error{
			Kind: scaffold.KindInvalidArgument,
			Step: scaffold.StepValidate,
			Err:  fmt.Errorf("accepts a project name and an optional version, received %d argument(s)", len(args)),
		}
	}
	return nil
}

// scaffolderFactory builds the Scaffolder for a run; replaced in tests.
var scaffolderFactory = newScaffolder

func newScaffolder(s config.Settings, streams toolchain.Streams, log *zap.Logger) *scaffold.Scaffolder {
	runner := process.NewExecRunner()

	git := toolchain.NewGit(s.Git, runner)
	git.Streams = streams

	npm := toolchain.NewNPM(s.NPM, runner)
	npm.Streams = streams
	if s.SkipBinaryInstall {
		npm.Env = map[string]string{"CYPRESS_INSTALL_BINARY": "0"}
	}

	var editor scaffold.Launcher
	if !s.SkipEditor && s.Editor != "" {
		editor = toolchain.NewEditor(s.Editor, runner)
	}
	return scaffold.New(git, npm, editor, log)
}

func runNew(cmd *cobra.Command, args []string) error {
	settings := applyNewFlags(cmd, config.Current())

	opts := scaffold.Options{
		Root:       settings.WorkspaceRoot,
		Name:       args[0],
		Package:    branding.Dependency(),
		Locale:     settings.Locale,
		Cleanup:    settings.CleanupOnFailure,
		SkipEditor: settings.SkipEditor,
	}
	if len(args) == 2 {
		opts.Version = args[1]
	}

	logger.Debug("scaffolding project",
		zap.String("name", opts.Name),
		zap.String("root", opts.Root),
		zap.String("version", opts.Version))

	streams := toolchain.Streams{Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr()}
	s := scaffolderFactory(settings, streams, logger)

	result, err := s.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), settings.Locale, opts.Name, result)
	return nil
}

// applyNewFlags overlays explicitly set flags on the loaded settings.
func applyNewFlags(cmd *cobra.Command, s config.Settings) config.Settings {
	flags := cmd.Flags()
	if flags.Changed("root") {
		s.WorkspaceRoot = newRoot
	}
	if flags.Changed("locale") {
		s.Locale = newLocale
	}
	if flags.Changed("editor") {
		s.Editor = newEditor
	}
	if flags.Changed("no-editor") {
		s.SkipEditor = newNoEditor
	}
	if flags.Changed("cleanup") {
		s.CleanupOnFailure = newCleanup
	}
	if flags.Changed("skip-binary-install") {
		s.SkipBinaryInstall = newSkipBinaryInstall
	}
	return s
}

func printResult(w io.Writer, lang, name string, result *scaffold.Result) {
	p := locale.Printer(locale.Resolve(lang))
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	dim := r.NewStyle().Faint(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("3"))

	fmt.Fprintln(w, title.Render(p.Sprintf(locale.Created, name, result.ProjectDir)))
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if result.Installed != "" {
		fmt.Fprintln(w, dim.Render(fmt.Sprintf("  %s %s", branding.Dependency(), result.Installed)))
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\n"+warn.Render(p.Sprintf(locale.Warnings)))
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}

	fmt.Fprintln(w, "\n"+p.Sprintf(locale.NextSteps))
	if !result.EditorLaunched {
		fmt.Fprintf(w, "  %s\n", p.Sprintf(locale.StepOpen, result.ProjectDir))
	}
	fmt.Fprintf(w, "  %s\n", p.Sprintf(locale.StepRun))
}
