package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/qa-labs/cyscaffold/internal/branding"
	"github.com/qa-labs/cyscaffold/internal/config"
	"github.com/qa-labs/cyscaffold/internal/logging"
	"github.com/qa-labs/cyscaffold/internal/scaffold"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logJSON bool
	logger  = logging.Nop()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each scaffold step")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.SetFlagErrorFunc(flagError)
}

// flagError reports unknown flags and malformed flag values as invalid
// arguments. Subcommands inherit it from the root.
func flagError(cmd *cobra.Command, err error) error {
	return &scaffold.Error{Kind: scaffold.KindInvalidArgument, Step: cmd.Name(), Err: err}
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates Cypress end-to-end test projects: a git repository with
an npm manifest, the Cypress dev dependency, a minimal cypress.config.js and an empty spec,
committed and ready to open in your editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger = logging.New(logging.Options{
			Verbose: verbose,
			JSON:    logJSON,
			Writer:  cmd.ErrOrStderr(),
		})
		logger.Debug("config loaded", zap.String("file", config.FilePath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return scaffold.ExitCode(err)
}
