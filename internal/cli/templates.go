package cli

import (
	"fmt"

	"github.com/qa-labs/cyscaffold/internal/scaffold"
	"github.com/spf13/cobra"
)

var templateName string

func init() {
	templatesShowCmd.Flags().StringVar(&templateName, "name", "my-project", "Project name used when rendering README.md")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the files written into new projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return templatesListCmd.RunE(cmd, args)
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every path created in a new project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		authored := map[string]bool{}
		for _, p := range scaffold.TemplatePaths() {
			authored[p] = true
		}
		for _, p := range scaffold.Layout() {
			source := "template"
			if !authored[p] {
				source = "npm"
			}
			fmt.Fprintf(out, "  %-28s %s\n", p, source)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the content written to a project file",
	Example: `  cyscaffold templates show cypress.config.js
  cyscaffold templates show README.md --name checkout-tests`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scaffold.ValidateName(templateName); err != nil {
			return &scaffold.Error{Kind: scaffold.KindInvalidArgument, Step: scaffold.StepValidate, Err: err}
		}
		content, err := scaffold.Render(args[0], templateName)
		if err != nil {
			return &scaffold.Error{Kind: scaffold.KindInvalidArgument, Step: scaffold.StepValidate, Path: args[0], Err: err}
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	},
}
