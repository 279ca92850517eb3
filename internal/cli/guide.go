package cli

import (
	"fmt"

	"github.com/qa-labs/cyscaffold/internal/config"
	"github.com/qa-labs/cyscaffold/internal/guide"
	"github.com/qa-labs/cyscaffold/internal/locale"
	"github.com/qa-labs/cyscaffold/internal/logging"
	"github.com/spf13/cobra"
)

var (
	guideLang  string
	guideRaw   bool
	guideWidth int
	guideStyle string
)

func init() {
	guideCmd.Flags().StringVar(&guideLang, "lang", "", "Guide language: "+locale.SupportedNames()+" (default: configured locale)")
	guideCmd.Flags().BoolVar(&guideRaw, "raw", false, "Print the markdown source")
	guideCmd.Flags().IntVar(&guideWidth, "width", guide.DefaultWidth, "Word-wrap width")
	guideCmd.Flags().StringVar(&guideStyle, "style", "", "Glamour style: dark, light, notty or a JSON style file")
	rootCmd.AddCommand(guideCmd)
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the Cypress style guide",
	Long: `Show the conventions used in scaffolded projects: test naming, selectors,
fixtures and environment files. Output is rendered for the terminal unless
--raw is set or stdout is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := guideLang
		if lang == "" {
			lang = config.Current().Locale
		}
		out := cmd.OutOrStdout()

		if guideRaw || (guideStyle == "" && !logging.IsTerminal(out)) {
			md, err := guide.Markdown(lang)
			if err != nil {
				return err
			}
			_, err = out.Write(md)
			return err
		}

		rendered, err := guide.Render(lang, guide.RenderOptions{Width: guideWidth, Style: guideStyle})
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}
