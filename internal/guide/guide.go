// Package guide holds the Cypress style guide shipped with the scaffolder,
// in English and Brazilian Portuguese, and renders it for the terminal.
package guide

import (
	"embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/qa-labs/cyscaffold/internal/locale"
	"golang.org/x/text/language"
)

//go:embed docs/*.md
var docsFS embed.FS

var documents = map[language.Tag]string{
	language.English:             "docs/en.md",
	language.BrazilianPortuguese: "docs/pt-BR.md",
}

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 100

// RenderOptions controls terminal rendering.
type RenderOptions struct {
	Width int
	// Style is a glamour style name ("dark", "light", "notty", ...);
	// empty selects one from the terminal background.
	Style string
}

// Markdown returns the raw guide for the language closest to lang.
func Markdown(lang string) ([]byte, error) {
	tag := locale.Resolve(lang)
	name, ok := documents[tag]
	if !ok {
		return nil, fmt.Errorf("no style guide for %s", tag)
	}
	data, err := docsFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Render returns the guide for lang formatted for a terminal.
func Render(lang string, opts RenderOptions) (string, error) {
	md, err := Markdown(lang)
	if err != nil {
		return "", err
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStylePath(opts.Style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return "", fmt.Errorf("rendering style guide: %w", err)
	}
	return out, nil
}
