// Package locale resolves the language used for generated content and CLI
// messages. English and Brazilian Portuguese are supported; anything else
// falls back to English.
package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	CommitMessage = "creates cypress project"
	Created       = "Created %s at %s/"
	NextSteps     = "Next steps:"
	StepOpen      = "Open %s in your editor"
	StepRun       = "Run 'npx cypress open' to start writing tests"
	Warnings      = "Warnings:"
)

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

func init() {
	pt := language.BrazilianPortuguese
	_ = message.SetString(pt, CommitMessage, "Cria projeto cypress")
	_ = message.SetString(pt, Created, "%s criado em %s/")
	_ = message.SetString(pt, NextSteps, "Próximos passos:")
	_ = message.SetString(pt, StepOpen, "Abra %s no seu editor")
	_ = message.SetString(pt, StepRun, "Execute 'npx cypress open' para começar a escrever testes")
	_ = message.SetString(pt, Warnings, "Avisos:")
}

// Resolve maps a user-supplied language name ("en", "pt", "pt-BR", ...) to
// one of the supported tags. Unknown or empty input resolves to English.
func Resolve(name string) language.Tag {
	if name == "" {
		return language.English
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// SupportedNames returns the supported languages as a list for help text,
// e.g. "en or pt-BR".
func SupportedNames() string {
	names := make([]string, len(supported))
	for i, tag := range supported {
		names[i] = tag.String()
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// Printer returns a message printer for the resolved language.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Commit returns the initial commit message for the given language.
func Commit(tag language.Tag) string {
	return Printer(tag).Sprintf(CommitMessage)
}
