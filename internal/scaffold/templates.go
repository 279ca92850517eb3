package scaffold

import (
	"embed"
	"fmt"
	"path"
)

//go:embed templates
var templateFS embed.FS

// Project-relative paths of every file the scaffolder creates.
const (
	PathGitignore  = ".gitignore"
	PathReadme     = "README.md"
	PathPackage    = "package.json"
	PathEnv        = "cypress.env.json"
	PathEnvExample = "cypress.env.example.json"
	PathConfig     = "cypress.config.js"
	PathSpec       = "cypress/e2e/spec.cy.js"
)

// readmeTemplate is the only template with an interpolated field.
const readmeTemplate = "# %s\n\nAdd a description of the project here.\n"

// staticSources maps an output path to its embedded source file.
var staticSources = map[string]string{
	PathGitignore:  "gitignore",
	PathEnv:        "env.json",
	PathEnvExample: "env.json",
	PathConfig:     "cypress.config.js",
	PathSpec:       "spec.cy.js",
}

// templateOrder lists the authored files in the order they are written.
var templateOrder = []string{
	PathGitignore,
	PathReadme,
	PathEnv,
	PathEnvExample,
	PathConfig,
	PathSpec,
}

// Layout returns every path present in a freshly scaffolded project,
// including the package.json produced by the package manager.
func Layout() []string {
	return []string{
		PathGitignore,
		PathReadme,
		PathPackage,
		PathEnv,
		PathEnvExample,
		PathConfig,
		PathSpec,
	}
}

// TemplatePaths returns the paths of the files authored by the scaffolder.
func TemplatePaths() []string {
	out := make([]string, len(templateOrder))
	copy(out, templateOrder)
	return out
}

// Render returns the content written to relPath for a project named name.
// Only README.md depends on name; every other template is static.
func Render(relPath, name string) ([]byte, error) {
	if relPath == PathReadme {
		return Readme(name), nil
	}
	return Static(relPath)
}

// Static returns the fixed content of a static template.
func Static(relPath string) ([]byte, error) {
	src, ok := staticSources[relPath]
	if !ok {
		return nil, fmt.Errorf("no static template for %q", relPath)
	}
	data, err := templateFS.ReadFile(path.Join("templates", src))
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", src, err)
	}
	return data, nil
}

// Readme returns the README content for a project named name.
func Readme(name string) []byte {
	return []byte(fmt.Sprintf(readmeTemplate, name))
}
