// Package config manages user-level settings stored at ~/.cyscaffold/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the workspace root new projects are created under, the editor launched
// after scaffolding, and the language of the initial commit message.
package config
