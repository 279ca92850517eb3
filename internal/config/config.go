package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/qa-labs/cyscaffold/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyWorkspaceRoot     = "workspace_root"
	KeyEditor            = "editor"
	KeyLocale            = "locale"
	KeyGit               = "git"
	KeyNPM               = "npm"
	KeyCleanupOnFailure  = "cleanup_on_failure"
	KeySkipEditor        = "skip_editor"
	KeySkipBinaryInstall = "skip_binary_install"
)

// Default values applied when neither the config file nor the environment
// provides a key.
var defaultValues = map[string]any{
	KeyWorkspaceRoot:     "workspaces",
	KeyEditor:            "code",
	KeyLocale:            "en",
	KeyGit:               "git",
	KeyNPM:               "npm",
	KeyCleanupOnFailure:  false,
	KeySkipEditor:        false,
	KeySkipBinaryInstall: false,
}

// Settings is the typed view of the loaded configuration.
type Settings struct {
	WorkspaceRoot     string
	Editor            string
	Locale            string
	Git               string
	NPM               string
	CleanupOnFailure  bool
	SkipEditor        bool
	SkipBinaryInstall bool
}

// Dir returns the path to the config directory. CYSCAFFOLD_HOME overrides
// the default of ~/.cyscaffold/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Any previously loaded state is discarded.
func Load() {
	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	for key, value := range defaultValues {
		viper.SetDefault(key, value)
	}

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the typed settings from the loaded configuration.
func Current() Settings {
	return Settings{
		WorkspaceRoot:     viper.GetString(KeyWorkspaceRoot),
		Editor:            viper.GetString(KeyEditor),
		Locale:            viper.GetString(KeyLocale),
		Git:               viper.GetString(KeyGit),
		NPM:               viper.GetString(KeyNPM),
		CleanupOnFailure:  viper.GetBool(KeyCleanupOnFailure),
		SkipEditor:        viper.GetBool(KeySkipEditor),
		SkipBinaryInstall: viper.GetBool(KeySkipBinaryInstall),
	}
}

// Keys returns the known configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for k := range defaultValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognized configuration key.
func IsKnownKey(key string) bool {
	_, ok := defaultValues[key]
	return ok
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
