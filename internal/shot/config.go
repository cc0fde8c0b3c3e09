package shot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	StorePath     string `json:"store_path"`               // backing document, relative paths resolve against the working dir
	ImageDir      string `json:"image_dir,omitempty"`      // where the capture routine drops image files
	RetentionDays int    `json:"retention_days,omitempty"` // 0 disables pruning
	DefaultFormat string `json:"default_format,omitempty"` // format name for new captures

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	StorePathAbs string `json:"-"` // Absolute path to the backing document
	ImageDirAbs  string `json:"-"` // Absolute path to the image directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		StorePath:     filepath.Join(".shotlog", "screenshots.xml"),
		ImageDir:      filepath.Join(".shotlog", "images"),
		DefaultFormat: "PNG",
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".shotlog.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/shotlog/config.json if set, otherwise
// ~/.config/shotlog/config.json. Returns empty string if the home directory
// cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "shotlog", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "shotlog", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	StorePathOverride string            // --store flag value; empty means no override
	RetentionOverride int               // --retention-days flag value
	HasRetentionFlag  bool              // whether --retention-days was passed
	Env               map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/shotlog/config.json or $XDG_CONFIG_HOME/shotlog/config.json)
// 3. Project config file at default location (.shotlog.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	// Load global config if it exists
	globalCfgPath := getGlobalConfigPath(input.Env)
	if globalCfgPath != "" {
		loaded, err := loadConfigFile(globalCfgPath, false, &cfg)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalCfgPath
		}
	}

	// Load project/explicit config file
	projectPath, err := loadProjectConfig(workDir, input.ConfigPath, &cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath

	// Apply CLI overrides
	if input.StorePathOverride != "" {
		cfg.StorePath = input.StorePathOverride
	}

	if input.HasRetentionFlag {
		cfg.RetentionDays = input.RetentionOverride
	}

	// Validate
	if cfg.StorePath == "" {
		return Config{}, ErrStorePathEmpty
	}

	if cfg.RetentionDays < 0 {
		return Config{}, ErrRetentionNegative
	}

	// Resolve all paths to absolute
	cfg.EffectiveCwd = workDir
	cfg.StorePathAbs = absAgainst(workDir, cfg.StorePath)

	if cfg.ImageDir != "" {
		cfg.ImageDirAbs = absAgainst(workDir, cfg.ImageDir)
	}

	return cfg, nil
}

// loadProjectConfig loads the project config file (.shotlog.json) or an
// explicit config file. Returns the path if one was loaded.
func loadProjectConfig(workDir, configPath string, cfg *Config) (string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = absAgainst(workDir, configPath)
		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		// Default project config file - optional
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	loaded, err := loadConfigFile(cfgFile, mustExist, cfg)
	if err != nil {
		return "", err
	}

	if !loaded {
		return "", nil
	}

	return cfgFile, nil
}

// loadConfigFile merges a config file into cfg. If mustExist is false,
// missing files are not an error. Reports whether the file was loaded.
func loadConfigFile(path string, mustExist bool, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return false, nil
		}

		if mustExist {
			return false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return false, nil
	}

	// Standardize JSONC to JSON (comments and trailing commas allowed)
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if err := json.Unmarshal(standardized, cfg); err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return true, nil
}

func absAgainst(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}
