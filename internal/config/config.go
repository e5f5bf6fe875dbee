// Package config loads the scanner settings from a YAML file, environment variables and
// built-in defaults, in increasing order of precedence: defaults, file, environment.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/a11y-scan-mcp/internal/artifact"
	"github.com/ironsheep/a11y-scan-mcp/internal/detection"
	"github.com/ironsheep/a11y-scan-mcp/internal/render"
)

// AppName names the XDG directories.
const AppName = "a11y-scan-mcp"

// DefaultConfigFile is looked up in ConfigDir when no path is given.
const DefaultConfigFile = "config.yaml"

// Store and artifact drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	ArtifactsFilesystem = "filesystem"
	ArtifactsMinIO      = "minio"
)

var (
	// ErrConfigNotFound is returned when an explicitly named config file does not exist.
	ErrConfigNotFound = goerr.New("configuration file not found")

	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = goerr.New("invalid configuration")
)

// Config holds every setting of the scanner.
type Config struct {
	Viewport   render.Viewport             `yaml:"viewport"`
	Render     render.Options              `yaml:"render"`
	Contrast   detection.ContrastOptions   `yaml:"contrast"`
	TargetSize detection.TargetSizeOptions `yaml:"target_size"`
	Store      StoreConfig                 `yaml:"store"`
	Artifacts  ArtifactsConfig             `yaml:"artifacts"`
	Log        LogConfig                   `yaml:"log"`
}

// StoreConfig selects the Status Sink.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// ArtifactsConfig selects where screenshots and reports go.
type ArtifactsConfig struct {
	// Driver is "filesystem" or "minio".
	Driver string `yaml:"driver"`

	// Dir is the filesystem root.
	Dir string `yaml:"dir"`

	MinIO artifact.MinIOConfig `yaml:"minio"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// DataDir returns the XDG data directory, e.g. ~/.local/share/a11y-scan-mcp on Linux.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory, e.g. ~/.config/a11y-scan-mcp on Linux.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Viewport:   render.DefaultViewport,
		Render:     render.DefaultOptions(),
		Contrast:   detection.DefaultContrastOptions(),
		TargetSize: detection.DefaultTargetSizeOptions(),
		Store: StoreConfig{
			Driver: StoreSQLite,
			Path:   filepath.Join(DataDir(), "scans.db"),
		},
		Artifacts: ArtifactsConfig{
			Driver: ArtifactsFilesystem,
			Dir:    filepath.Join(DataDir(), "artifacts"),
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
//
// An empty path reads ConfigDir()/config.yaml when it exists. A path that was named
// explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(ConfigDir(), DefaultConfigFile)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-chosen config path
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse configuration", goerr.V("path", path))
		}
	case errors.Is(err, os.ErrNotExist):
		if explicit {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to load configuration", goerr.V("path", path))
		}
	default:
		return nil, goerr.Wrap(err, "failed to read configuration", goerr.V("path", path))
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables that override file settings.
const (
	EnvStoreDriver     = "A11Y_MCP_STORE"
	EnvStorePath       = "A11Y_MCP_STORE_PATH"
	EnvArtifactsDriver = "A11Y_MCP_ARTIFACTS"
	EnvArtifactsDir    = "A11Y_MCP_ARTIFACT_DIR"
	EnvChromePath      = "A11Y_MCP_CHROME_PATH"
	EnvMinIOEndpoint   = "A11Y_MCP_MINIO_ENDPOINT"
	EnvMinIOBucket     = "A11Y_MCP_MINIO_BUCKET"
	EnvMinIOAccessKey  = "A11Y_MCP_MINIO_ACCESS_KEY"
	EnvMinIOSecretKey  = "A11Y_MCP_MINIO_SECRET_KEY"
	EnvLogFormat       = "A11Y_MCP_LOG_FORMAT"
	EnvLogOutput       = "A11Y_MCP_LOG_OUTPUT"
)

// ApplyEnv overrides settings from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvStoreDriver, &c.Store.Driver)
	set(EnvStorePath, &c.Store.Path)
	set(EnvArtifactsDriver, &c.Artifacts.Driver)
	set(EnvArtifactsDir, &c.Artifacts.Dir)
	set(EnvChromePath, &c.Render.ExecPath)
	set(EnvMinIOEndpoint, &c.Artifacts.MinIO.Endpoint)
	set(EnvMinIOBucket, &c.Artifacts.MinIO.Bucket)
	set(EnvMinIOAccessKey, &c.Artifacts.MinIO.AccessKey)
	set(EnvMinIOSecretKey, &c.Artifacts.MinIO.SecretKey)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvLogOutput, &c.Log.Output)
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "viewport must be positive",
			goerr.V("width", c.Viewport.Width),
			goerr.V("height", c.Viewport.Height),
		)
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return goerr.Wrap(ErrInvalidConfig, "sqlite store needs a path")
		}
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown store driver", goerr.V("driver", c.Store.Driver))
	}

	switch c.Artifacts.Driver {
	case ArtifactsFilesystem:
		if c.Artifacts.Dir == "" {
			return goerr.Wrap(ErrInvalidConfig, "filesystem artifacts need a directory")
		}
	case ArtifactsMinIO:
		if err := c.Artifacts.MinIO.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidConfig, err.Error())
		}
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown artifacts driver", goerr.V("driver", c.Artifacts.Driver))
	}

	if c.TargetSize.MergeCoverage < 0 || c.TargetSize.MergeCoverage > 1 {
		return goerr.Wrap(ErrInvalidConfig, "target_size.merge_coverage must be within [0, 1]",
			goerr.V("merge_coverage", c.TargetSize.MergeCoverage),
		)
	}
	return nil
}
