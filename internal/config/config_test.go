package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ironsheep/a11y-scan-mcp/internal/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	gt.NoError(t, cfg.Validate())
	gt.V(t, cfg.Viewport.Width).Equal(1280)
	gt.V(t, cfg.Render.NavigationTimeout).Equal(30 * time.Second)
	gt.V(t, cfg.Contrast.Delta).Equal(18)
	gt.V(t, cfg.TargetSize.BrightAbove).Equal(220)
	gt.V(t, cfg.Store.Driver).Equal(config.StoreSQLite)
	gt.S(t, cfg.Store.Path).Contains(config.AppName)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
viewport:
  width: 1024
  height: 768
render:
  headful: true
  navigation_timeout: 12s
contrast:
  failing_only: true
target_size:
  merge_coverage: 0.5
store:
  driver: memory
artifacts:
  driver: filesystem
  dir: /tmp/a11y
log:
  format: json
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err)
	gt.V(t, cfg.Viewport.Width).Equal(1024)
	gt.True(t, cfg.Render.Headful)
	gt.V(t, cfg.Render.NavigationTimeout).Equal(12 * time.Second)
	gt.V(t, cfg.Render.NetworkIdleTimeout).Equal(10 * time.Second)
	gt.True(t, cfg.Contrast.FailingOnly)
	gt.V(t, cfg.Contrast.Window).Equal(15)
	gt.V(t, cfg.TargetSize.MergeCoverage).Equal(0.5)
	gt.V(t, cfg.Store.Driver).Equal(config.StoreMemory)
	gt.V(t, cfg.Artifacts.Dir).Equal("/tmp/a11y")
	gt.V(t, cfg.Log.Format).Equal("json")
	gt.V(t, cfg.Log.Level).Equal("info")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	gt.True(t, errors.Is(err, config.ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(writeFile(t, "viewport: [1, 2"))
	gt.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvStoreDriver:    "memory",
		config.EnvArtifactsDir:   "/srv/artifacts",
		config.EnvChromePath:     "/opt/chrome",
		config.EnvMinIOSecretKey: "s3cr3t",
		config.EnvLogFormat:      "",
	}
	cfg := config.Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	gt.V(t, cfg.Store.Driver).Equal("memory")
	gt.V(t, cfg.Artifacts.Dir).Equal("/srv/artifacts")
	gt.V(t, cfg.Render.ExecPath).Equal("/opt/chrome")
	gt.V(t, cfg.Artifacts.MinIO.SecretKey).Equal("s3cr3t")
	gt.V(t, cfg.Log.Format).Equal("text")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero viewport", func(c *config.Config) { c.Viewport.Width = 0 }},
		{"unknown store", func(c *config.Config) { c.Store.Driver = "redis" }},
		{"sqlite without path", func(c *config.Config) { c.Store.Path = "" }},
		{"unknown artifacts", func(c *config.Config) { c.Artifacts.Driver = "ftp" }},
		{"minio without bucket", func(c *config.Config) {
			c.Artifacts.Driver = config.ArtifactsMinIO
			c.Artifacts.MinIO.Endpoint = "localhost:9000"
		}},
		{"coverage above one", func(c *config.Config) { c.TargetSize.MergeCoverage = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			gt.True(t, errors.Is(err, config.ErrInvalidConfig))
		})
	}
}
