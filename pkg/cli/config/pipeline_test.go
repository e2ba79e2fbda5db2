package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/slipway-ci/slipway/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slipway.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipeline_Load(t *testing.T) {
	t.Run("valid definition", func(t *testing.T) {
		path := writeConfig(t, `
[repository]
owner = "acme"
name = "widget"

[product]
name = "Widget"

[build]
script = "./build-recipes/macos_build_app.sh"
setup = ["install-toolchain 3.10"]
install = ["pip install -e .", "pip install wheel twine"]

[release]
body_template = "{{.Product}} {{.Tag}} built from {{.Repository}}"
`)

		cfg, err := (&config.Pipeline{Path: path}).Load()
		gt.NoError(t, err)
		gt.Value(t, cfg.Repository.Owner).Equal("acme")
		gt.Value(t, cfg.Product.Name).Equal("Widget")
		gt.Value(t, cfg.Build.Script).Equal("./build-recipes/macos_build_app.sh")
		gt.Number(t, len(cfg.Build.Install)).Equal(2)
		gt.Value(t, cfg.Build.DistDir).Equal("dist_app")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&config.Pipeline{Path: "/nonexistent/slipway.toml"}).Load()
		gt.Error(t, err)
	})

	t.Run("malformed TOML", func(t *testing.T) {
		path := writeConfig(t, `[repository`)
		_, err := (&config.Pipeline{Path: path}).Load()
		gt.Error(t, err)
	})

	t.Run("incomplete definition", func(t *testing.T) {
		path := writeConfig(t, `
[repository]
owner = "acme"
name = "widget"
`)
		_, err := (&config.Pipeline{Path: path}).Load()
		gt.Error(t, err)
	})
}
