package model

import (
	"fmt"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
)

// PipelineConfig describes one release pipeline, loaded from slipway.toml.
type PipelineConfig struct {
	Repository RepositoryConfig `toml:"repository"`
	Product    ProductConfig    `toml:"product"`
	Build      BuildConfig      `toml:"build"`
	Release    ReleaseConfig    `toml:"release"`
}

// RepositoryConfig identifies the repository the pipeline releases.
type RepositoryConfig struct {
	Owner    string `toml:"owner"`
	Name     string `toml:"name"`
	CloneURL string `toml:"clone_url"`
}

// FullName returns the owner/name form used in logs and notifications.
func (c RepositoryConfig) FullName() string {
	return c.Owner + "/" + c.Name
}

// ResolveCloneURL returns the configured clone URL, falling back to the
// canonical GitHub HTTPS URL.
func (c RepositoryConfig) ResolveCloneURL() string {
	if c.CloneURL != "" {
		return c.CloneURL
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", c.Owner, c.Name)
}

// ProductConfig names the packaged product. The name is passed to the
// build script and used in artifact and release naming.
type ProductConfig struct {
	Name string `toml:"name"`
}

// BuildConfig describes the build environment preparation and the build
// script invocation. Setup and Install entries are shell commands executed
// in order inside the checked out workspace.
type BuildConfig struct {
	Script  string   `toml:"script"`
	DistDir string   `toml:"dist_dir"`
	Setup   []string `toml:"setup"`
	Install []string `toml:"install"`
}

// ReleaseConfig controls the created release. BodyTemplate is a
// text/template rendered with Product, Tag and Repository fields.
type ReleaseConfig struct {
	BodyTemplate string `toml:"body_template"`
}

// DefaultBodyTemplate is used when the config does not provide one.
const DefaultBodyTemplate = "Draft release of {{.Product}} {{.Tag}}. " +
	"See the changelog of {{.Repository}} for details."

// DefaultDistDir is where the build script deposits installer artifacts.
const DefaultDistDir = "dist_app"

// Validate checks required fields and applies defaults.
func (c *PipelineConfig) Validate() error {
	if c.Repository.Owner == "" || c.Repository.Name == "" {
		return goerr.New("repository owner and name are required",
			goerr.V("owner", c.Repository.Owner),
			goerr.V("name", c.Repository.Name),
		)
	}
	if c.Product.Name == "" {
		return goerr.New("product name is required")
	}
	if c.Build.Script == "" {
		return goerr.New("build script is required")
	}
	if c.Build.DistDir == "" {
		c.Build.DistDir = DefaultDistDir
	}
	if c.Release.BodyTemplate == "" {
		c.Release.BodyTemplate = DefaultBodyTemplate
	}
	if _, err := template.New("body").Parse(c.Release.BodyTemplate); err != nil {
		return goerr.Wrap(err, "invalid release body template")
	}
	return nil
}
