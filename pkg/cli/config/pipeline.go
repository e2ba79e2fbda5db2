package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Pipeline locates the pipeline definition file.
type Pipeline struct {
	Path string
}

// Flags returns CLI flags for the pipeline definition
func (c *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to pipeline definition (TOML)",
			Value:       "slipway.toml",
			Destination: &c.Path,
			Sources:     cli.EnvVars("SLIPWAY_CONFIG"),
		},
	}
}

// Load reads and validates the pipeline definition.
func (c *Pipeline) Load() (*model.PipelineConfig, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline definition", goerr.V("path", c.Path))
	}

	var cfg model.PipelineConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pipeline definition", goerr.V("path", c.Path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid pipeline definition", goerr.V("path", c.Path))
	}

	return &cfg, nil
}
