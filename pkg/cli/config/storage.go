package config

import (
	"context"

	"github.com/slipway-ci/slipway/pkg/infra/storage"
	"github.com/urfave/cli/v3"
)

// Storage holds artifact archival configuration. Archival is disabled
// when no bucket is provided.
type Storage struct {
	Bucket          string
	CredentialsFile string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket for artifact archival",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("SLIPWAY_STORAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "storage-credentials-file",
			Usage:       "Path to service account credentials for storage access",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("SLIPWAY_STORAGE_CREDENTIALS_FILE"),
		},
	}
}

// Archiver returns an artifact archiver, or nil when disabled.
func (c *Storage) Archiver(ctx context.Context) (*storage.Archiver, error) {
	if c.Bucket == "" {
		return nil, nil
	}
	return storage.NewArchiver(ctx, c.Bucket, c.CredentialsFile)
}
