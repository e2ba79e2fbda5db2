package config

import (
	"context"

	"github.com/slipway-ci/slipway/pkg/infra/firestore"
	"github.com/urfave/cli/v3"
)

// Firestore holds run record persistence configuration. Recording is
// disabled when no project ID is provided.
type Firestore struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for run records",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("SLIPWAY_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for run records",
			Value:       "pipeline_runs",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("SLIPWAY_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "firestore-credentials-file",
			Usage:       "Path to service account credentials for Firestore access",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("SLIPWAY_FIRESTORE_CREDENTIALS_FILE"),
		},
	}
}

// Recorder returns a run recorder, or nil when disabled.
func (c *Firestore) Recorder(ctx context.Context) (*firestore.Recorder, error) {
	if c.ProjectID == "" {
		return nil, nil
	}
	return firestore.NewRecorder(ctx, c.ProjectID, c.Collection, c.CredentialsFile)
}
