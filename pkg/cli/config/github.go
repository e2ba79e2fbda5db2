package config

import (
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	githubinfra "github.com/slipway-ci/slipway/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub authentication configuration. Either a token or
// GitHub App credentials must be provided.
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          string
	InstallationID string
	PrivateKeyFile string
	WebhookSecret  string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("SLIPWAY_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("SLIPWAY_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("SLIPWAY_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("SLIPWAY_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("SLIPWAY_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// Publisher builds a release publisher from the configured credentials.
// A token takes precedence over App credentials.
func (c *GitHub) Publisher() (interfaces.ReleasePublisher, error) {
	if c.Token != "" {
		return githubinfra.NewTokenClient(c.Token), nil
	}

	if c.AppID == "" || c.InstallationID == "" || c.PrivateKeyFile == "" {
		return nil, goerr.New("either github-token or App credentials (app ID, installation ID, private key) are required")
	}

	appID, err := strconv.ParseInt(c.AppID, 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub App ID", goerr.V("app_id", c.AppID))
	}
	installationID, err := strconv.ParseInt(c.InstallationID, 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub App installation ID", goerr.V("installation_id", c.InstallationID))
	}
	privateKey, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
	}

	return githubinfra.NewAppClient(appID, installationID, privateKey)
}
