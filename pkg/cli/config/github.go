package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/tagship/pkg/infra/github"
)

// GitHub holds GitHub App configuration
type GitHub struct {
	WebhookSecret  string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Required:    true,
			Destination: &c.AppID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Required:    true,
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "Path to the GitHub App private key (PEM)",
			Required:    true,
			Destination: &c.PrivateKeyPath,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_PRIVATE_KEY"),
		},
	}
}

// Configure builds the GitHub client from the App credentials
func (c *GitHub) Configure() (interfaces.GitHubClient, error) {
	key, err := os.ReadFile(c.PrivateKeyPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key",
			goerr.V("path", c.PrivateKeyPath))
	}

	return githubinfra.NewClient(c.AppID, c.InstallationID, key)
}
