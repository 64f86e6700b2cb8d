package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/infra/index"
)

// Index holds package index configuration. Username and Password are
// the two credential secrets the publish step requires; when either is
// absent the publish step fails, not the process start.
type Index struct {
	UploadURL string
	Username  string `masq:"secret"`
	Password  string `masq:"secret"`
}

// Flags returns CLI flags for index configuration
func (c *Index) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index-url",
			Usage:       "Package index upload endpoint",
			Value:       index.DefaultUploadURL,
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("TAGSHIP_INDEX_URL"),
		},
		&cli.StringFlag{
			Name:        "index-username",
			Usage:       "Package index username",
			Destination: &c.Username,
			Sources:     cli.EnvVars("TAGSHIP_INDEX_USERNAME", "TWINE_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "index-password",
			Usage:       "Package index password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("TAGSHIP_INDEX_PASSWORD", "TWINE_PASSWORD"),
		},
	}
}

// Configure builds the index upload client
func (c *Index) Configure() *index.Client {
	return index.New(
		index.WithUploadURL(c.UploadURL),
		index.WithCredentials(c.Username, c.Password),
	)
}
