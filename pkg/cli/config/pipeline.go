package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/usecase"
)

// Pipeline holds pipeline behavior configuration
type Pipeline struct {
	PythonVersion string
	TagPattern    string
}

// Flags returns CLI flags for pipeline configuration
func (c *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "python-version",
			Usage:       "Pinned interpreter minor version (e.g. 3.9)",
			Value:       usecase.DefaultPythonVersion,
			Destination: &c.PythonVersion,
			Sources:     cli.EnvVars("TAGSHIP_PYTHON_VERSION"),
		},
		&cli.StringFlag{
			Name:        "tag-pattern",
			Usage:       "Glob a pushed tag name must match to start a run",
			Value:       model.DefaultTagPattern,
			Destination: &c.TagPattern,
			Sources:     cli.EnvVars("TAGSHIP_TAG_PATTERN"),
		},
	}
}

// Validate checks the configured tag pattern
func (c *Pipeline) Validate() error {
	return model.ValidateTagPattern(c.TagPattern)
}
