package config

import "github.com/urfave/cli/v3"

// Firestore holds run record storage configuration. Run records are
// disabled when no project ID is given.
type Firestore struct {
	ProjectID string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for run records (empty disables records)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("TAGSHIP_FIRESTORE_PROJECT_ID"),
		},
	}
}

// Storage holds artifact retention configuration. Retention is disabled
// when no bucket is given.
type Storage struct {
	Bucket string
}

// Flags returns CLI flags for artifact storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-bucket",
			Usage:       "GCS bucket for archive retention copies (empty disables retention)",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("TAGSHIP_ARTIFACT_BUCKET"),
		},
	}
}
