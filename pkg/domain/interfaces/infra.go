package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// DownloadZipball downloads the source code zipball for a specific commit
	DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error)
}

// IndexClient uploads built distributions to a package index
type IndexClient interface {
	// Upload sends the distribution archive to the index. Duplicate
	// versions and bad credentials are rejected by the remote and
	// returned as errors; there is no overwrite or retry.
	Upload(ctx context.Context, dist *model.Distribution) error
}

// CommandRunner executes external commands for the packaging steps
type CommandRunner interface {
	// LookPath searches for an executable in PATH
	LookPath(name string) (string, error)

	// Run executes the command in dir and returns its combined output
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// RunRepository persists pipeline run records
type RunRepository interface {
	Put(ctx context.Context, run *model.PipelineRun) error
	Get(ctx context.Context, id types.RunID) (*model.PipelineRun, error)
	ListByRepository(ctx context.Context, repository string, limit int) ([]*model.PipelineRun, error)
}

// ArtifactStore keeps a retention copy of built archives
type ArtifactStore interface {
	// Save stores the archive under <repository>/<tag>/<filename> and
	// returns the object path
	Save(ctx context.Context, repository, tag, filename string, r io.Reader) (string, error)
}

// Notifier reports run failures to an external channel
type Notifier interface {
	NotifyRunFailure(ctx context.Context, run *model.PipelineRun) error
}
