package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/tagship/pkg/domain/interfaces"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
	"github.com/m-mizutani/tagship/pkg/python"
)

// DefaultPythonVersion is the pinned interpreter minor version
const DefaultPythonVersion = "3.9"

// workspace is the per-run ephemeral environment: a private directory
// and the resolved interpreter. Discarded when the run ends.
type workspace struct {
	dir    string
	python string
}

type pipelineUseCase struct {
	github interfaces.GitHubClient
	index  interfaces.IndexClient
	runner interfaces.CommandRunner

	runs      interfaces.RunRepository
	artifacts interfaces.ArtifactStore
	notifier  interfaces.Notifier

	pythonVersion string
}

// PipelineOption is a functional option for the pipeline use case
type PipelineOption func(*pipelineUseCase)

// WithRunRepository enables run record persistence
func WithRunRepository(repo interfaces.RunRepository) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.runs = repo
	}
}

// WithArtifactStore enables retention copies of built archives
func WithArtifactStore(store interfaces.ArtifactStore) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.artifacts = store
	}
}

// WithNotifier enables failure notifications
func WithNotifier(notifier interfaces.Notifier) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.notifier = notifier
	}
}

// WithPythonVersion pins the interpreter minor version
func WithPythonVersion(version string) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.pythonVersion = version
	}
}

// NewPipeline creates the release pipeline use case
func NewPipeline(
	githubClient interfaces.GitHubClient,
	indexClient interfaces.IndexClient,
	runner interfaces.CommandRunner,
	opts ...PipelineOption,
) interfaces.PipelineUseCase {
	uc := &pipelineUseCase{
		github:        githubClient,
		index:         indexClient,
		runner:        runner,
		pythonVersion: DefaultPythonVersion,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the pipeline for one trigger: provision, fetch, package,
// publish, strictly in order. The first failing step ends the run; there
// is no retry and no rollback.
func (uc *pipelineUseCase) Execute(ctx context.Context, trigger *model.Trigger) (*model.PipelineRun, error) {
	logger := ctxlog.From(ctx)

	if err := trigger.Validate(); err != nil {
		return nil, err
	}

	run := model.NewPipelineRun(trigger)
	uc.record(ctx, run)

	logger.Info("Starting pipeline run",
		"run_id", run.ID,
		"repository", run.Repository,
		"tag", run.Tag,
		"commit_sha", run.CommitSHA,
	)

	started := time.Now()
	ws, err := uc.provision(ctx)
	run.RecordStep(types.StepProvision, started, time.Since(started), err)
	if err != nil {
		return run, uc.fail(ctx, run, types.StepProvision, err)
	}
	defer func() {
		if err := os.RemoveAll(ws.dir); err != nil {
			logger.Warn("Failed to discard workspace", "dir", ws.dir, "error", err)
		}
	}()

	started = time.Now()
	src, err := uc.fetch(ctx, ws, trigger)
	run.RecordStep(types.StepFetch, started, time.Since(started), err)
	if err != nil {
		return run, uc.fail(ctx, run, types.StepFetch, err)
	}

	started = time.Now()
	dist, err := uc.pack(ctx, ws, src)
	run.RecordStep(types.StepPackage, started, time.Since(started), err)
	if err != nil {
		return run, uc.fail(ctx, run, types.StepPackage, err)
	}
	run.ArchiveName = dist.Filename
	run.ArchiveSize = dist.Size
	run.ArchiveSHA256 = dist.SHA256Digest

	uc.retain(ctx, run, dist)

	started = time.Now()
	err = uc.publish(ctx, dist)
	run.RecordStep(types.StepPublish, started, time.Since(started), err)
	if err != nil {
		return run, uc.fail(ctx, run, types.StepPublish, err)
	}

	run.Succeed()
	uc.record(ctx, run)

	logger.Info("Pipeline run succeeded",
		"run_id", run.ID,
		"name", dist.Name,
		"version", dist.Version,
		"archive", dist.Filename,
	)

	return run, nil
}

// provision allocates the workspace directory and resolves the pinned
// interpreter. A missing or mismatched interpreter is fatal; no fallback
// version is attempted.
func (uc *pipelineUseCase) provision(ctx context.Context) (*workspace, error) {
	dir, err := os.MkdirTemp("", "tagship-run-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create workspace directory",
			goerr.T(types.ErrTagProvision))
	}
	if err := os.Chmod(dir, 0700); err != nil {
		_ = os.RemoveAll(dir)
		return nil, goerr.Wrap(err, "failed to set workspace permissions",
			goerr.T(types.ErrTagProvision), goerr.V("dir", dir))
	}

	binary := python.InterpreterBinary(uc.pythonVersion)
	path, err := uc.runner.LookPath(binary)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, goerr.Wrap(err, "pinned interpreter is not available",
			goerr.T(types.ErrTagProvision), goerr.V("interpreter", binary))
	}

	out, err := uc.runner.Run(ctx, dir, path, "--version")
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, goerr.Wrap(err, "failed to check interpreter version",
			goerr.T(types.ErrTagProvision), goerr.V("interpreter", path))
	}
	if !python.MatchesVersion(out, uc.pythonVersion) {
		_ = os.RemoveAll(dir)
		return nil, goerr.New("interpreter reports unexpected version",
			goerr.T(types.ErrTagProvision),
			goerr.V("interpreter", path),
			goerr.V("pinned", uc.pythonVersion),
			goerr.V("output", strings.TrimSpace(string(out))))
	}

	return &workspace{dir: dir, python: path}, nil
}

// fetch materializes the tagged commit into the workspace
func (uc *pipelineUseCase) fetch(ctx context.Context, ws *workspace, trigger *model.Trigger) (*model.SourceTree, error) {
	logger := ctxlog.From(ctx)

	zipData, err := uc.github.DownloadZipball(ctx, trigger.Owner, trigger.Repo, trigger.CommitSHA)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download source zipball",
			goerr.T(types.ErrTagFetch),
			goerr.V("repository", trigger.Repository()),
			goerr.V("commit_sha", trigger.CommitSHA))
	}

	logger.Info("Downloaded source zipball",
		"size_bytes", len(zipData),
		"repository", trigger.Repository(),
	)

	src, err := uc.extractZip(ws, zipData)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract source zipball",
			goerr.T(types.ErrTagFetch),
			goerr.V("repository", trigger.Repository()))
	}

	logger.Info("Extracted source tree",
		"root", src.Root,
		"file_count", len(src.Files),
		"total_size_bytes", src.Size,
	)

	return src, nil
}

// extractZip extracts ZIP data into the workspace. The zipball has a
// single top-level directory which becomes the project root.
func (uc *pipelineUseCase) extractZip(ws *workspace, zipData []byte) (*model.SourceTree, error) {
	srcDir := filepath.Join(ws.dir, "src")
	if err := os.MkdirAll(srcDir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create extraction directory", goerr.V("dir", srcDir))
	}

	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open zip data")
	}

	var extractedFiles []string
	var totalSize int64

	for _, file := range zipReader.File {
		if err := extractFile(file, srcDir); err != nil {
			return nil, err
		}
		extractedFiles = append(extractedFiles, file.Name)
		totalSize += int64(file.UncompressedSize64)
	}

	root, err := projectRoot(srcDir)
	if err != nil {
		return nil, err
	}

	return &model.SourceTree{
		Dir:   srcDir,
		Root:  root,
		Files: extractedFiles,
		Size:  totalSize,
	}, nil
}

// extractFile extracts a single file from ZIP to the destination directory
func extractFile(file *zip.File, destDir string) error {
	// Security check: prevent path traversal attacks
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid file path in zip",
			goerr.V("file", file.Name), goerr.V("dest", destPath))
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
	}
	defer rc.Close()

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, file.FileInfo().Mode())
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(destPath)))
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("path", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy file content", goerr.V("path", destPath))
	}

	return nil
}

// projectRoot locates the zipball's top-level directory
func projectRoot(srcDir string) (string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read extraction directory", goerr.V("dir", srcDir))
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(srcDir, entries[0].Name()), nil
	}
	return srcDir, nil
}

// pack builds the source distribution and verifies exactly one archive
// exists in the output directory before publish runs
func (uc *pipelineUseCase) pack(ctx context.Context, ws *workspace, src *model.SourceTree) (*model.Distribution, error) {
	logger := ctxlog.From(ctx)

	// Metadata is advisory; setup.py-only projects recover it from the
	// archive filename below
	meta, err := python.ReadMetadata(src.Root)
	if err != nil {
		logger.Warn("Failed to read project metadata", "error", err)
		meta = nil
	}

	out, err := uc.runner.Run(ctx, src.Root, ws.python, "setup.py", "sdist", "--formats", "zip")
	if err != nil {
		return nil, goerr.Wrap(err, "packaging command failed",
			goerr.T(types.ErrTagPackage),
			goerr.V("output", string(out)))
	}

	distDir := filepath.Join(src.Root, "dist")
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, goerr.Wrap(err, "packaging produced no output directory",
			goerr.T(types.ErrTagPackage), goerr.V("dist_dir", distDir))
	}

	var archives []string
	for _, entry := range entries {
		if !entry.IsDir() && python.IsSdistFilename(entry.Name()) {
			archives = append(archives, entry.Name())
		}
	}
	if len(archives) != 1 {
		return nil, goerr.New("expected exactly one archive in output directory",
			goerr.T(types.ErrTagPackage),
			goerr.V("dist_dir", distDir),
			goerr.V("archives", archives))
	}

	filename := archives[0]
	archivePath := filepath.Join(distDir, filename)

	md5Hex, sha256Hex, size, err := python.FileDigests(archivePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to digest archive",
			goerr.T(types.ErrTagPackage), goerr.V("path", archivePath))
	}

	var name, version string
	if meta != nil {
		name, version = meta.Name, meta.Version
	} else {
		name, version, err = python.ParseSdistFilename(filename)
		if err != nil {
			return nil, goerr.Wrap(err, "cannot determine project name and version",
				goerr.T(types.ErrTagPackage), goerr.V("filename", filename))
		}
	}

	logger.Info("Built source distribution",
		"name", name,
		"version", version,
		"archive", filename,
		"size_bytes", size,
	)

	return &model.Distribution{
		Name:         name,
		Version:      version,
		Path:         archivePath,
		Filename:     filename,
		Size:         size,
		MD5Digest:    md5Hex,
		SHA256Digest: sha256Hex,
	}, nil
}

// publish uploads the archive to the index. Credential validation and
// duplicate-version rejection happen in the index client and pass
// through unchanged; there is no overwrite and no retry.
func (uc *pipelineUseCase) publish(ctx context.Context, dist *model.Distribution) error {
	if err := uc.index.Upload(ctx, dist); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Published distribution",
		"name", dist.Name,
		"version", dist.Version,
		"archive", dist.Filename,
	)
	return nil
}

// retain stores an audit copy of the archive. Never fails the run.
func (uc *pipelineUseCase) retain(ctx context.Context, run *model.PipelineRun, dist *model.Distribution) {
	if uc.artifacts == nil {
		return
	}
	logger := ctxlog.From(ctx)

	f, err := os.Open(dist.Path)
	if err != nil {
		logger.Warn("Failed to open archive for retention", "path", dist.Path, "error", err)
		return
	}
	defer f.Close()

	key, err := uc.artifacts.Save(ctx, run.Repository, run.Tag, dist.Filename, f)
	if err != nil {
		logger.Warn("Failed to store artifact copy", "error", err)
		return
	}

	run.ArtifactPath = key
	logger.Debug("Stored artifact copy", "path", key)
}

// record persists the run state. Never fails the run.
func (uc *pipelineUseCase) record(ctx context.Context, run *model.PipelineRun) {
	if uc.runs == nil {
		return
	}
	if err := uc.runs.Put(ctx, run); err != nil {
		ctxlog.From(ctx).Warn("Failed to record run", "run_id", run.ID, "error", err)
	}
}

// fail finalizes a failed run: record, notify, propagate
func (uc *pipelineUseCase) fail(ctx context.Context, run *model.PipelineRun, step types.Step, err error) error {
	logger := ctxlog.From(ctx)

	run.Fail(step, err)
	uc.record(ctx, run)

	logger.Error("Pipeline run failed",
		"run_id", run.ID,
		"repository", run.Repository,
		"tag", run.Tag,
		"step", step,
		"error", err,
	)

	if uc.notifier != nil {
		if nerr := uc.notifier.NotifyRunFailure(ctx, run); nerr != nil {
			logger.Warn("Failed to send failure notification", "error", nerr)
		}
	}

	return err
}
