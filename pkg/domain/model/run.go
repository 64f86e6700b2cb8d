package model

import (
	"time"

	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// StepResult records the outcome of a single pipeline step
type StepResult struct {
	Name      types.Step       `firestore:"name" json:"name"`
	Status    types.StepStatus `firestore:"status" json:"status"`
	StartedAt time.Time        `firestore:"started_at" json:"started_at"`
	Duration  time.Duration    `firestore:"duration_ns" json:"duration_ns"`
	Error     string           `firestore:"error,omitempty" json:"error,omitempty"`
}

// PipelineRun is the record of one tag-triggered pipeline execution.
// Steps run strictly in order; the first failure ends the run.
type PipelineRun struct {
	ID         types.RunID     `firestore:"id" json:"id"`
	Repository string          `firestore:"repository" json:"repository"`
	Tag        string          `firestore:"tag" json:"tag"`
	CommitSHA  string          `firestore:"commit_sha" json:"commit_sha"`
	Status     types.RunStatus `firestore:"status" json:"status"`
	StartedAt  time.Time       `firestore:"started_at" json:"started_at"`
	FinishedAt time.Time       `firestore:"finished_at,omitempty" json:"finished_at,omitempty"`
	Steps      []StepResult    `firestore:"steps" json:"steps"`
	FailedStep types.Step      `firestore:"failed_step,omitempty" json:"failed_step,omitempty"`
	Error      string          `firestore:"error,omitempty" json:"error,omitempty"`

	// Filled after a successful package step
	ArchiveName   string `firestore:"archive_name,omitempty" json:"archive_name,omitempty"`
	ArchiveSize   int64  `firestore:"archive_size,omitempty" json:"archive_size,omitempty"`
	ArchiveSHA256 string `firestore:"archive_sha256,omitempty" json:"archive_sha256,omitempty"`
	ArtifactPath  string `firestore:"artifact_path,omitempty" json:"artifact_path,omitempty"`
}

// NewPipelineRun creates a running record for a trigger
func NewPipelineRun(t *Trigger) *PipelineRun {
	return &PipelineRun{
		ID:         types.NewRunID(),
		Repository: t.Repository(),
		Tag:        t.Tag,
		CommitSHA:  t.CommitSHA,
		Status:     types.RunStatusRunning,
		StartedAt:  time.Now(),
	}
}

// RecordStep appends the result of a finished step
func (r *PipelineRun) RecordStep(name types.Step, startedAt time.Time, d time.Duration, err error) {
	result := StepResult{
		Name:      name,
		Status:    types.StepStatusSucceeded,
		StartedAt: startedAt,
		Duration:  d,
	}
	if err != nil {
		result.Status = types.StepStatusFailed
		result.Error = err.Error()
	}
	r.Steps = append(r.Steps, result)
}

// Fail marks the run as failed at the given step
func (r *PipelineRun) Fail(step types.Step, err error) {
	r.Status = types.RunStatusFailed
	r.FailedStep = step
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = time.Now()
}

// Succeed marks the run as completed successfully
func (r *PipelineRun) Succeed() {
	r.Status = types.RunStatusSucceeded
	r.FinishedAt = time.Now()
}

// Step returns the recorded result for a step name, or nil
func (r *PipelineRun) Step(name types.Step) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}
