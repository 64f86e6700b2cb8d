package types

import "github.com/google/uuid"

// RunID identifies a single pipeline run
type RunID string

// NewRunID generates a new random RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (x RunID) String() string {
	return string(x)
}

// RunStatus represents the overall state of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Step names the stages of a pipeline run, in execution order
type Step string

const (
	StepProvision Step = "provision"
	StepFetch     Step = "fetch"
	StepPackage   Step = "package"
	StepPublish   Step = "publish"
)

// StepStatus represents the outcome of a single step
type StepStatus string

const (
	StepStatusSucceeded StepStatus = "succeeded"
	StepStatusFailed    StepStatus = "failed"
)
