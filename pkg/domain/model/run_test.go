package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

func newTestTrigger() *model.Trigger {
	return &model.Trigger{
		Owner:      "mozman",
		Repo:       "ezdxf",
		Tag:        "v1.2.3",
		CommitSHA:  "abc123",
		Ref:        "refs/tags/v1.2.3",
		ReceivedAt: time.Now(),
	}
}

func TestNewPipelineRun(t *testing.T) {
	run := model.NewPipelineRun(newTestTrigger())

	gt.Value(t, run.ID.String()).NotEqual("")
	gt.Value(t, run.Repository).Equal("mozman/ezdxf")
	gt.Value(t, run.Tag).Equal("v1.2.3")
	gt.Value(t, run.CommitSHA).Equal("abc123")
	gt.Value(t, run.Status).Equal(types.RunStatusRunning)
	gt.Number(t, len(run.Steps)).Equal(0)
}

func TestPipelineRun_RecordStep(t *testing.T) {
	run := model.NewPipelineRun(newTestTrigger())

	started := time.Now()
	run.RecordStep(types.StepProvision, started, 10*time.Millisecond, nil)
	run.RecordStep(types.StepFetch, started, 20*time.Millisecond, errors.New("network error"))

	gt.Number(t, len(run.Steps)).Equal(2)

	provision := run.Step(types.StepProvision)
	gt.NotNil(t, provision)
	gt.Value(t, provision.Status).Equal(types.StepStatusSucceeded)
	gt.Value(t, provision.Error).Equal("")

	fetch := run.Step(types.StepFetch)
	gt.NotNil(t, fetch)
	gt.Value(t, fetch.Status).Equal(types.StepStatusFailed)
	gt.String(t, fetch.Error).Contains("network error")

	gt.Value(t, run.Step(types.StepPublish)).Nil()
}

func TestPipelineRun_Fail(t *testing.T) {
	run := model.NewPipelineRun(newTestTrigger())
	run.Fail(types.StepPackage, errors.New("packaging command failed"))

	gt.Value(t, run.Status).Equal(types.RunStatusFailed)
	gt.Value(t, run.FailedStep).Equal(types.StepPackage)
	gt.String(t, run.Error).Contains("packaging command failed")
	gt.Value(t, run.FinishedAt.IsZero()).Equal(false)
}

func TestPipelineRun_Succeed(t *testing.T) {
	run := model.NewPipelineRun(newTestTrigger())
	run.Succeed()

	gt.Value(t, run.Status).Equal(types.RunStatusSucceeded)
	gt.Value(t, run.FailedStep).Equal(types.Step(""))
	gt.Value(t, run.FinishedAt.IsZero()).Equal(false)
}
