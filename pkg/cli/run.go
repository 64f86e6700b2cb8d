package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

func cmdRun() *cli.Command {
	var (
		cfgs   pipelineConfigs
		repo   string
		tag    string
		commit string
	)

	flags := append(cfgs.flags(),
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository in owner/name form",
			Required:    true,
			Destination: &repo,
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag to release (e.g. v1.2.3)",
			Required:    true,
			Destination: &tag,
		},
		&cli.StringFlag{
			Name:        "commit",
			Usage:       "Commit SHA the tag points at (defaults to the tag ref)",
			Destination: &commit,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run the release pipeline once for a tag",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			owner, name, ok := strings.Cut(repo, "/")
			if !ok || owner == "" || name == "" {
				return goerr.New("repo must be in owner/name form", goerr.V("repo", repo))
			}

			ref := model.TagRefPrefix + tag
			sha := commit
			if sha == "" {
				// The archive API accepts a ref in place of a SHA
				sha = ref
			}

			trigger := &model.Trigger{
				Owner:      owner,
				Repo:       name,
				Tag:        tag,
				CommitSHA:  sha,
				Ref:        ref,
				Sender:     "cli",
				ReceivedAt: time.Now(),
			}

			pipelineUC, cleanup, err := cfgs.build(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			run, execErr := pipelineUC.Execute(ctx, trigger)
			if run != nil {
				printRunSummary(run)
			}

			return execErr
		},
	}
}

// printRunSummary prints a colorized per-step summary for operators
func printRunSummary(run *model.PipelineRun) {
	okMark := color.New(color.FgGreen).Sprint("ok")
	failedMark := color.New(color.FgRed).Sprint("failed")

	fmt.Printf("\nRun %s: %s %s (%s)\n", run.ID, run.Repository, run.Tag, run.CommitSHA)
	for _, step := range run.Steps {
		mark := okMark
		if step.Status == types.StepStatusFailed {
			mark = failedMark
		}
		fmt.Printf("  %-10s %-7s %s\n", step.Name, mark, step.Duration.Round(time.Millisecond))
		if step.Error != "" {
			fmt.Printf("             %s\n", step.Error)
		}
	}

	switch run.Status {
	case types.RunStatusSucceeded:
		fmt.Printf("Result: %s", color.New(color.FgGreen, color.Bold).Sprint("succeeded"))
	default:
		fmt.Printf("Result: %s", color.New(color.FgRed, color.Bold).Sprint("failed"))
	}
	if run.ArchiveName != "" {
		fmt.Printf("  archive=%s", run.ArchiveName)
	}
	fmt.Println()
}
