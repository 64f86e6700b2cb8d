// Package exec runs external commands for the packaging steps.
package exec

import (
	"context"
	goexec "os/exec"

	"github.com/m-mizutani/goerr/v2"
)

// Runner executes commands on the local host
type Runner struct{}

// New creates a Runner
func New() *Runner {
	return &Runner{}
}

// LookPath searches for an executable in PATH
func (r *Runner) LookPath(name string) (string, error) {
	path, err := goexec.LookPath(name)
	if err != nil {
		return "", goerr.Wrap(err, "executable not found in PATH", goerr.V("name", name))
	}
	return path, nil
}

// Run executes the command in dir and returns its combined output. On a
// non-zero exit the captured output is returned alongside the error so
// the caller can surface the tool's diagnostic.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := goexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, goerr.Wrap(err, "command failed",
			goerr.V("command", name),
			goerr.V("args", args),
			goerr.V("dir", dir))
	}
	return out, nil
}
