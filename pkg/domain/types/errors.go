package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures by the step they occurred in.
// Every step failure is fatal to the run; the tag tells which stage broke.
var (
	ErrTagProvision = goerr.NewTag("provision")
	ErrTagFetch     = goerr.NewTag("fetch")
	ErrTagPackage   = goerr.NewTag("package")
	ErrTagPublish   = goerr.NewTag("publish")

	// ErrTagDuplicate marks an upload rejected because the index already
	// has a file for that version. Always combined with ErrTagPublish.
	ErrTagDuplicate = goerr.NewTag("duplicate")
)
