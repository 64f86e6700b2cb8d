package model

import (
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// TagRefPrefix is the git ref prefix for tag pushes
const TagRefPrefix = "refs/tags/"

// DefaultTagPattern is the glob a tag name must match to start a run
const DefaultTagPattern = "v*"

// MatchTagRef reports whether ref is a tag push whose tag name matches
// pattern. The pattern is anchored over the whole tag name; `v*` matches
// `v1.2.3` and `v0.0.1-rc1` but not `rev1`. Branch pushes never match.
func MatchTagRef(ref, pattern string) (string, bool) {
	name, ok := strings.CutPrefix(ref, TagRefPrefix)
	if !ok || name == "" {
		return "", false
	}

	matched, err := path.Match(pattern, name)
	if err != nil || !matched {
		return "", false
	}

	return name, true
}

// ValidateTagPattern checks that pattern is a well-formed glob
func ValidateTagPattern(pattern string) error {
	if pattern == "" {
		return goerr.New("tag pattern must not be empty")
	}
	if _, err := path.Match(pattern, "v0.0.0"); err != nil {
		return goerr.Wrap(err, "invalid tag pattern", goerr.V("pattern", pattern))
	}
	return nil
}

// Trigger represents a matched tag push that starts one pipeline run
type Trigger struct {
	Owner      string // Repository owner
	Repo       string // Repository name
	Tag        string // Tag name (e.g. v1.2.3)
	CommitSHA  string // Commit the tag points at
	Ref        string // Full git ref (refs/tags/v1.2.3)
	Sender     string // User who pushed the tag
	ReceivedAt time.Time
}

// Repository returns the owner/name form of the repository
func (x *Trigger) Repository() string {
	return x.Owner + "/" + x.Repo
}

// Validate checks the trigger has everything a run needs
func (x *Trigger) Validate() error {
	if x.Owner == "" || x.Repo == "" {
		return goerr.New("trigger is missing repository", goerr.V("owner", x.Owner), goerr.V("repo", x.Repo))
	}
	if x.Tag == "" {
		return goerr.New("trigger is missing tag name", goerr.V("ref", x.Ref))
	}
	if x.CommitSHA == "" {
		return goerr.New("trigger is missing commit SHA", goerr.V("tag", x.Tag))
	}
	return nil
}
