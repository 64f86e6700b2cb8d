package python

import (
	"regexp"
	"strings"
)

// PEP 503: runs of `-`, `_` and `.` are equivalent to a single `-`
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a project name the way the index does
func NormalizeName(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, "-"))
}
