package python

import "strings"

// InterpreterBinary returns the conventional binary name for a pinned
// interpreter version, e.g. "3.9" -> "python3.9"
func InterpreterBinary(version string) string {
	if version == "" {
		return "python3"
	}
	return "python" + version
}

// MatchesVersion reports whether `python --version` output reports the
// pinned version. Pinning a minor version accepts any patch release of it.
func MatchesVersion(output []byte, version string) bool {
	if version == "" {
		return true
	}

	fields := strings.Fields(strings.TrimSpace(string(output)))
	if len(fields) < 2 || fields[0] != "Python" {
		return false
	}

	got := fields[1]
	return got == version || strings.HasPrefix(got, version+".")
}
