package python

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// sdist archive suffixes, longest first so .tar.gz wins over .gz
var sdistSuffixes = []string{".tar.gz", ".tar.bz2", ".tgz", ".zip", ".tar"}

// IsSdistFilename reports whether filename looks like a source distribution
func IsSdistFilename(filename string) bool {
	for _, suffix := range sdistSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

// ParseSdistFilename splits an sdist filename into project name and
// version. The filename convention is `<name>-<version>.<ext>` where the
// name itself may contain hyphens, so the split is at the last hyphen.
func ParseSdistFilename(filename string) (name, version string, err error) {
	stem := filename
	for _, suffix := range sdistSuffixes {
		if strings.HasSuffix(stem, suffix) {
			stem = strings.TrimSuffix(stem, suffix)
			break
		}
	}
	if stem == filename {
		return "", "", goerr.New("not an sdist filename", goerr.V("filename", filename))
	}

	idx := strings.LastIndex(stem, "-")
	if idx <= 0 || idx == len(stem)-1 {
		return "", "", goerr.New("cannot split sdist filename into name and version",
			goerr.V("filename", filename))
	}

	return stem[:idx], stem[idx+1:], nil
}
