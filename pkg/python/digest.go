package python

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// FileDigests computes the digests the legacy upload API accepts
// (hashlib md5 and sha256) plus the file size, in one pass.
func FileDigests(path string) (md5Hex, sha256Hex string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", 0, goerr.Wrap(err, "failed to open archive", goerr.V("path", path))
	}
	defer f.Close()

	md5Hash := md5.New()
	sha256Hash := sha256.New()

	size, err = io.Copy(io.MultiWriter(md5Hash, sha256Hash), f)
	if err != nil {
		return "", "", 0, goerr.Wrap(err, "failed to read archive", goerr.V("path", path))
	}

	return hex.EncodeToString(md5Hash.Sum(nil)), hex.EncodeToString(sha256Hash.Sum(nil)), size, nil
}
