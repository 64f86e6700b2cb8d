package model

// Distribution is a built source distribution ready for upload
type Distribution struct {
	Name         string // Project name as registered on the index
	Version      string // Project version
	Path         string // Absolute path to the archive file
	Filename     string // Base name of the archive file
	Size         int64  // Archive size in bytes
	MD5Digest    string // Hex MD5 of the archive
	SHA256Digest string // Hex SHA-256 of the archive
}
