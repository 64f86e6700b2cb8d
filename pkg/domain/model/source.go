package model

// SourceTree represents fetched repository contents extracted into a workspace
type SourceTree struct {
	Dir   string   // Extraction directory inside the workspace
	Root  string   // Project root (the zipball's top-level directory)
	Files []string // Extracted file names
	Size  int64    // Total uncompressed size in bytes
}
