package domain

import "path/filepath"

// TestFile represents a source file staged for a pass
type TestFile struct {
	Path     string // Full path to the staged copy
	Identity string // Slash-separated path relative to the source root
}

// NewTestFile creates a TestFile, normalizing the identity to forward slashes
func NewTestFile(path, identity string) TestFile {
	return TestFile{Path: path, Identity: filepath.ToSlash(identity)}
}
