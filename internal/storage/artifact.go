package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"tsa/internal/domain"
)

// SaveArtifact writes the artifact to the configured path. The file is written
// next to its destination first so that a failed write leaves no partial artifact.
func (s *FileStorage) SaveArtifact(body string) error {
	path := s.cfg.ArtifactPath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(domain.ArtifactHeader + body); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads an artifact written by SaveArtifact
func (s *FileStorage) LoadArtifact(path string) ([]domain.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	cases, err := s.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cases, nil
}
