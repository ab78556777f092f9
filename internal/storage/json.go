package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tsa/internal/domain"
)

// SaveSummary writes the run summary to the configured JSON summary file.
// Nothing is written when no summary path is configured.
func (s *FileStorage) SaveSummary(summary *domain.RunSummary) error {
	path := s.cfg.SummaryPath
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// LoadSummary reads a summary written by SaveSummary
func LoadSummary(path string) (*domain.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary file: %w", err)
	}
	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}
	return &summary, nil
}
