package storage

import (
	"tsa/internal/config"
	"tsa/internal/domain"
	"tsa/internal/parser"
)

// Storage persists generated artifacts and run summaries
type Storage interface {
	// SaveArtifact writes the artifact header followed by body
	SaveArtifact(body string) error
	// LoadArtifact reads the cases of an artifact back
	LoadArtifact(path string) ([]domain.TestCase, error)
	// SaveSummary writes the run summary, when a summary path is configured
	SaveSummary(summary *domain.RunSummary) error
}

// FileStorage stores artifacts and summaries at the paths of the config
type FileStorage struct {
	cfg    *config.Config
	parser parser.Parser
}

// NewFileStorage returns a Storage that reads/writes the config's artifact and summary paths.
func NewFileStorage(cfg *config.Config) *FileStorage {
	return &FileStorage{
		cfg:    cfg,
		parser: parser.NewArtifactParser(),
	}
}
