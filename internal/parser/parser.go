package parser

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"tsa/internal/domain"
)

// ErrInvalidArtifact is returned when an artifact does not follow the test schema
var ErrInvalidArtifact = errors.New("invalid artifact")

// Parser reads generated artifacts back into test cases
type Parser interface {
	Parse(data []byte) ([]domain.TestCase, error)
}

// artifact is the document layout every generated file follows
type artifact struct {
	Tests []domain.TestCase `yaml:"tests"`
}

// ArtifactParser parses the YAML artifacts written by the generate command
type ArtifactParser struct{}

// NewArtifactParser creates a new ArtifactParser
func NewArtifactParser() *ArtifactParser {
	return &ArtifactParser{}
}

// Parse decodes an artifact. Unknown keys are rejected so that a file written
// by another tool is not silently accepted.
func (p *ArtifactParser) Parse(data []byte) ([]domain.TestCase, error) {
	if !bytes.HasPrefix(data, []byte(domain.ArtifactHeader)) {
		return nil, fmt.Errorf("%w: missing %q header", ErrInvalidArtifact, domain.ArtifactHeader)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc artifact
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	for i, tc := range doc.Tests {
		if tc.Name == "" || tc.Binary == "" {
			return nil, fmt.Errorf("%w: test %d has no name or binary", ErrInvalidArtifact, i)
		}
	}
	return doc.Tests, nil
}
