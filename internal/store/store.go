// Package store provides compendium persistence: a local file for the CLI
// workflow and PostgreSQL for the server workflow.
package store

import (
	"context"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// CompendiumStore loads the experience dataset from wherever it lives.
type CompendiumStore interface {
	// Load returns the current compendium, schema-validated.
	Load(ctx context.Context) (*types.Compendium, error)
	// Close releases any held resources.
	Close()
}

// FileStore reads the compendium from a JSON file on every Load, so edits
// take effect without a restart.
type FileStore struct {
	Path string
}

// NewFileStore builds a store over a compendium JSON file.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(_ context.Context) (*types.Compendium, error) {
	return compendium.Load(s.Path)
}

func (s *FileStore) Close() {}
