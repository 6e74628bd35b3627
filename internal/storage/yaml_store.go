package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomopet/internal/core/model"
)

// YAMLStore keeps the aggregate record in a single YAML file.
type YAMLStore struct {
	path string
	now  func() time.Time
}

// NewYAMLStore returns a store backed by the file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path, now: time.Now}
}

// Path returns the backing file path.
func (store *YAMLStore) Path() string {
	return store.path
}

// Load reads the record from YAML.
// If the file does not exist, default data is returned.
func (store *YAMLStore) Load(_ context.Context) (model.Data, error) {
	defaults := model.DefaultData(store.now())

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read data file: %w", err)
	}

	var fileData map[string]any
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return defaults, fmt.Errorf("parse data yaml: %w", err)
	}

	return decodeDocument(fileData, store.now())
}

// Save writes the record to YAML.
func (store *YAMLStore) Save(_ context.Context, data model.Data) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	serialized, err := yaml.Marshal(encodeDocument(data))
	if err != nil {
		return fmt.Errorf("marshal data yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// Delete removes the data file.
func (store *YAMLStore) Delete(_ context.Context) error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove data file: %w", err)
	}
	return nil
}

// Close is a no-op for file storage.
func (store *YAMLStore) Close() error {
	return nil
}
