package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"pomopet/internal/core/model"
)

const (
	// RecordKey identifies the aggregate record in key-value backends.
	RecordKey = "pomodoro-pet-data"
	// SchemaVersion is written with every saved record.
	SchemaVersion = 1

	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"

	yamlFileName   = "data.yaml"
	sqliteFileName = "pomopet.db"
)

// ErrMalformed marks a stored record that was only partially usable.
// The accompanying Data is still valid: bad fields carry their defaults.
var ErrMalformed = errors.New("malformed stored data")

// Store loads and saves the aggregate record.
type Store interface {
	// Load returns the stored record merged over defaults. When err is
	// non-nil the returned Data is still usable.
	Load(ctx context.Context) (model.Data, error)
	Save(ctx context.Context, data model.Data) error
	Delete(ctx context.Context) error
	Close() error
}

// Open creates the store for backend inside dir.
func Open(ctx context.Context, backend, dir string) (Store, error) {
	switch backend {
	case BackendYAML, "":
		return NewYAMLStore(filepath.Join(dir, yamlFileName)), nil
	case BackendSQLite:
		return NewSQLite(ctx, filepath.Join(dir, sqliteFileName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
