// Package folder resolves organizational folders by name.
package folder

import (
	"context"
	"fmt"
	"strings"

	"voice-note-router-service/internal/observability/metrics"
	"voice-note-router-service/internal/store"
)

// Resolver looks up a folder by case-insensitive name, lazily creating it.
//
// The existence check and the create are two store calls; concurrent
// resolutions of the same new name can race between them. The store-level
// unique index narrows the window but the resolver does not guard it with
// a transaction (the store does not offer one).
type Resolver struct {
	folders store.FolderStore
	metrics *metrics.Metrics
}

// New creates a folder resolver over the given folder store.
func New(folders store.FolderStore) *Resolver {
	return &Resolver{
		folders: folders,
		metrics: metrics.DefaultMetrics,
	}
}

// Resolve returns the id of the folder matching name case-insensitively,
// creating it with the caller's original casing when no match exists.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("folder name must not be empty")
	}

	folders, err := r.folders.ListFolders(ctx)
	if err != nil {
		return "", err
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, name) {
			r.metrics.RecordFolderResolution("hit")
			return f.ID, nil
		}
	}

	id, err := r.folders.CreateFolder(ctx, name)
	if err != nil {
		return "", err
	}
	r.metrics.RecordFolderResolution("created")
	return id, nil
}
