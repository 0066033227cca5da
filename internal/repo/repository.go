package repo

import (
	"context"

	"github.com/hamed0406/docsync/internal/domain"
)

// SettingsStore is the port the settings panel persists through.
// Swap in any adapter: memory for tests, a file for single-user installs,
// postgres for a shared deployment.
type SettingsStore interface {
	// Load returns nil, nil if nothing has been saved yet.
	Load(ctx context.Context) (*domain.Settings, error)
	// Save upserts the whole record.
	Save(ctx context.Context, s *domain.Settings) error
}
