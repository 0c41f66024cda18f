package labels

import (
	"context"
)

// Store is the label collection of one repository.
type Store interface {
	// ListLabels returns every label, following pagination.
	ListLabels(ctx context.Context) ([]ObservedLabel, error)
	// CreateLabel fails if a label with the same name already exists.
	CreateLabel(ctx context.Context, label DesiredLabel) (*ObservedLabel, error)
	DeleteLabel(ctx context.Context, name string) error
	// RepositoryExists reports whether the repository itself exists.
	RepositoryExists(ctx context.Context) (bool, error)
}

// Updater is implemented by stores that can change a label's name, color
// and description in one call.
type Updater interface {
	UpdateLabel(ctx context.Context, currentName string, label DesiredLabel) (*ObservedLabel, error)
}
