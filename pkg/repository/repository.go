package repository

import (
	"context"

	"github.com/medassist-app/medassist/pkg/model"
)

// Repository defines the interface for history persistence. The store is an
// append-bounded ordered log: at most model.HistoryLimit entries, newest
// first, oldest evicted on overflow.
type Repository interface {
	// PutHistory prepends an entry and truncates the log to the limit
	PutHistory(ctx context.Context, item *model.HistoryItem) error

	// ListHistory returns entries newest first, at most model.HistoryLimit
	ListHistory(ctx context.Context) ([]*model.HistoryItem, error)

	// ClearHistory removes all entries
	ClearHistory(ctx context.Context) error
}
