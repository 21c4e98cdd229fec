package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
)

// Memory is an in-process Repository. It backs the default configuration
// when no Firestore project is set, and tests.
type Memory struct {
	mu    sync.RWMutex
	items []*model.HistoryItem
}

func NewMemory() *Memory {
	return &Memory{}
}

func (r *Memory) PutHistory(ctx context.Context, item *model.HistoryItem) error {
	if item == nil {
		return goerr.New("history item is nil")
	}
	if err := item.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid history item")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]*model.HistoryItem{item}, r.items...)
	if len(r.items) > model.HistoryLimit {
		r.items = r.items[:model.HistoryLimit]
	}
	return nil
}

func (r *Memory) ListHistory(ctx context.Context) ([]*model.HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.HistoryItem, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *Memory) ClearHistory(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = nil
	return nil
}
