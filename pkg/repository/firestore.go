package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/medassist-app/medassist/pkg/model"
	"google.golang.org/api/iterator"
)

const historyCollection = "histories"

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

func (r *Firestore) PutHistory(ctx context.Context, item *model.HistoryItem) error {
	if item == nil {
		return goerr.New("history item is nil")
	}
	if err := item.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid history item")
	}

	doc := r.client.Collection(historyCollection).Doc(string(item.ID))
	if _, err := doc.Set(ctx, item); err != nil {
		return goerr.Wrap(err, "failed to put history", goerr.V("history_id", item.ID))
	}

	return r.truncate(ctx)
}

// truncate evicts entries beyond the limit, oldest first.
func (r *Firestore) truncate(ctx context.Context) error {
	iter := r.client.Collection(historyCollection).
		OrderBy("CreatedAt", firestore.Desc).
		Offset(model.HistoryLimit).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate history overflow")
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to evict history entry", goerr.V("doc", doc.Ref.ID))
		}
	}
	return nil
}

func (r *Firestore) ListHistory(ctx context.Context) ([]*model.HistoryItem, error) {
	iter := r.client.Collection(historyCollection).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(model.HistoryLimit).
		Documents(ctx)
	defer iter.Stop()

	var items []*model.HistoryItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate histories")
		}

		var item model.HistoryItem
		if err := doc.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history", goerr.V("doc", doc.Ref.ID))
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *Firestore) ClearHistory(ctx context.Context) error {
	iter := r.client.Collection(historyCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate histories")
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete history", goerr.V("doc", doc.Ref.ID))
		}
	}
	return nil
}

// Close releases the underlying Firestore client.
func (r *Firestore) Close() error {
	return r.client.Close()
}
