package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// HistoryLimit is the maximum number of entries kept in the history store.
// Appending beyond the limit evicts the oldest entry.
const HistoryLimit = 50

type HistoryID string

// NewHistoryID generates a new unique HistoryID. IDs are time-prefixed so
// they sort by creation instant even outside the store.
func NewHistoryID() HistoryID {
	return HistoryID(fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]))
}

type QueryType string

const (
	QueryTypeInfo        QueryType = "info"
	QueryTypeInteraction QueryType = "interaction"
	QueryTypeDocument    QueryType = "document"
)

// Validate checks if the query type is valid
func (t QueryType) Validate() error {
	switch t {
	case QueryTypeInfo, QueryTypeInteraction, QueryTypeDocument:
		return nil
	default:
		return goerr.New("invalid query type", goerr.V("type", string(t)))
	}
}

// HistoryItem records one completed query. Items are immutable after
// creation and are removed only by clearing the whole store.
type HistoryItem struct {
	ID   HistoryID `json:"id"`
	Type QueryType `json:"type"`

	// Query holds the user input: a single element for info and document
	// queries (medication name, uploaded filename), the ordered medication
	// list for interaction queries.
	Query []string `json:"query"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewHistoryItem creates a history entry with a fresh ID and timestamp.
func NewHistoryItem(queryType QueryType, query ...string) *HistoryItem {
	return &HistoryItem{
		ID:        NewHistoryID(),
		Type:      queryType,
		Query:     append([]string{}, query...),
		CreatedAt: time.Now().UTC(),
	}
}

// Label returns a display string for the history sidebar.
func (h *HistoryItem) Label() string {
	return strings.Join(h.Query, ", ")
}
