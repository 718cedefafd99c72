// Package docstore persists subscription documents: one row per owner holding
// the append-only status and payment event arrays.
package docstore

import (
	"context"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/tool"
	"github.com/fatflowers/planledger/pkg/types"
)

// ErrNotFound is matched with errors.Is by every error a Store returns for a
// missing document.
var ErrNotFound = apperr.ErrNotFound

type Store interface {
	// Get returns the document stored under key.
	Get(ctx context.Context, key string) (*models.SubscriptionDocument, error)
	// Put creates or replaces the document.
	Put(ctx context.Context, doc *models.SubscriptionDocument) error
	// Create inserts doc unless a document with the same key exists. It reports
	// whether the insert happened.
	Create(ctx context.Context, doc *models.SubscriptionDocument) (bool, error)
	// Union appends the given events to the document's arrays, skipping events
	// whose encoding equals one already stored. It fails with ErrNotFound when the
	// document does not exist.
	Union(ctx context.Context, key string, status []*types.StatusEvent, payments []*types.PaymentEvent) error
}

// unionEvents returns existing followed by every element of add whose encoding
// is not yet present, and the number of appended elements.
func unionEvents[T any](existing, add []T) ([]T, int, error) {
	seen := make(map[string]struct{}, len(existing)+len(add))
	for _, e := range existing {
		k, err := tool.StableKey(e)
		if err != nil {
			return nil, 0, err
		}
		seen[k] = struct{}{}
	}
	out := make([]T, len(existing), len(existing)+len(add))
	copy(out, existing)
	added := 0
	for _, e := range add {
		k, err := tool.StableKey(e)
		if err != nil {
			return nil, 0, err
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
		added++
	}
	return out, added, nil
}
