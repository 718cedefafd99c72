package docstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/types"
)

// Memory is a process-local Store used by tests and local runs without a
// database.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*models.SubscriptionDocument
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]*models.SubscriptionDocument{}}
}

func cloneDoc(d *models.SubscriptionDocument) *models.SubscriptionDocument {
	c := models.NewSubscriptionDocument(d.Key, slices.Clone(d.StatusEvents()), slices.Clone(d.PaymentEvents()))
	c.CreatedAt, c.UpdatedAt = d.CreatedAt, d.UpdatedAt
	return c
}

func (m *Memory) Get(_ context.Context, key string) (*models.SubscriptionDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[key]
	if !ok {
		return nil, apperr.NotFound("subscription document %q", key)
	}
	return cloneDoc(d), nil
}

func (m *Memory) Put(_ context.Context, doc *models.SubscriptionDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(doc)
	return nil
}

func (m *Memory) Create(_ context.Context, doc *models.SubscriptionDocument) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.Key]; ok {
		return false, nil
	}
	m.putLocked(doc)
	return true, nil
}

func (m *Memory) putLocked(doc *models.SubscriptionDocument) {
	c := cloneDoc(doc)
	now := time.Now()
	c.CreatedAt = now
	if prev, ok := m.docs[doc.Key]; ok {
		c.CreatedAt = prev.CreatedAt
	}
	c.UpdatedAt = now
	m.docs[doc.Key] = c
}

func (m *Memory) Union(_ context.Context, key string, status []*types.StatusEvent, payments []*types.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[key]
	if !ok {
		return apperr.NotFound("subscription document %q", key)
	}
	mergedStatus, addedStatus, err := unionEvents(d.StatusEvents(), status)
	if err != nil {
		return err
	}
	mergedPayments, addedPayments, err := unionEvents(d.PaymentEvents(), payments)
	if err != nil {
		return err
	}
	if addedStatus+addedPayments == 0 {
		return nil
	}
	next := models.NewSubscriptionDocument(key, mergedStatus, mergedPayments)
	next.CreatedAt, next.UpdatedAt = d.CreatedAt, time.Now()
	m.docs[key] = next
	return nil
}
