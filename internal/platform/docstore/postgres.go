package docstore

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/types"
)

// Postgres keeps documents in the subscription_document table. Union runs the
// read-merge-write inside a transaction holding a row lock, so concurrent
// appenders on one key are serialized by the database.
type Postgres struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewPostgres(db *gorm.DB, log *zap.SugaredLogger) *Postgres {
	return &Postgres{db: db, log: log}
}

func byKey(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

func (s *Postgres) Get(ctx context.Context, key string) (*models.SubscriptionDocument, error) {
	var doc models.SubscriptionDocument
	if err := s.db.WithContext(ctx).Where(byKey(key)).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription document %q", key)
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Postgres) Put(ctx context.Context, doc *models.SubscriptionDocument) error {
	return s.db.WithContext(ctx).Save(doc).Error
}

func (s *Postgres) Create(ctx context.Context, doc *models.SubscriptionDocument) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(doc)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Postgres) Union(ctx context.Context, key string, status []*types.StatusEvent, payments []*types.PaymentEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.SubscriptionDocument
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(byKey(key)).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("subscription document %q", key)
		}
		if err != nil {
			return err
		}

		mergedStatus, addedStatus, err := unionEvents(doc.StatusEvents(), status)
		if err != nil {
			return err
		}
		mergedPayments, addedPayments, err := unionEvents(doc.PaymentEvents(), payments)
		if err != nil {
			return err
		}
		if addedStatus == 0 && addedPayments == 0 {
			logctx.FromCtx(ctx, s.log).Debugw("docstore union: nothing new", "key", key)
			return nil
		}

		return tx.Model(&models.SubscriptionDocument{}).Where(byKey(key)).Updates(map[string]any{
			"status":     datatypes.NewJSONType(mergedStatus),
			"payments":   datatypes.NewJSONType(mergedPayments),
			"updated_at": time.Now(),
		}).Error
	})
}
