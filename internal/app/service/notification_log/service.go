package notification_log

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/tool"
	"github.com/fatflowers/planledger/pkg/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

var sortableColumns = []string{"created_at", "notification_time", "alert_name", "status"}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a payment notification log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	go func() {
		if log == nil {
			return
		}
		if log.ID == "" {
			log.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.WithContext(context.WithoutCancel(ctx)).Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}

type ListRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from" validate:"gte=0"`
	Size      int                   `json:"size" validate:"gte=0,lte=200"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type ListResult struct {
	Items []*models.PaymentNotificationLog `json:"items"`
	Total int64                            `json:"total"`
}

// filtersWhere wraps a list of filters to a single clause.Expression
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

func (r *ListRequest) orderBy() clause.OrderByColumn {
	col := "created_at"
	if lo.Contains(sortableColumns, r.SortBy) {
		col = r.SortBy
	}
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: r.SortOrder != "asc"}
}

// List returns one page of notification logs matching the filters, newest first
// unless asked otherwise.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := types.ValidateFilters(req.Filters, models.PaymentNotificationLogFilterColumns); err != nil {
		return nil, err
	}
	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	q := s.db.WithContext(ctx).Model(&models.PaymentNotificationLog{})
	if filters := lo.Compact(req.Filters); len(filters) > 0 {
		q = q.Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: filters}}})
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notification logs: %w", err)
	}
	items := make([]*models.PaymentNotificationLog, 0, size)
	if err := q.Order(req.orderBy()).Offset(max(req.From, 0)).Limit(size).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return &ListResult{Items: items, Total: total}, nil
}
