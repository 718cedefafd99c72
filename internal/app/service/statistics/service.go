package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/types"
)

type StatisticType string

const (
	// Deliveries per day, one row per day.
	StatisticTypeDailyReceivedCount StatisticType = "daily_received_count"
	StatisticTypeDailyFailedCount   StatisticType = "daily_failed_count"
	// Deliveries per day and alert name; Label holds the alert name.
	StatisticTypeDailyAlertCount StatisticType = "daily_alert_count"
	// Failure rate per day in basis points; Value2 is the number of finished
	// deliveries, Value3 the failed ones.
	StatisticTypeDailyFailureRate StatisticType = "daily_failure_rate"
)

// Filter types supported by certain statistic types
type NotificationStatisticFilterType string

const (
	NotificationStatisticFilterTypeAlertName NotificationStatisticFilterType = "alert_name"
	NotificationStatisticFilterTypeOwnerKey  NotificationStatisticFilterType = "owner_key"
)

var filterTypes = []NotificationStatisticFilterType{
	NotificationStatisticFilterTypeAlertName,
	NotificationStatisticFilterTypeOwnerKey,
}

var validFilters = map[NotificationStatisticFilterType][]StatisticType{
	NotificationStatisticFilterTypeAlertName: {StatisticTypeDailyReceivedCount, StatisticTypeDailyFailedCount, StatisticTypeDailyFailureRate},
	NotificationStatisticFilterTypeOwnerKey:  {StatisticTypeDailyReceivedCount, StatisticTypeDailyFailedCount, StatisticTypeDailyAlertCount},
}

type NotificationStatisticDataItem struct {
	ID StatisticType `json:"id" validate:"required,oneof=daily_received_count daily_failed_count daily_alert_count daily_failure_rate"`
}

type NotificationStatisticRequest struct {
	Filters   []*types.CommonFilter            `json:"filters"`
	DataItems []*NotificationStatisticDataItem `json:"data_items" validate:"required,min=1,dive,required"`
}

// GetFilters keeps the filters that apply to statisticType. Fields that are not
// statistic specific always apply.
func (f *NotificationStatisticRequest) GetFilters(statisticType StatisticType) *NotificationStatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result NotificationStatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[NotificationStatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

// Build composes a WHERE clause from the filters.
func (f *NotificationStatisticRequest) Build(builder clause.Builder) {
	if f == nil || len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type NotificationStatisticResponseDataItem struct {
	Date   string `json:"date"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
	Value3 int64  `json:"value3,omitempty"`
}

type NotificationStatisticResponse struct {
	DataItems map[StatisticType][]NotificationStatisticResponseDataItem `json:"data_items"`
}

type statisticQuery func(ctx context.Context, request *NotificationStatisticRequest) ([]NotificationStatisticResponseDataItem, error)

// Service provides statistics over the notification log.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	queries map[StatisticType]statisticQuery
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	s := &Service{db: db, log: log}
	s.queries = map[StatisticType]statisticQuery{
		StatisticTypeDailyReceivedCount: s.getDailyReceivedCount,
		StatisticTypeDailyFailedCount:   s.getDailyFailedCount,
		StatisticTypeDailyAlertCount:    s.getDailyAlertCount,
		StatisticTypeDailyFailureRate:   s.getDailyFailureRate,
	}
	return s
}

func (s *Service) logTable() string {
	return (models.PaymentNotificationLog{}).TableName()
}

func (s *Service) dailyCountByStatus(ctx context.Context, request *NotificationStatisticRequest, status models.PaymentNotificationLogStatus) ([]NotificationStatisticResponseDataItem, error) {
	var results []NotificationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table(s.logTable()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Where("status = ?", status).
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyReceivedCount(ctx context.Context, request *NotificationStatisticRequest) ([]NotificationStatisticResponseDataItem, error) {
	return s.dailyCountByStatus(ctx, request.GetFilters(StatisticTypeDailyReceivedCount), models.PaymentNotificationLogStatusReceived)
}

func (s *Service) getDailyFailedCount(ctx context.Context, request *NotificationStatisticRequest) ([]NotificationStatisticResponseDataItem, error) {
	return s.dailyCountByStatus(ctx, request.GetFilters(StatisticTypeDailyFailedCount), models.PaymentNotificationLogStatusHandleFailed)
}

func (s *Service) getDailyAlertCount(ctx context.Context, request *NotificationStatisticRequest) ([]NotificationStatisticResponseDataItem, error) {
	var results []NotificationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table(s.logTable()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, alert_name AS label, count(*) as value").
		Where("status = ?", models.PaymentNotificationLogStatusReceived).
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyAlertCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("alert_name").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyFailureRate(ctx context.Context, request *NotificationStatisticRequest) ([]NotificationStatisticResponseDataItem, error) {
	var results []NotificationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table(s.logTable()).
		Select(`TO_CHAR(created_at, 'YYYY-MM-DD') as date,
  CASE WHEN count(*) = 0 THEN 0
       ELSE CAST(ROUND(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) * 10000.0 / count(*)) AS INTEGER)
  END as value,
  count(*) as value2,
  SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as value3`,
			models.PaymentNotificationLogStatusHandleFailed, models.PaymentNotificationLogStatusHandleFailed).
		Where("status IN ?", []models.PaymentNotificationLogStatus{
			models.PaymentNotificationLogStatusHandled,
			models.PaymentNotificationLogStatusHandleFailed,
		}).
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyFailureRate)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getNotificationStatistic(ctx context.Context, request *NotificationStatisticRequest, dataItem *NotificationStatisticDataItem) ([]NotificationStatisticResponseDataItem, error) {
	query, ok := s.queries[dataItem.ID]
	if !ok {
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
	return query(ctx, request)
}

// GetDailyNotificationStatistic computes every requested data item concurrently.
// A data item that one of the statistic specific filters does not apply to is
// answered with a nil series.
func (s *Service) GetDailyNotificationStatistic(ctx context.Context, request *NotificationStatisticRequest) (*NotificationStatisticResponse, error) {
	if err := types.ValidateFilters(request.Filters, models.PaymentNotificationLogFilterColumns); err != nil {
		return nil, err
	}
	request.Filters = lo.Compact(request.Filters)
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []NotificationStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *NotificationStatisticDataItem) {
			defer wg.Done()
			for _, filter := range request.Filters {
				ft := NotificationStatisticFilterType(filter.Field)
				if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], di.ID) {
					resChan <- &lo.Entry[StatisticType, []NotificationStatisticResponseDataItem]{Key: di.ID, Value: nil}
					return
				}
			}
			res, err := s.getNotificationStatistic(ctx, request, di)
			if err != nil {
				errChan <- fmt.Errorf("failed to compute %s: %w", di.ID, err)
				return
			}
			resChan <- &lo.Entry[StatisticType, []NotificationStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]NotificationStatisticResponseDataItem)
	for received := 0; received < len(request.DataItems); {
		select {
		case err, ok := <-errChan:
			if !ok {
				// closed once every worker is done; the rest is buffered in resChan
				errChan = nil
				continue
			}
			logctx.FromCtx(ctx, s.log).Errorw("statistic query failed", "error", err.Error())
			return nil, err
		case entry := <-resChan:
			results[entry.Key] = entry.Value
			received++
		}
	}
	return &NotificationStatisticResponse{DataItems: results}, nil
}
