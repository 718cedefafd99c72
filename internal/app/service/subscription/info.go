package subscription

import (
	"slices"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/types"
)

// BuildSubscriptionInfo reduces a document to one info per plan. Only events
// before validBefore are considered; the active flag is evaluated at now.
// Plans without any real status event cannot be placed in time and are
// returned in skipped instead.
func BuildSubscriptionInfo(doc *models.SubscriptionDocument, validBefore, now time.Time) (infos map[string]*types.SubscriptionPlanInfo, skipped []string) {
	statusByPlan := Partition(doc.StatusEvents(), validBefore)
	paymentsByPlan := Partition(doc.PaymentEvents(), validBefore)

	planIDs := lo.Union(lo.Keys(statusByPlan), lo.Keys(paymentsByPlan))
	sort.Strings(planIDs)

	infos = make(map[string]*types.SubscriptionPlanInfo, len(planIDs))
	for _, planID := range planIDs {
		window, err := DeriveStartEnd(statusByPlan[planID])
		if err != nil {
			skipped = append(skipped, planID)
			continue
		}
		trail := BuildPaymentsTrail(paymentsByPlan[planID])
		infos[planID] = &types.SubscriptionPlanInfo{
			Active:        !window.Start.After(now) && (window.End == nil || now.Before(*window.End)),
			Start:         window.Start,
			End:           window.End,
			StatusTrail:   buildStatusTrail(statusByPlan[planID]),
			PaymentsTrail: PruneUpcomingPayment(trail, window.End),
		}
	}
	return infos, skipped
}

func buildStatusTrail(events []*types.StatusEvent) []*types.StatusTrailEntry {
	trail := lo.FilterMap(events, func(e *types.StatusEvent, _ int) (*types.StatusTrailEntry, bool) {
		if e.IsPlaceholder() {
			return nil, false
		}
		at := e.EventTime
		if e.CancellationEffectiveDate != nil {
			at = *e.CancellationEffectiveDate
		}
		return &types.StatusTrailEntry{EventTime: at, Description: e.Description, Type: e.AlertName}, true
	})
	slices.SortStableFunc(trail, func(a, b *types.StatusTrailEntry) int {
		return b.EventTime.Compare(a.EventTime)
	})
	return trail
}

// SubscriptionsStatus reports liveness at the given instant for every plan with
// at least one status event.
func SubscriptionsStatus(doc *models.SubscriptionDocument, at time.Time) map[string]bool {
	byPlan := Partition(doc.StatusEvents(), farFuture)
	return lo.MapValues(byPlan, func(events []*types.StatusEvent, _ string) bool {
		return IsActive(events, at)
	})
}
