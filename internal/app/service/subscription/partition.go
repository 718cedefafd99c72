package subscription

import (
	"time"

	"github.com/samber/lo"
)

// PlanEvent is implemented by *types.StatusEvent and *types.PaymentEvent.
type PlanEvent interface {
	PlanID() string
	Time() time.Time
}

// Partition groups events by plan id, dropping every event at or after cutoff.
// Order inside a group is unspecified.
func Partition[E PlanEvent](events []E, cutoff time.Time) map[string][]E {
	kept := lo.Filter(events, func(e E, _ int) bool {
		return e.Time().Before(cutoff)
	})
	return lo.GroupBy(kept, func(e E) string {
		return e.PlanID()
	})
}
