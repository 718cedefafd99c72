package subscription

import (
	"slices"
	"time"

	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/types"
)

// ActiveTolerance widens the evaluation instant of IsActive so that events
// landing at nearly the same moment as a read already count.
const ActiveTolerance = 10 * time.Second

// farFuture is the default cutoff when a caller asks for the full history.
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

type StartEnd struct {
	Start time.Time
	End   *time.Time
}

func sortedStatus(events []*types.StatusEvent) []*types.StatusEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b *types.StatusEvent) int {
		return a.EventTime.Compare(b.EventTime)
	})
	return out
}

func sameEvent(a, b *types.StatusEvent) bool {
	return a == b || (a.AlertID != "" && a.AlertID == b.AlertID)
}

// DeriveStartEnd computes a plan's window. Start is the earliest real event.
// End is the latest event's time when that event is not active, unless the
// latest event is also the earliest one.
func DeriveStartEnd(events []*types.StatusEvent) (StartEnd, error) {
	asc := sortedStatus(events)
	first, ok := firstReal(asc)
	if !ok {
		return StartEnd{}, apperr.New(apperr.CodeMalformedState, "no status event besides the placeholder")
	}
	last := asc[len(asc)-1]

	res := StartEnd{Start: first.EventTime}
	if sameEvent(first, last) {
		return res, nil
	}
	if !last.Description.IsActive() {
		end := last.EventTime
		res.End = &end
	}
	return res, nil
}

func firstReal(asc []*types.StatusEvent) (*types.StatusEvent, bool) {
	for _, e := range asc {
		if !e.IsPlaceholder() {
			return e, true
		}
	}
	return nil, false
}

// IsActive decides liveness at the given instant from the single most recent
// event before at+ActiveTolerance. No event at all means inactive.
func IsActive(events []*types.StatusEvent, at time.Time) bool {
	latest := latestBefore(events, at.Add(ActiveTolerance))
	return latest != nil && latest.Description.IsActive()
}

func latestBefore(events []*types.StatusEvent, limit time.Time) *types.StatusEvent {
	var latest *types.StatusEvent
	for _, e := range events {
		if !e.EventTime.Before(limit) {
			continue
		}
		// later appends win ties
		if latest == nil || !e.EventTime.Before(latest.EventTime) {
			latest = e
		}
	}
	return latest
}
