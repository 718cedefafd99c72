package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/types"
)

func TestIsActive_Deterministic(t *testing.T) {
	at := ts("2024-02-01T00:00:00Z")
	events := []*types.StatusEvent{
		statusEv("c1", "8", types.DescriptionActive, ts("2024-01-01T00:00:00Z")),
		statusEv("u1", "8", types.DescriptionPastDue, ts("2024-01-20T00:00:00Z")),
	}
	first := IsActive(events, at)
	require.Equal(t, first, IsActive(events, at))
	require.True(t, first)
}

func TestIsActive_ToleranceWindow(t *testing.T) {
	at := ts("2024-01-01T12:00:00Z")
	events := []*types.StatusEvent{statusEv("c1", "8", types.DescriptionActive, at)}

	require.True(t, IsActive(events, at))
	require.True(t, IsActive(events, at.Add(-9*time.Second)))
	require.False(t, IsActive(events, at.Add(-11*time.Second)))
}

func TestIsActive_Descriptions(t *testing.T) {
	at := ts("2024-01-01T00:00:00Z")
	later := at.Add(time.Hour)
	tests := []struct {
		desc types.StatusDescription
		want bool
	}{
		{types.DescriptionActive, true},
		{types.DescriptionTrialing, true},
		{types.DescriptionPastDue, true},
		{types.DescriptionPaused, false},
		{types.DescriptionDeleted, false},
		{types.DescriptionSuperseded, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.desc), func(t *testing.T) {
			events := []*types.StatusEvent{statusEv("x", "8", tt.desc, at)}
			require.Equal(t, tt.want, IsActive(events, later))
		})
	}
}

func TestIsActive_PlaceholderOnlyIsInactive(t *testing.T) {
	events := []*types.StatusEvent{types.NewPlaceholderEvent("8", "chk_1")}
	require.False(t, IsActive(events, time.Now()))
	require.False(t, IsActive(nil, time.Now()))
}

func TestIsActive_UsesEventTimeNotAppendOrder(t *testing.T) {
	events := []*types.StatusEvent{
		statusEv("x", "8", types.DescriptionDeleted, ts("2024-03-01T00:00:00Z")),
		statusEv("c1", "8", types.DescriptionActive, ts("2024-01-01T00:00:00Z")),
	}
	require.False(t, IsActive(events, ts("2024-04-01T00:00:00Z")))
	require.True(t, IsActive(events, ts("2024-02-01T00:00:00Z")))
}

func TestDeriveStartEnd_SingleEvent(t *testing.T) {
	t0 := ts("2024-01-01T00:00:00Z")
	got, err := DeriveStartEnd([]*types.StatusEvent{
		types.NewPlaceholderEvent("8", "chk_1"),
		statusEv("c1", "8", types.DescriptionActive, t0),
	})
	require.NoError(t, err)
	require.Equal(t, t0, got.Start)
	require.Nil(t, got.End)
}

func TestDeriveStartEnd_SingleNonActiveEventHasNoEnd(t *testing.T) {
	got, err := DeriveStartEnd([]*types.StatusEvent{statusEv("c1", "8", types.DescriptionPaused, ts("2024-01-01T00:00:00Z"))})
	require.NoError(t, err)
	require.Nil(t, got.End)
}

func TestDeriveStartEnd_CancellationClosesWindow(t *testing.T) {
	t0 := ts("2024-01-01T00:00:00Z")
	t1 := ts("2024-02-01T00:00:00Z")
	events := []*types.StatusEvent{
		statusEv("c1", "8", types.DescriptionActive, t0),
		statusEv("x1", "8", types.DescriptionDeleted, t1),
	}

	got, err := DeriveStartEnd(events)
	require.NoError(t, err)
	require.Equal(t, t0, got.Start)
	require.NotNil(t, got.End)
	require.Equal(t, t1, *got.End)

	require.False(t, IsActive(events, t1.Add(time.Millisecond)))
	require.True(t, IsActive(events, t1.Add(-ActiveTolerance-time.Millisecond)))
}

func TestDeriveStartEnd_ReactivatedHasNoEnd(t *testing.T) {
	events := []*types.StatusEvent{
		statusEv("c1", "8", types.DescriptionActive, ts("2024-01-01T00:00:00Z")),
		statusEv("u1", "8", types.DescriptionPaused, ts("2024-02-01T00:00:00Z")),
		statusEv("u2", "8", types.DescriptionActive, ts("2024-03-01T00:00:00Z")),
	}
	got, err := DeriveStartEnd(events)
	require.NoError(t, err)
	require.Nil(t, got.End)
}

func TestDeriveStartEnd_OnlyPlaceholdersIsMalformed(t *testing.T) {
	_, err := DeriveStartEnd([]*types.StatusEvent{types.NewPlaceholderEvent("8", "chk_1")})
	require.True(t, errors.Is(err, apperr.ErrMalformedState))

	_, err = DeriveStartEnd(nil)
	require.True(t, errors.Is(err, apperr.ErrMalformedState))
}
