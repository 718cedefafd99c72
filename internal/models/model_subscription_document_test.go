package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fatflowers/planledger/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionDocument_TableName(t *testing.T) {
	var m SubscriptionDocument
	require.Equal(t, "subscription_document", m.TableName())
	require.Equal(t, "payment_notification_log", PaymentNotificationLog{}.TableName())
}

func TestSubscriptionDocument_NilSafeAccessors(t *testing.T) {
	var doc *SubscriptionDocument
	require.NotNil(t, doc.StatusEvents())
	require.Empty(t, doc.PaymentEvents())

	doc = NewSubscriptionDocument("org_1", nil, nil)
	require.Empty(t, doc.StatusEvents())
}

func TestSubscriptionDocument_JSONKeepsEventArrays(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := NewSubscriptionDocument("org_1", []*types.StatusEvent{
		{AlertID: "1", SubscriptionPlanID: "8", Description: types.DescriptionActive, EventTime: at},
	}, nil)

	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var back SubscriptionDocument
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back.StatusEvents(), 1)
	require.True(t, back.StatusEvents()[0].EventTime.Equal(at))
	require.Equal(t, types.DescriptionActive, back.StatusEvents()[0].Description)
}
