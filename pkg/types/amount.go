package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a currency amount rendered with two decimals.
type Money struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string `json:"currency"`
		Total    string `json:"total"`
	}{Currency: m.Currency, Total: m.Total.StringFixed(2)})
}

// TrailAmount is the amount block of a payment trail entry.
type TrailAmount struct {
	Currency  string
	Total     decimal.Decimal
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

func (a TrailAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency  string `json:"currency"`
		Total     string `json:"total"`
		Quantity  string `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	}{
		Currency:  a.Currency,
		Total:     a.Total.StringFixed(2),
		Quantity:  a.Quantity.String(),
		UnitPrice: a.UnitPrice.StringFixed(2),
	})
}

// ParseAmount parses a provider decimal string. Empty input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
