package types

import (
	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/planledger/pkg/apperr"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq    CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt    CommonFilterOperator = "lt"
	CommonFilterOperatorLte   CommonFilterOperator = "lte"
	CommonFilterOperatorGt    CommonFilterOperator = "gt"
	CommonFilterOperatorGte   CommonFilterOperator = "gte"
	// [from, to)
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	// [from, to]
	CommonFilterOperatorRange CommonFilterOperator = "range"
	CommonFilterOperatorIn    CommonFilterOperator = "in"
)

var commonFilterOperators = []CommonFilterOperator{
	CommonFilterOperatorEq,
	CommonFilterOperatorNotEq,
	CommonFilterOperatorLt,
	CommonFilterOperatorLte,
	CommonFilterOperatorGt,
	CommonFilterOperatorGte,
	CommonFilterOperatorDateRange,
	CommonFilterOperatorRange,
	CommonFilterOperatorIn,
}

// CommonFilter is a single column condition taken from an admin request body.
// Field must be checked with Validate before the filter reaches a query.
type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
}

// Validate rejects filters on columns outside columns, unknown operators and
// ranges without both bounds.
func (f *CommonFilter) Validate(columns []string) error {
	if !lo.Contains(columns, f.Field) {
		return apperr.InvalidArguments("filter field %q is not filterable", f.Field)
	}
	if !lo.Contains(commonFilterOperators, f.Operator) {
		return apperr.InvalidArguments("filter operator %q is not supported", f.Operator)
	}
	if len(f.Values) == 0 {
		return apperr.InvalidArguments("filter on %s has no values", f.Field)
	}
	if (f.Operator == CommonFilterOperatorRange || f.Operator == CommonFilterOperatorDateRange) && len(f.Values) < 2 {
		return apperr.InvalidArguments("%s filter on %s needs two values", f.Operator, f.Field)
	}
	return nil
}

// ValidateFilters runs Validate on every non-nil filter.
func ValidateFilters(filters []*CommonFilter, columns []string) error {
	for _, f := range lo.Compact(filters) {
		if err := f.Validate(columns); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs a GORM expression. Filters without values build nothing.
func (f *CommonFilter) Build(builder clause.Builder) {
	if len(f.Values) == 0 {
		return
	}

	value := f.Values[0]

	switch f.Operator {
	case CommonFilterOperatorEq:
		clause.Eq{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorNotEq:
		clause.Neq{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorLt:
		clause.Lt{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorLte:
		clause.Lte{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorGt:
		clause.Gt{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorGte:
		clause.Gte{Column: f.Field, Value: value}.Build(builder)
	case CommonFilterOperatorRange:
		if len(f.Values) < 2 {
			return
		}
		clause.And(clause.Gte{Column: f.Field, Value: f.Values[0]}, clause.Lte{Column: f.Field, Value: f.Values[1]}).Build(builder)
	case CommonFilterOperatorDateRange:
		if len(f.Values) < 2 {
			return
		}
		clause.And(clause.Gte{Column: f.Field, Value: f.Values[0]}, clause.Lt{Column: f.Field, Value: f.Values[1]}).Build(builder)
	case CommonFilterOperatorIn:
		clause.IN{Column: f.Field, Values: f.Values}.Build(builder)
	default:
		return
	}
}
