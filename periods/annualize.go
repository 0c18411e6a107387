package periods

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// annualizePrecision is the number of decimal places kept by Annualize.
const annualizePrecision = 12

var one = decimal.NewFromInt(1)

// Years is the span of p as a fraction of years.
func (p ResolvedPeriod) Years() decimal.Decimal { return p.Range().Years() }

// Annualize converts a cumulative return over p into an annual rate,
// (1+r)^(1/years) - 1. Periods that are not annualized, or that span one
// year or less, return cumulative unchanged.
func Annualize(cumulative decimal.Decimal, p ResolvedPeriod) (decimal.Decimal, error) {
	if !p.IsAnnualized {
		return cumulative, nil
	}
	years := p.Years()
	if years.LessThanOrEqual(one) {
		return cumulative, nil
	}

	growth := one.Add(cumulative)
	if !growth.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s over %s (%s) is at or below -100%%", ErrInvalidReturn, cumulative, p.Code, p.Range())
	}

	exp := one.DivRound(years, annualizePrecision+4)
	v, err := growth.PowWithPrecision(exp, annualizePrecision+4)
	if err != nil {
		return decimal.Zero, fmt.Errorf("annualize %s: %w", p.Code, err)
	}
	return v.Sub(one).Round(annualizePrecision), nil
}
