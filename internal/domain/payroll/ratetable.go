package payroll

import "github.com/shopspring/decimal"

// TaxBracket is one band of the progressive wage income tax. UpperBound is
// the taxable income the band covers up to; nil means the band is open-ended.
type TaxBracket struct {
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	Rate       decimal.Decimal  `json:"rate"`
}

// RateTable carries every jurisdiction-specific constant the calculator
// needs. It is injected per run rather than compiled in, so rule changes are
// a re-parameterization, not a code change. A run stores the table it was
// computed with.
type RateTable struct {
	TaxBrackets []TaxBracket `json:"tax_brackets"`

	InssEmployeeRate decimal.Decimal  `json:"inss_employee_rate"`
	InssEmployerRate decimal.Decimal  `json:"inss_employer_rate"`
	InssCeiling      *decimal.Decimal `json:"inss_ceiling,omitempty"`

	OvertimeMultiplier   decimal.Decimal `json:"overtime_multiplier"`
	NightShiftMultiplier decimal.Decimal `json:"night_shift_multiplier"`
	HolidayMultiplier    decimal.Decimal `json:"holiday_multiplier"`

	// Per-diem is a reimbursement-style payment; when true it stays out of
	// both the INSS base and taxable income.
	PerDiemExempt bool `json:"per_diem_exempt"`

	// Used to derive an hourly rate for employees configured with a monthly
	// salary only.
	StandardMonthlyHours decimal.Decimal `json:"standard_monthly_hours"`
}

// DefaultTimorLeste returns the current Timor-Leste rule set: wage income
// tax at 0% up to $500/month and 10% above, INSS split 4%/6% with no
// ceiling, and the statutory hour multipliers.
func DefaultTimorLeste() RateTable {
	threshold := decimal.NewFromInt(500)
	return RateTable{
		TaxBrackets: []TaxBracket{
			{UpperBound: &threshold, Rate: decimal.Zero},
			{Rate: decimal.NewFromFloat(0.10)},
		},
		InssEmployeeRate:     decimal.NewFromFloat(0.04),
		InssEmployerRate:     decimal.NewFromFloat(0.06),
		OvertimeMultiplier:   decimal.NewFromFloat(1.5),
		NightShiftMultiplier: decimal.NewFromFloat(1.25),
		HolidayMultiplier:    decimal.NewFromInt(2),
		PerDiemExempt:        true,
		StandardMonthlyHours: decimal.NewFromInt(176),
	}
}

// IncomeTax applies the progressive brackets to taxable income and rounds
// the result to cents. Taxable income at or below zero owes nothing.
func (t RateTable) IncomeTax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero.Round(2)
	}

	tax := decimal.Zero
	lower := decimal.Zero
	for _, bracket := range t.TaxBrackets {
		upper := taxable
		if bracket.UpperBound != nil && bracket.UpperBound.LessThan(taxable) {
			upper = *bracket.UpperBound
		}
		if upper.GreaterThan(lower) {
			tax = tax.Add(upper.Sub(lower).Mul(bracket.Rate))
		}
		if bracket.UpperBound == nil || !bracket.UpperBound.LessThan(taxable) {
			break
		}
		lower = *bracket.UpperBound
	}

	return tax.Round(2)
}

// CapInssBase clamps the contribution base to the configured ceiling, if any.
func (t RateTable) CapInssBase(base decimal.Decimal) decimal.Decimal {
	if t.InssCeiling != nil && base.GreaterThan(*t.InssCeiling) {
		return *t.InssCeiling
	}
	return base
}
