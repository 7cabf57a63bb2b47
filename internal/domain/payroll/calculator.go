package payroll

import (
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// clamped returns a copy with every field floored at zero. Negative inputs
// are operator typos; they must never propagate into pay, and computing with
// the clamped copy keeps the calculator total on negative input identical to
// the zero-input case.
func (h HoursInput) clamped() HoursInput {
	clamp := func(d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			return decimal.Zero
		}
		return d
	}
	return HoursInput{
		RegularHours:    clamp(h.RegularHours),
		OvertimeHours:   clamp(h.OvertimeHours),
		NightShiftHours: clamp(h.NightShiftHours),
		HolidayHours:    clamp(h.HolidayHours),
		SickHoursUsed:   clamp(h.SickHoursUsed),
		PTOHoursUsed:    clamp(h.PTOHoursUsed),
		Bonus:           clamp(h.Bonus),
		PerDiem:         clamp(h.PerDiem),
		Allowances:      clamp(h.Allowances),
		OtherDeductions: clamp(h.OtherDeductions),
	}
}

// resolveHourlyRate picks the canonical hourly rate: the configured one, or
// one derived from the monthly salary over the standard month.
func (b CompensationBasis) resolveHourlyRate(rates RateTable) decimal.Decimal {
	if b.HourlyRate.IsPositive() {
		return b.HourlyRate
	}
	if b.MonthlySalary.IsPositive() && rates.StandardMonthlyHours.IsPositive() {
		return b.MonthlySalary.DivRound(rates.StandardMonthlyHours, 4)
	}
	return decimal.Zero
}

// Compute derives a PayBreakdown from one employee's compensation basis and
// hours for a period. It is pure and deterministic: identical inputs always
// produce an identical breakdown, and every monetary value is rounded to
// cents at the component level so the accounting identities
//
//	netPay            = grossPay - totalDeductions
//	totalEmployerCost = grossPay + inssEmployer
//
// hold to the cent with no drift across repeated calls.
//
// A missing hourly rate while paid hours are present is a configuration
// error surfaced to the caller, never silently computed as zero pay.
func Compute(basis CompensationBasis, hours HoursInput, cfg RunConfig) (PayBreakdown, error) {
	h := hours.clamped()
	rates := cfg.Rates

	rate := basis.resolveHourlyRate(rates)
	paidHours := h.RegularHours.Add(h.OvertimeHours).Add(h.NightShiftHours).Add(h.HolidayHours)
	if paidHours.IsPositive() && !rate.IsPositive() {
		return PayBreakdown{}, validator.ValidationErrors{
			{Field: "hourly_rate", Message: "must be positive when paid hours are present"},
		}
	}

	otMultiplier := rates.OvertimeMultiplier
	if basis.OvertimeMultiplier.IsPositive() {
		otMultiplier = basis.OvertimeMultiplier
	}

	regularPay := h.RegularHours.Mul(rate).Round(2)
	overtimePay := h.OvertimeHours.Mul(rate).Mul(otMultiplier).Round(2)
	nightShiftPay := h.NightShiftHours.Mul(rate).Mul(rates.NightShiftMultiplier).Round(2)
	holidayPay := h.HolidayHours.Mul(rate).Mul(rates.HolidayMultiplier).Round(2)

	bonus := h.Bonus.Round(2)
	perDiem := h.PerDiem.Round(2)
	allowances := h.Allowances.Round(2)
	otherDeductions := h.OtherDeductions.Round(2)

	grossExclSubsidio := regularPay.Add(overtimePay).Add(nightShiftPay).Add(holidayPay).
		Add(bonus).Add(perDiem).Add(allowances)

	// Pro-rated monthly accrual of the 13th-month salary; it is paid in the
	// period, so it joins the taxable and INSS bases.
	subsidioAnual := decimal.Zero.Round(2)
	if cfg.IncludeSubsidioAnual {
		subsidioAnual = grossExclSubsidio.DivRound(decimal.NewFromInt(12), 2)
	}

	grossPay := grossExclSubsidio.Add(subsidioAnual)

	inssBase := grossPay
	if rates.PerDiemExempt {
		inssBase = inssBase.Sub(perDiem)
	}
	cappedBase := rates.CapInssBase(inssBase)
	inssEmployee := cappedBase.Mul(rates.InssEmployeeRate).Round(2)
	inssEmployer := cappedBase.Mul(rates.InssEmployerRate).Round(2)

	taxableIncome := grossPay.Sub(inssEmployee).Sub(otherDeductions)
	if rates.PerDiemExempt {
		taxableIncome = taxableIncome.Sub(perDiem)
	}
	incomeTax := rates.IncomeTax(taxableIncome)

	totalDeductions := incomeTax.Add(inssEmployee).Add(otherDeductions)
	netPay := grossPay.Sub(totalDeductions)
	totalEmployerCost := grossPay.Add(inssEmployer)

	return PayBreakdown{
		RegularPay:        regularPay,
		OvertimePay:       overtimePay,
		NightShiftPay:     nightShiftPay,
		HolidayPay:        holidayPay,
		SubsidioAnual:     subsidioAnual,
		GrossPay:          grossPay.Round(2),
		InssBase:          cappedBase.Round(2),
		InssEmployee:      inssEmployee,
		InssEmployer:      inssEmployer,
		TaxableIncome:     taxableIncome.Round(2),
		IncomeTax:         incomeTax,
		OtherDeductions:   otherDeductions,
		TotalDeductions:   totalDeductions.Round(2),
		NetPay:            netPay.Round(2),
		TotalEmployerCost: totalEmployerCost.Round(2),
	}, nil
}
