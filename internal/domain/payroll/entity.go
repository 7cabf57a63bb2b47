package payroll

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PayFrequency enum
type PayFrequency string

const (
	FrequencyWeekly   PayFrequency = "weekly"
	FrequencyBiweekly PayFrequency = "biweekly"
	FrequencyMonthly  PayFrequency = "monthly"
)

// RunState enum; transitions are forward-only.
type RunState string

const (
	StateDraft     RunState = "draft"
	StateReviewed  RunState = "reviewed"
	StateSubmitted RunState = "submitted"
)

// CompensationBasis - per-employee pay configuration, resolved from the
// employee record before a run is seeded.
type CompensationBasis struct {
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"` // zero means use the rate table default
	MonthlySalary      decimal.Decimal `json:"monthly_salary"`
}

// HoursInput - the editable per-employee inputs for one run. Sick and PTO
// hours are informational and unpaid.
type HoursInput struct {
	RegularHours    decimal.Decimal `json:"regular_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	NightShiftHours decimal.Decimal `json:"night_shift_hours"`
	HolidayHours    decimal.Decimal `json:"holiday_hours"`
	SickHoursUsed   decimal.Decimal `json:"sick_hours_used"`
	PTOHoursUsed    decimal.Decimal `json:"pto_hours_used"`
	Bonus           decimal.Decimal `json:"bonus"`
	PerDiem         decimal.Decimal `json:"per_diem"`
	Allowances      decimal.Decimal `json:"allowances"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
}

// Equal compares field-wise on decimal value, so "5" and "5.00" are the same
// input.
func (h HoursInput) Equal(other HoursInput) bool {
	return h.RegularHours.Equal(other.RegularHours) &&
		h.OvertimeHours.Equal(other.OvertimeHours) &&
		h.NightShiftHours.Equal(other.NightShiftHours) &&
		h.HolidayHours.Equal(other.HolidayHours) &&
		h.SickHoursUsed.Equal(other.SickHoursUsed) &&
		h.PTOHoursUsed.Equal(other.PTOHoursUsed) &&
		h.Bonus.Equal(other.Bonus) &&
		h.PerDiem.Equal(other.PerDiem) &&
		h.Allowances.Equal(other.Allowances) &&
		h.OtherDeductions.Equal(other.OtherDeductions)
}

// PayBreakdown - derived pay result, never hand-edited. All values are
// rounded to cents and re-derived whenever the entry's current HoursInput
// changes.
type PayBreakdown struct {
	RegularPay        decimal.Decimal `json:"regular_pay"`
	OvertimePay       decimal.Decimal `json:"overtime_pay"`
	NightShiftPay     decimal.Decimal `json:"night_shift_pay"`
	HolidayPay        decimal.Decimal `json:"holiday_pay"`
	SubsidioAnual     decimal.Decimal `json:"subsidio_anual"`
	GrossPay          decimal.Decimal `json:"gross_pay"`
	InssBase          decimal.Decimal `json:"inss_base"`
	InssEmployee      decimal.Decimal `json:"inss_employee"`
	InssEmployer      decimal.Decimal `json:"inss_employer"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	IncomeTax         decimal.Decimal `json:"income_tax"`
	OtherDeductions   decimal.Decimal `json:"other_deductions"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	NetPay            decimal.Decimal `json:"net_pay"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
}

// ComplianceIssue - a missing required HR document or field that blocks
// payroll inclusion absent an override.
type ComplianceIssue string

const (
	IssueMissingContract    ComplianceIssue = "missing signed work contract"
	IssueMissingInssNumber  ComplianceIssue = "missing INSS registration number"
	IssueMissingBankAccount ComplianceIssue = "missing bank account details"
)

// EmployeePayrollEntry - one employee's line in a run. Owned exclusively by
// the run aggregate; Breakdown is always derived from Current.
type EmployeePayrollEntry struct {
	EmployeeID   string
	EmployeeName string
	EmployeeCode string
	Email        *string
	Basis        CompensationBasis
	Original     HoursInput
	Current      HoursInput
	Breakdown    PayBreakdown
	IsEdited     bool
	Excluded     bool
	Issues       []ComplianceIssue
}

// RunTotals - aggregate sums over included, non-excluded entries, recomputed
// on demand.
type RunTotals struct {
	EmployeeCount     int             `json:"employee_count"`
	GrossPay          decimal.Decimal `json:"gross_pay"`
	IncomeTax         decimal.Decimal `json:"income_tax"`
	InssEmployee      decimal.Decimal `json:"inss_employee"`
	InssEmployer      decimal.Decimal `json:"inss_employer"`
	OtherDeductions   decimal.Decimal `json:"other_deductions"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	NetPay            decimal.Decimal `json:"net_pay"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
}

// RunConfig - the run-level knobs the calculator depends on.
type RunConfig struct {
	IncludeSubsidioAnual bool      `json:"include_subsidio_anual"`
	Rates                RateTable `json:"rates"`
}

// PayrollRun - the aggregate. See run.go for behavior. All mutation goes
// through methods that serialize on the embedded mutex, so a breakdown read
// is always derived from the current inputs and no caller observes a
// half-updated entry.
type PayrollRun struct {
	mu sync.Mutex

	ID                     string
	CompanyID              string
	PeriodStart            time.Time
	PeriodEnd              time.Time
	PayDate                time.Time
	Frequency              PayFrequency
	Config                 RunConfig
	State                  RunState
	ComplianceAcknowledged bool
	OverrideReason         string
	Entries                []*EmployeePayrollEntry
	CreatedAt              time.Time
	UpdatedAt              time.Time
	SubmittedAt            *time.Time
	SubmittedBy            *string
}
