package payroll

import (
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type OpenRunRequest struct {
	PeriodStart          string `json:"period_start"` // YYYY-MM-DD
	PeriodEnd            string `json:"period_end"`   // YYYY-MM-DD
	PayDate              string `json:"pay_date"`     // YYYY-MM-DD
	Frequency            string `json:"frequency"`    // weekly | biweekly | monthly
	IncludeSubsidioAnual bool   `json:"include_subsidio_anual"`
}

func (r *OpenRunRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}
	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be in YYYY-MM-DD format"})
	}
	switch PayFrequency(r.Frequency) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
	default:
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be 'weekly', 'biweekly' or 'monthly'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetEntryFieldRequest struct {
	Field string          `json:"field"`
	Value decimal.Decimal `json:"value"`
}

func (r *SetEntryFieldRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs = append(errs, validator.ValidationError{Field: "field", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetExcludedRequest struct {
	Excluded bool `json:"excluded"`
}

type AcknowledgeRequest struct {
	OverrideReason string `json:"override_reason"`
}

func (r *AcknowledgeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OverrideReason) {
		errs = append(errs, validator.ValidationError{Field: "override_reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type EntryResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	EmployeeCode string            `json:"employee_code"`
	Original     HoursInput        `json:"original"`
	Current      HoursInput        `json:"current"`
	Breakdown    PayBreakdown      `json:"breakdown"`
	IsEdited     bool              `json:"is_edited"`
	Excluded     bool              `json:"excluded"`
	Issues       []ComplianceIssue `json:"issues,omitempty"`
}

type RunResponse struct {
	ID                     string          `json:"id"`
	CompanyID              string          `json:"company_id"`
	PeriodStart            string          `json:"period_start"`
	PeriodEnd              string          `json:"period_end"`
	PayDate                string          `json:"pay_date"`
	Frequency              string          `json:"frequency"`
	IncludeSubsidioAnual   bool            `json:"include_subsidio_anual"`
	State                  string          `json:"state"`
	ComplianceAcknowledged bool            `json:"compliance_acknowledged"`
	OverrideReason         string          `json:"override_reason,omitempty"`
	Entries                []EntryResponse `json:"entries"`
	Totals                 RunTotals       `json:"totals"`
	SubmittedAt            *string         `json:"submitted_at,omitempty"`
	SubmittedBy            *string         `json:"submitted_by,omitempty"`
}

type RunSummaryResponse struct {
	ID            string    `json:"id"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	PayDate       string    `json:"pay_date"`
	Frequency     string    `json:"frequency"`
	State         string    `json:"state"`
	EmployeeCount int       `json:"employee_count"`
	Totals        RunTotals `json:"totals"`
}

// ========== SUBMISSION SNAPSHOT ==========

// SnapshotEntry and RunSnapshot form the shape handed to downstream
// collaborators (payslip PDF, CSV export, email) once a run is submitted.
// Field names and numeric semantics here are a compatibility surface.
type SnapshotEntry struct {
	EmployeeID   string       `json:"employee_id"`
	EmployeeName string       `json:"employee_name"`
	EmployeeCode string       `json:"employee_code"`
	HoursInput   HoursInput   `json:"hours_input"`
	PayBreakdown PayBreakdown `json:"pay_breakdown"`
	Excluded     bool         `json:"excluded"`
}

type RunSnapshot struct {
	RunID       string          `json:"run_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	PayDate     string          `json:"pay_date"`
	Frequency   string          `json:"frequency"`
	Entries     []SnapshotEntry `json:"entries"`
	Totals      RunTotals       `json:"totals"`
}
