package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Editable HoursInput field names, as accepted by SetField.
const (
	FieldRegularHours    = "regular_hours"
	FieldOvertimeHours   = "overtime_hours"
	FieldNightShiftHours = "night_shift_hours"
	FieldHolidayHours    = "holiday_hours"
	FieldSickHoursUsed   = "sick_hours_used"
	FieldPTOHoursUsed    = "pto_hours_used"
	FieldBonus           = "bonus"
	FieldPerDiem         = "per_diem"
	FieldAllowances      = "allowances"
	FieldOtherDeductions = "other_deductions"
)

// BasisFor resolves an employee record into the calculator's compensation
// basis.
func BasisFor(emp employee.Employee) CompensationBasis {
	basis := CompensationBasis{}
	if emp.HourlyRate != nil {
		basis.HourlyRate = *emp.HourlyRate
	}
	if emp.MonthlySalary != nil {
		basis.MonthlySalary = *emp.MonthlySalary
	}
	if emp.OvertimeMultiplier != nil {
		basis.OvertimeMultiplier = *emp.OvertimeMultiplier
	}
	return basis
}

// SeedRun opens a draft run for a period: one entry per employee with
// original = current = the attendance-derived hours, breakdowns computed,
// and compliance issues recorded. Employees with no attendance in the
// period are seeded with zero hours, not skipped; exclusion is the
// operator's call.
func SeedRun(
	companyID string,
	periodStart, periodEnd, payDate time.Time,
	frequency PayFrequency,
	cfg RunConfig,
	employees []employee.Employee,
	hoursByEmployee map[string]attendance.Hours,
) (*PayrollRun, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	now := time.Now()
	run := &PayrollRun{
		ID:          id.String(),
		CompanyID:   companyID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PayDate:     payDate,
		Frequency:   frequency,
		Config:      cfg,
		State:       StateDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, emp := range employees {
		seeded := HoursInput{}
		if hours, ok := hoursByEmployee[emp.ID]; ok {
			seeded = HoursInput{
				RegularHours:    hours.RegularHours,
				OvertimeHours:   hours.OvertimeHours,
				NightShiftHours: hours.NightShiftHours,
				HolidayHours:    hours.HolidayHours,
				SickHoursUsed:   hours.SickHoursUsed,
				PTOHoursUsed:    hours.PTOHoursUsed,
			}
		}

		entry := &EmployeePayrollEntry{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			EmployeeCode: emp.EmployeeCode,
			Email:        emp.Email,
			Basis:        BasisFor(emp),
			Original:     seeded,
			Current:      seeded,
			Issues:       EvaluateCompliance(emp),
		}

		breakdown, err := Compute(entry.Basis, entry.Current, cfg)
		if err != nil {
			return nil, fmt.Errorf("employee %s (%s): %w", emp.EmployeeCode, emp.FullName, err)
		}
		entry.Breakdown = breakdown

		run.Entries = append(run.Entries, entry)
	}

	return run, nil
}

func (r *PayrollRun) findEntry(employeeID string) (*EmployeePayrollEntry, error) {
	for _, entry := range r.Entries {
		if entry.EmployeeID == employeeID {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, employeeID)
}

func (r *PayrollRun) guardMutable() error {
	if r.State == StateSubmitted {
		return ErrRunImmutable
	}
	return nil
}

// SetField mutates one editable field of an entry's current inputs and
// synchronously re-derives the breakdown and the edited flag.
func (r *PayrollRun) SetField(employeeID, field string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.guardMutable(); err != nil {
		return err
	}
	entry, err := r.findEntry(employeeID)
	if err != nil {
		return err
	}

	updated := entry.Current
	switch field {
	case FieldRegularHours:
		updated.RegularHours = value
	case FieldOvertimeHours:
		updated.OvertimeHours = value
	case FieldNightShiftHours:
		updated.NightShiftHours = value
	case FieldHolidayHours:
		updated.HolidayHours = value
	case FieldSickHoursUsed:
		updated.SickHoursUsed = value
	case FieldPTOHoursUsed:
		updated.PTOHoursUsed = value
	case FieldBonus:
		updated.Bonus = value
	case FieldPerDiem:
		updated.PerDiem = value
	case FieldAllowances:
		updated.Allowances = value
	case FieldOtherDeductions:
		updated.OtherDeductions = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	breakdown, err := Compute(entry.Basis, updated, r.Config)
	if err != nil {
		return err
	}

	entry.Current = updated
	entry.Breakdown = breakdown
	entry.IsEdited = !entry.Current.Equal(entry.Original)
	r.UpdatedAt = time.Now()
	return nil
}

// Reset restores an entry's current inputs to the seeded originals.
func (r *PayrollRun) Reset(employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.guardMutable(); err != nil {
		return err
	}
	entry, err := r.findEntry(employeeID)
	if err != nil {
		return err
	}

	breakdown, err := Compute(entry.Basis, entry.Original, r.Config)
	if err != nil {
		return err
	}

	entry.Current = entry.Original
	entry.Breakdown = breakdown
	entry.IsEdited = false
	r.UpdatedAt = time.Now()
	return nil
}

// SetExcluded toggles an employee out of (or back into) the payable set.
// Excluded entries are skipped in totals and in the submission payload but
// stay on the run for review.
func (r *PayrollRun) SetExcluded(employeeID string, excluded bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.guardMutable(); err != nil {
		return err
	}
	entry, err := r.findEntry(employeeID)
	if err != nil {
		return err
	}

	entry.Excluded = excluded
	r.UpdatedAt = time.Now()
	return nil
}

// Acknowledge records the run-level compliance override. The reason is a
// hard precondition: an acknowledgment without a written justification is
// not an auditable decision.
func (r *PayrollRun) Acknowledge(reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.guardMutable(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyOverride
	}

	r.ComplianceAcknowledged = true
	r.OverrideReason = strings.TrimSpace(reason)
	r.UpdatedAt = time.Now()
	return nil
}

// MarkReviewed advances draft → reviewed. The transition is advisory; no
// invariant is enforced beyond the breakdowns being current, which holds by
// construction.
func (r *PayrollRun) MarkReviewed() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State == StateSubmitted {
		return ErrRunImmutable
	}
	if r.State != StateDraft {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, StateReviewed)
	}

	r.State = StateReviewed
	r.UpdatedAt = time.Now()
	return nil
}

// blockedEntries returns the included entries whose issues would block
// submission absent an acknowledged override.
func (r *PayrollRun) blockedEntries() []BlockedEntry {
	var blocked []BlockedEntry
	for _, entry := range r.Entries {
		if entry.Excluded || len(entry.Issues) == 0 {
			continue
		}
		blocked = append(blocked, BlockedEntry{
			EmployeeID:   entry.EmployeeID,
			EmployeeName: entry.EmployeeName,
			Issues:       entry.Issues,
		})
	}
	return blocked
}

// Submit crosses the run's one irreversible boundary: reviewed → submitted.
// It fails with ComplianceBlockedError while any included entry has
// unresolved issues and the run carries no acknowledged override. On
// success the run and every entry are frozen.
func (r *PayrollRun) Submit(submittedBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State == StateSubmitted {
		return ErrRunImmutable
	}
	if r.State != StateReviewed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, StateSubmitted)
	}

	if blocked := r.blockedEntries(); len(blocked) > 0 {
		if !r.ComplianceAcknowledged || strings.TrimSpace(r.OverrideReason) == "" {
			return &ComplianceBlockedError{Blocked: blocked}
		}
	}

	r.State = StateSubmitted
	r.SubmittedAt = &at
	r.SubmittedBy = &submittedBy
	r.UpdatedAt = at
	return nil
}

// Totals sums the breakdowns of all included, non-excluded entries. It is
// recomputed on every call so it can never disagree with entry edits.
func (r *PayrollRun) Totals() RunTotals {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalsLocked()
}

func (r *PayrollRun) totalsLocked() RunTotals {
	totals := RunTotals{
		GrossPay:          decimal.Zero.Round(2),
		IncomeTax:         decimal.Zero.Round(2),
		InssEmployee:      decimal.Zero.Round(2),
		InssEmployer:      decimal.Zero.Round(2),
		OtherDeductions:   decimal.Zero.Round(2),
		TotalDeductions:   decimal.Zero.Round(2),
		NetPay:            decimal.Zero.Round(2),
		TotalEmployerCost: decimal.Zero.Round(2),
	}
	for _, entry := range r.Entries {
		if entry.Excluded {
			continue
		}
		totals.EmployeeCount++
		totals.GrossPay = totals.GrossPay.Add(entry.Breakdown.GrossPay)
		totals.IncomeTax = totals.IncomeTax.Add(entry.Breakdown.IncomeTax)
		totals.InssEmployee = totals.InssEmployee.Add(entry.Breakdown.InssEmployee)
		totals.InssEmployer = totals.InssEmployer.Add(entry.Breakdown.InssEmployer)
		totals.OtherDeductions = totals.OtherDeductions.Add(entry.Breakdown.OtherDeductions)
		totals.TotalDeductions = totals.TotalDeductions.Add(entry.Breakdown.TotalDeductions)
		totals.NetPay = totals.NetPay.Add(entry.Breakdown.NetPay)
		totals.TotalEmployerCost = totals.TotalEmployerCost.Add(entry.Breakdown.TotalEmployerCost)
	}
	return totals
}
