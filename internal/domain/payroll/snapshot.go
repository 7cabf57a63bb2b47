package payroll

import "time"

const dateLayout = "2006-01-02"

// ToResponse maps the run to its full API representation, including
// excluded entries and original vs. current inputs.
func (r *PayrollRun) ToResponse() RunResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	resp := RunResponse{
		ID:                     r.ID,
		CompanyID:              r.CompanyID,
		PeriodStart:            r.PeriodStart.Format(dateLayout),
		PeriodEnd:              r.PeriodEnd.Format(dateLayout),
		PayDate:                r.PayDate.Format(dateLayout),
		Frequency:              string(r.Frequency),
		IncludeSubsidioAnual:   r.Config.IncludeSubsidioAnual,
		State:                  string(r.State),
		ComplianceAcknowledged: r.ComplianceAcknowledged,
		OverrideReason:         r.OverrideReason,
		Totals:                 r.totalsLocked(),
		SubmittedBy:            r.SubmittedBy,
	}
	if r.SubmittedAt != nil {
		str := r.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &str
	}

	resp.Entries = make([]EntryResponse, 0, len(r.Entries))
	for _, entry := range r.Entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			EmployeeID:   entry.EmployeeID,
			EmployeeName: entry.EmployeeName,
			EmployeeCode: entry.EmployeeCode,
			Original:     entry.Original,
			Current:      entry.Current,
			Breakdown:    entry.Breakdown,
			IsEdited:     entry.IsEdited,
			Excluded:     entry.Excluded,
			Issues:       entry.Issues,
		})
	}
	return resp
}

// ToSummary maps the run to its list representation.
func (r *PayrollRun) ToSummary() RunSummaryResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := r.totalsLocked()
	return RunSummaryResponse{
		ID:            r.ID,
		PeriodStart:   r.PeriodStart.Format(dateLayout),
		PeriodEnd:     r.PeriodEnd.Format(dateLayout),
		PayDate:       r.PayDate.Format(dateLayout),
		Frequency:     string(r.Frequency),
		State:         string(r.State),
		EmployeeCount: totals.EmployeeCount,
		Totals:        totals,
	}
}

// Snapshot returns the frozen payload handed to downstream collaborators.
// It is only available once the run has crossed the submission boundary;
// exporters, payslip rendering and email delivery must never observe an
// unsubmitted run.
func (r *PayrollRun) Snapshot() (RunSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StateSubmitted {
		return RunSnapshot{}, ErrRunNotSubmitted
	}

	snapshot := RunSnapshot{
		RunID:       r.ID,
		PeriodStart: r.PeriodStart.Format(dateLayout),
		PeriodEnd:   r.PeriodEnd.Format(dateLayout),
		PayDate:     r.PayDate.Format(dateLayout),
		Frequency:   string(r.Frequency),
		Totals:      r.totalsLocked(),
	}
	for _, entry := range r.Entries {
		if entry.Excluded {
			continue
		}
		snapshot.Entries = append(snapshot.Entries, SnapshotEntry{
			EmployeeID:   entry.EmployeeID,
			EmployeeName: entry.EmployeeName,
			EmployeeCode: entry.EmployeeCode,
			HoursInput:   entry.Current,
			PayBreakdown: entry.Breakdown,
			Excluded:     entry.Excluded,
		})
	}
	return snapshot, nil
}
