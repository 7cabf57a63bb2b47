package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
)

// RunToCSV flattens a submitted run snapshot into one CSV row per included
// employee plus a totals row. Column names are part of the export contract.
func RunToCSV(snapshot payroll.RunSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"employee_id", "employee_code", "employee_name",
		"regular_hours", "overtime_hours", "night_shift_hours", "holiday_hours",
		"bonus", "per_diem", "allowances",
		"gross_pay", "subsidio_anual", "income_tax", "inss_employee", "inss_employer",
		"other_deductions", "total_deductions", "net_pay", "total_employer_cost",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, entry := range snapshot.Entries {
		h := entry.HoursInput
		b := entry.PayBreakdown
		row := []string{
			entry.EmployeeID, entry.EmployeeCode, entry.EmployeeName,
			h.RegularHours.String(), h.OvertimeHours.String(), h.NightShiftHours.String(), h.HolidayHours.String(),
			h.Bonus.StringFixed(2), h.PerDiem.StringFixed(2), h.Allowances.StringFixed(2),
			b.GrossPay.StringFixed(2), b.SubsidioAnual.StringFixed(2), b.IncomeTax.StringFixed(2),
			b.InssEmployee.StringFixed(2), b.InssEmployer.StringFixed(2),
			b.OtherDeductions.StringFixed(2), b.TotalDeductions.StringFixed(2),
			b.NetPay.StringFixed(2), b.TotalEmployerCost.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	t := snapshot.Totals
	totalsRow := []string{
		"", "", "TOTALS",
		"", "", "", "",
		"", "", "",
		t.GrossPay.StringFixed(2), "", t.IncomeTax.StringFixed(2),
		t.InssEmployee.StringFixed(2), t.InssEmployer.StringFixed(2),
		t.OtherDeductions.StringFixed(2), t.TotalDeductions.StringFixed(2),
		t.NetPay.StringFixed(2), t.TotalEmployerCost.StringFixed(2),
	}
	if err := w.Write(totalsRow); err != nil {
		return nil, fmt.Errorf("failed to write csv totals: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
