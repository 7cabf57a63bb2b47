package payslip

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Renderer produces payslip PDFs from a submitted run snapshot.
type Renderer struct {
	companyName string
}

func NewRenderer(companyName string) *Renderer {
	return &Renderer{companyName: companyName}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Render builds a one-page payslip for a single snapshot entry.
func (r *Renderer) Render(snapshot payroll.RunSnapshot, entry payroll.SnapshotEntry) ([]byte, error) {
	b := entry.PayBreakdown

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.companyName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Payslip / Recibo de Salario")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", entry.EmployeeName, entry.EmployeeCode))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", snapshot.PeriodStart, snapshot.PeriodEnd))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Pay date: %s", snapshot.PayDate))
	pdf.Ln(10)

	line := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, money(amount), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Earnings")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line(fmt.Sprintf("Regular pay (%s h)", entry.HoursInput.RegularHours.String()), b.RegularPay)
	if b.OvertimePay.IsPositive() {
		line(fmt.Sprintf("Overtime pay (%s h)", entry.HoursInput.OvertimeHours.String()), b.OvertimePay)
	}
	if b.NightShiftPay.IsPositive() {
		line(fmt.Sprintf("Night shift pay (%s h)", entry.HoursInput.NightShiftHours.String()), b.NightShiftPay)
	}
	if b.HolidayPay.IsPositive() {
		line(fmt.Sprintf("Holiday pay (%s h)", entry.HoursInput.HolidayHours.String()), b.HolidayPay)
	}
	if b.SubsidioAnual.IsPositive() {
		line("Subsidio anual (13th month)", b.SubsidioAnual)
	}
	if entry.HoursInput.Bonus.IsPositive() {
		line("Bonus", entry.HoursInput.Bonus)
	}
	if entry.HoursInput.PerDiem.IsPositive() {
		line("Per diem", entry.HoursInput.PerDiem)
	}
	if entry.HoursInput.Allowances.IsPositive() {
		line("Allowances", entry.HoursInput.Allowances)
	}
	pdf.SetFont("Helvetica", "B", 11)
	line("Gross pay", b.GrossPay)
	pdf.Ln(4)

	pdf.Cell(0, 7, "Deductions")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line("Wage income tax (WIT)", b.IncomeTax)
	line("INSS employee contribution", b.InssEmployee)
	if b.OtherDeductions.IsPositive() {
		line("Other deductions", b.OtherDeductions)
	}
	pdf.SetFont("Helvetica", "B", 11)
	line("Total deductions", b.TotalDeductions)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line("Net pay", b.NetPay)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Employer INSS contribution: %s - Total employer cost: %s",
		money(b.InssEmployer), money(b.TotalEmployerCost)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
