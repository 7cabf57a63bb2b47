package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
)

func strPtr(s string) *string { return &s }

func compliantEmployee(id, code, name string) employee.Employee {
	rate := dec("5")
	signed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return employee.Employee{
		ID:                id,
		CompanyID:         "company-1",
		EmployeeCode:      code,
		FullName:          name,
		Email:             strPtr(code + "@example.tl"),
		HourlyRate:        &rate,
		ContractSignedAt:  &signed,
		InssNumber:        strPtr("12345678"),
		BankAccountNumber: strPtr("0001-2345"),
		EmploymentStatus:  employee.EmploymentStatusActive,
	}
}

func seedTestRun(t *testing.T, employees []employee.Employee, hours map[string]attendance.Hours) *PayrollRun {
	t.Helper()
	run, err := SeedRun(
		"company-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		FrequencyMonthly,
		defaultConfig(),
		employees,
		hours,
	)
	require.NoError(t, err)
	return run
}

func TestSeedRun(t *testing.T) {
	employees := []employee.Employee{
		compliantEmployee("emp-1", "E001", "Ana Soares"),
		compliantEmployee("emp-2", "E002", "Joao Pereira"),
	}
	hours := map[string]attendance.Hours{
		"emp-1": {RegularHours: dec("160"), OvertimeHours: dec("10")},
	}

	run := seedTestRun(t, employees, hours)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StateDraft, run.State)
	require.Len(t, run.Entries, 2)

	first := run.Entries[0]
	assert.True(t, first.Original.Equal(first.Current))
	assert.False(t, first.IsEdited)
	assert.True(t, dec("806.00").Equal(first.Breakdown.NetPay), "net pay: %s", first.Breakdown.NetPay)

	// No attendance in the period seeds zero hours, not a missing entry.
	second := run.Entries[1]
	assert.Equal(t, "emp-2", second.EmployeeID)
	assert.True(t, second.Breakdown.GrossPay.IsZero())
	assert.Empty(t, second.Issues)
}

func TestSeedRunRecordsComplianceIssues(t *testing.T) {
	incomplete := compliantEmployee("emp-3", "E003", "Maria Gusmao")
	incomplete.ContractSignedAt = nil
	incomplete.InssNumber = strPtr("  ")

	run := seedTestRun(t, []employee.Employee{incomplete}, nil)

	require.Len(t, run.Entries, 1)
	assert.ElementsMatch(t,
		[]ComplianceIssue{IssueMissingContract, IssueMissingInssNumber},
		run.Entries[0].Issues,
	)
}

func TestSetFieldRecomputesAndFlagsEdit(t *testing.T) {
	emp := compliantEmployee("emp-1", "E001", "Ana Soares")
	run := seedTestRun(t, []employee.Employee{emp}, map[string]attendance.Hours{
		"emp-1": {RegularHours: dec("160")},
	})

	require.NoError(t, run.SetField("emp-1", FieldOvertimeHours, dec("10")))

	entry := run.Entries[0]
	assert.True(t, entry.IsEdited)
	assert.True(t, dec("10").Equal(entry.Current.OvertimeHours))
	assert.True(t, dec("75.00").Equal(entry.Breakdown.OvertimePay), "overtime pay: %s", entry.Breakdown.OvertimePay)

	// Setting the field back to its seeded value clears the flag.
	require.NoError(t, run.SetField("emp-1", FieldOvertimeHours, decimal.Zero))
	assert.False(t, entry.IsEdited)
}

func TestSetFieldUnknownField(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, nil)

	err := run.SetField("emp-1", "commute_hours", dec("1"))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetFieldUnknownEmployee(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, nil)

	err := run.SetField("emp-9", FieldBonus, dec("1"))
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestResetRestoresSeededInputs(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, map[string]attendance.Hours{
		"emp-1": {RegularHours: dec("160")},
	})

	require.NoError(t, run.SetField("emp-1", FieldBonus, dec("100")))
	require.NoError(t, run.SetField("emp-1", FieldRegularHours, dec("150")))
	require.True(t, run.Entries[0].IsEdited)

	require.NoError(t, run.Reset("emp-1"))

	entry := run.Entries[0]
	assert.False(t, entry.IsEdited)
	assert.True(t, entry.Current.Equal(entry.Original))
	assert.True(t, dec("800.00").Equal(entry.Breakdown.GrossPay), "gross pay: %s", entry.Breakdown.GrossPay)
}

func TestExclusionRemovesFromTotals(t *testing.T) {
	employees := []employee.Employee{
		compliantEmployee("emp-1", "E001", "Ana Soares"),
		compliantEmployee("emp-2", "E002", "Joao Pereira"),
	}
	hours := map[string]attendance.Hours{
		"emp-1": {RegularHours: dec("160")},
		"emp-2": {RegularHours: dec("160")},
	}
	run := seedTestRun(t, employees, hours)

	both := run.Totals()
	assert.Equal(t, 2, both.EmployeeCount)
	assert.True(t, dec("1600.00").Equal(both.GrossPay), "gross: %s", both.GrossPay)

	require.NoError(t, run.SetExcluded("emp-2", true))

	one := run.Totals()
	assert.Equal(t, 1, one.EmployeeCount)
	assert.True(t, dec("800.00").Equal(one.GrossPay), "gross: %s", one.GrossPay)

	require.NoError(t, run.SetExcluded("emp-2", false))
	assert.Equal(t, 2, run.Totals().EmployeeCount)
}

func TestAcknowledgeRequiresReason(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, nil)

	assert.ErrorIs(t, run.Acknowledge(""), ErrEmptyOverride)
	assert.ErrorIs(t, run.Acknowledge("   "), ErrEmptyOverride)
	assert.False(t, run.ComplianceAcknowledged)

	require.NoError(t, run.Acknowledge("  contract signing scheduled next week  "))
	assert.True(t, run.ComplianceAcknowledged)
	assert.Equal(t, "contract signing scheduled next week", run.OverrideReason)
}

func TestStateTransitions(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, nil)

	// Submission straight from draft is not allowed.
	err := run.Submit("user-1", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, run.MarkReviewed())
	assert.Equal(t, StateReviewed, run.State)

	// Review is not repeatable.
	assert.ErrorIs(t, run.MarkReviewed(), ErrInvalidTransition)

	submittedAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, run.Submit("user-1", submittedAt))
	assert.Equal(t, StateSubmitted, run.State)
	require.NotNil(t, run.SubmittedAt)
	assert.Equal(t, submittedAt, *run.SubmittedAt)
	require.NotNil(t, run.SubmittedBy)
	assert.Equal(t, "user-1", *run.SubmittedBy)
}

func TestSubmitBlockedByComplianceIssues(t *testing.T) {
	incomplete := compliantEmployee("emp-1", "E001", "Ana Soares")
	incomplete.BankAccountNumber = nil

	run := seedTestRun(t, []employee.Employee{
		incomplete,
		compliantEmployee("emp-2", "E002", "Joao Pereira"),
	}, nil)
	require.NoError(t, run.MarkReviewed())

	err := run.Submit("user-1", time.Now())
	require.Error(t, err)

	var blocked *ComplianceBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Len(t, blocked.Blocked, 1)
	assert.Equal(t, "emp-1", blocked.Blocked[0].EmployeeID)
	assert.Equal(t, []ComplianceIssue{IssueMissingBankAccount}, blocked.Blocked[0].Issues)
	assert.Equal(t, StateReviewed, run.State)
}

func TestSubmitAfterExcludingBlockedEntry(t *testing.T) {
	incomplete := compliantEmployee("emp-1", "E001", "Ana Soares")
	incomplete.InssNumber = nil

	run := seedTestRun(t, []employee.Employee{incomplete}, nil)
	require.NoError(t, run.SetExcluded("emp-1", true))
	require.NoError(t, run.MarkReviewed())

	assert.NoError(t, run.Submit("user-1", time.Now()))
}

func TestSubmitAfterAcknowledgedOverride(t *testing.T) {
	incomplete := compliantEmployee("emp-1", "E001", "Ana Soares")
	incomplete.ContractSignedAt = nil

	run := seedTestRun(t, []employee.Employee{incomplete}, nil)
	require.NoError(t, run.Acknowledge("new hire, contract countersignature pending"))
	require.NoError(t, run.MarkReviewed())

	require.NoError(t, run.Submit("user-1", time.Now()))

	// The issue list stays on the entry for audit.
	assert.Equal(t, []ComplianceIssue{IssueMissingContract}, run.Entries[0].Issues)
}

func TestSubmittedRunIsImmutable(t *testing.T) {
	run := seedTestRun(t, []employee.Employee{compliantEmployee("emp-1", "E001", "Ana Soares")}, nil)
	require.NoError(t, run.MarkReviewed())
	require.NoError(t, run.Submit("user-1", time.Now()))

	assert.ErrorIs(t, run.SetField("emp-1", FieldBonus, dec("1")), ErrRunImmutable)
	assert.ErrorIs(t, run.Reset("emp-1"), ErrRunImmutable)
	assert.ErrorIs(t, run.SetExcluded("emp-1", true), ErrRunImmutable)
	assert.ErrorIs(t, run.Acknowledge("late reason"), ErrRunImmutable)
	assert.ErrorIs(t, run.MarkReviewed(), ErrRunImmutable)
	assert.ErrorIs(t, run.Submit("user-2", time.Now()), ErrRunImmutable)
}

func TestTotalsMatchEntrySums(t *testing.T) {
	employees := []employee.Employee{
		compliantEmployee("emp-1", "E001", "Ana Soares"),
		compliantEmployee("emp-2", "E002", "Joao Pereira"),
		compliantEmployee("emp-3", "E003", "Maria Gusmao"),
	}
	hours := map[string]attendance.Hours{
		"emp-1": {RegularHours: dec("160"), OvertimeHours: dec("12.5")},
		"emp-2": {RegularHours: dec("152"), NightShiftHours: dec("24")},
		"emp-3": {RegularHours: dec("176"), HolidayHours: dec("8")},
	}
	run := seedTestRun(t, employees, hours)
	require.NoError(t, run.SetField("emp-2", FieldBonus, dec("55.55")))

	totals := run.Totals()

	gross := decimal.Zero
	net := decimal.Zero
	for _, entry := range run.Entries {
		gross = gross.Add(entry.Breakdown.GrossPay)
		net = net.Add(entry.Breakdown.NetPay)
	}
	assert.True(t, gross.Equal(totals.GrossPay), "gross: %s vs %s", gross, totals.GrossPay)
	assert.True(t, net.Equal(totals.NetPay), "net: %s vs %s", net, totals.NetPay)
	assert.True(t, totals.GrossPay.Sub(totals.TotalDeductions).Equal(totals.NetPay))
}
