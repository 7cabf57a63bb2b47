package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
)

func TestRunToCSV(t *testing.T) {
	snapshot := payroll.RunSnapshot{
		RunID:       "run-1",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
		PayDate:     "2025-07-05",
		Frequency:   "monthly",
		Entries: []payroll.SnapshotEntry{
			{
				EmployeeID:   "emp-1",
				EmployeeCode: "E001",
				EmployeeName: "Ana Soares",
				HoursInput: payroll.HoursInput{
					RegularHours:  decimal.NewFromInt(160),
					OvertimeHours: decimal.NewFromInt(10),
				},
				PayBreakdown: payroll.PayBreakdown{
					GrossPay: decimal.RequireFromString("875.00"),
					NetPay:   decimal.RequireFromString("806.00"),
				},
			},
		},
		Totals: payroll.RunTotals{
			EmployeeCount: 1,
			GrossPay:      decimal.RequireFromString("875.00"),
			NetPay:        decimal.RequireFromString("806.00"),
		},
	}

	data, err := RunToCSV(snapshot)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "employee_id", header[0])
	assert.Equal(t, "net_pay", header[17])

	row := records[1]
	assert.Equal(t, "E001", row[1])
	assert.Equal(t, "160", row[3])
	assert.Equal(t, "875.00", row[10])
	assert.Equal(t, "806.00", row[17])

	totals := records[2]
	assert.Equal(t, "TOTALS", totals[2])
	assert.Equal(t, "875.00", totals[10])
	assert.Equal(t, "806.00", totals[17])
}

func TestRunToCSVEmptyRun(t *testing.T) {
	data, err := RunToCSV(payroll.RunSnapshot{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	// Header and totals only.
	require.Len(t, records, 2)
}
