package employee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateEmployeeRequestValidate(t *testing.T) {
	valid := CreateEmployeeRequest{
		EmployeeCode: "E001",
		FullName:     "Ana Soares",
		HourlyRate:   decPtr("5"),
		HireDate:     "2025-01-15",
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateEmployeeRequest)
		wantErr string // failing field, empty for valid
	}{
		{
			name:   "valid hourly",
			mutate: func(r *CreateEmployeeRequest) {},
		},
		{
			name: "valid salaried",
			mutate: func(r *CreateEmployeeRequest) {
				r.HourlyRate = nil
				r.MonthlySalary = decPtr("880")
			},
		},
		{
			name:    "missing code",
			mutate:  func(r *CreateEmployeeRequest) { r.EmployeeCode = "" },
			wantErr: "employee_code",
		},
		{
			name:    "missing name",
			mutate:  func(r *CreateEmployeeRequest) { r.FullName = "  " },
			wantErr: "full_name",
		},
		{
			name:    "no compensation basis",
			mutate:  func(r *CreateEmployeeRequest) { r.HourlyRate = nil },
			wantErr: "hourly_rate",
		},
		{
			name:    "negative rate",
			mutate:  func(r *CreateEmployeeRequest) { r.HourlyRate = decPtr("-5") },
			wantErr: "hourly_rate",
		},
		{
			name: "bad email",
			mutate: func(r *CreateEmployeeRequest) {
				bad := "not-an-email"
				r.Email = &bad
			},
			wantErr: "email",
		},
		{
			name:    "overtime multiplier below statutory floor",
			mutate:  func(r *CreateEmployeeRequest) { r.OvertimeMultiplier = decPtr("0.5") },
			wantErr: "overtime_multiplier",
		},
		{
			name:    "bad hire date",
			mutate:  func(r *CreateEmployeeRequest) { r.HireDate = "15/01/2025" },
			wantErr: "hire_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.wantErr, errs[0].Field)
		})
	}
}
