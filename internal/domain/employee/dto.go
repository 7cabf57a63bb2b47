package employee

import (
	"time"

	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode          string           `json:"employee_code"`
	FullName              string           `json:"full_name"`
	Email                 *string          `json:"email,omitempty"`
	PhoneNumber           *string          `json:"phone_number,omitempty"`
	HourlyRate            *decimal.Decimal `json:"hourly_rate,omitempty"`
	MonthlySalary         *decimal.Decimal `json:"monthly_salary,omitempty"`
	OvertimeMultiplier    *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	ContractSignedAt      *string          `json:"contract_signed_at,omitempty"` // YYYY-MM-DD
	InssNumber            *string          `json:"inss_number,omitempty"`
	BankName              *string          `json:"bank_name,omitempty"`
	BankAccountHolderName *string          `json:"bank_account_holder_name,omitempty"`
	BankAccountNumber     *string          `json:"bank_account_number,omitempty"`
	HireDate              string           `json:"hire_date"` // YYYY-MM-DD
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is not a valid email address"})
	}
	if r.HourlyRate != nil && !r.HourlyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be positive"})
	}
	if r.MonthlySalary != nil && !r.MonthlySalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must be positive"})
	}
	if r.HourlyRate == nil && r.MonthlySalary == nil {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "either hourly_rate or monthly_salary is required"})
	}
	if r.OvertimeMultiplier != nil && r.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be at least 1"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.ContractSignedAt != nil {
		if _, ok := validator.IsValidDate(*r.ContractSignedAt); !ok {
			errs = append(errs, validator.ValidationError{Field: "contract_signed_at", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                    string           `json:"id"`
	CompanyID             string           `json:"company_id"`
	EmployeeCode          string           `json:"employee_code"`
	FullName              string           `json:"full_name"`
	Email                 *string          `json:"email,omitempty"`
	PhoneNumber           *string          `json:"phone_number,omitempty"`
	HourlyRate            *decimal.Decimal `json:"hourly_rate,omitempty"`
	MonthlySalary         *decimal.Decimal `json:"monthly_salary,omitempty"`
	OvertimeMultiplier    *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	ContractSignedAt      *string          `json:"contract_signed_at,omitempty"`
	InssNumber            *string          `json:"inss_number,omitempty"`
	BankName              *string          `json:"bank_name,omitempty"`
	BankAccountHolderName *string          `json:"bank_account_holder_name,omitempty"`
	BankAccountNumber     *string          `json:"bank_account_number,omitempty"`
	HireDate              string           `json:"hire_date"`
	EmploymentStatus      string           `json:"employment_status"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                    e.ID,
		CompanyID:             e.CompanyID,
		EmployeeCode:          e.EmployeeCode,
		FullName:              e.FullName,
		Email:                 e.Email,
		PhoneNumber:           e.PhoneNumber,
		HourlyRate:            e.HourlyRate,
		MonthlySalary:         e.MonthlySalary,
		OvertimeMultiplier:    e.OvertimeMultiplier,
		InssNumber:            e.InssNumber,
		BankName:              e.BankName,
		BankAccountHolderName: e.BankAccountHolderName,
		BankAccountNumber:     e.BankAccountNumber,
		HireDate:              e.HireDate.Format("2006-01-02"),
		EmploymentStatus:      string(e.EmploymentStatus),
	}
	if e.ContractSignedAt != nil {
		str := e.ContractSignedAt.Format("2006-01-02")
		resp.ContractSignedAt = &str
	}
	return resp
}

// ParseDate is a convenience for the YYYY-MM-DD request fields.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
