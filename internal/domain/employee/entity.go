package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FullName     string
	Email        *string
	PhoneNumber  *string

	// Compensation basis; at least one of the two must be set for the
	// employee to be payable. HourlyRate is canonical when both are present.
	HourlyRate         *decimal.Decimal
	MonthlySalary      *decimal.Decimal
	OvertimeMultiplier *decimal.Decimal // per-contract override of the statutory rate

	// Document completeness, checked by the payroll compliance gate.
	ContractSignedAt      *time.Time
	InssNumber            *string
	BankName              *string
	BankAccountHolderName *string
	BankAccountNumber     *string

	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
