package payroll

import (
	"strings"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
)

// EvaluateCompliance checks one employee's record completeness against the
// fixed rule set: a payable employee needs a signed work contract, an INSS
// registration number, and a bank account to pay into. An empty result means
// fully compliant.
//
// The gate only reports; exclusion and acknowledgment-with-reason on the run
// are the two ways past it, and the issue list stays recorded on the run
// either way for audit.
func EvaluateCompliance(emp employee.Employee) []ComplianceIssue {
	var issues []ComplianceIssue

	if emp.ContractSignedAt == nil {
		issues = append(issues, IssueMissingContract)
	}
	if emp.InssNumber == nil || strings.TrimSpace(*emp.InssNumber) == "" {
		issues = append(issues, IssueMissingInssNumber)
	}
	if emp.BankAccountNumber == nil || strings.TrimSpace(*emp.BankAccountNumber) == "" {
		issues = append(issues, IssueMissingBankAccount)
	}

	return issues
}
