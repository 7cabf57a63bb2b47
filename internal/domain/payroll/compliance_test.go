package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCompliance(t *testing.T) {
	t.Run("complete record has no issues", func(t *testing.T) {
		emp := compliantEmployee("emp-1", "E001", "Ana Soares")
		assert.Empty(t, EvaluateCompliance(emp))
	})

	t.Run("missing everything", func(t *testing.T) {
		emp := compliantEmployee("emp-1", "E001", "Ana Soares")
		emp.ContractSignedAt = nil
		emp.InssNumber = nil
		emp.BankAccountNumber = nil

		assert.ElementsMatch(t, []ComplianceIssue{
			IssueMissingContract,
			IssueMissingInssNumber,
			IssueMissingBankAccount,
		}, EvaluateCompliance(emp))
	})

	t.Run("whitespace-only values count as missing", func(t *testing.T) {
		emp := compliantEmployee("emp-1", "E001", "Ana Soares")
		emp.InssNumber = strPtr("   ")
		emp.BankAccountNumber = strPtr("")

		assert.ElementsMatch(t, []ComplianceIssue{
			IssueMissingInssNumber,
			IssueMissingBankAccount,
		}, EvaluateCompliance(emp))
	})
}
