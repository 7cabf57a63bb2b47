package response

import (
	"errors"
	"net/http"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/auth"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Submission blocked by unresolved compliance issues; the payload
	// carries every blocking employee for inline resolution.
	var blocked *payroll.ComplianceBlockedError
	if errors.As(err, &blocked) {
		Conflict(w, "COMPLIANCE_BLOCKED", blocked.Error(), blocked.Blocked)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "CONFLICT", "Employee code already exists", nil)
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "CONFLICT", "Email already registered in this company", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrRunImmutable):
		Conflict(w, "RUN_IMMUTABLE", "Payroll run is submitted and can no longer be modified", nil)
	case errors.Is(err, payroll.ErrRunNotSubmitted):
		Conflict(w, "RUN_NOT_SUBMITTED", "Payroll run has not been submitted", nil)
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, "INVALID_TRANSITION", "Invalid payroll run state transition", nil)
	case errors.Is(err, payroll.ErrUnknownField):
		BadRequest(w, "Unknown payroll input field", nil)
	case errors.Is(err, payroll.ErrEmptyOverride):
		ValidationError(w, map[string]string{"override_reason": "Override reason is required"})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
