package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrEntryNotFound     = errors.New("payroll entry not found for employee")
	ErrRunImmutable      = errors.New("payroll run is submitted and can no longer be modified")
	ErrRunNotSubmitted   = errors.New("payroll run has not been submitted")
	ErrInvalidTransition = errors.New("invalid payroll run state transition")
	ErrUnknownField      = errors.New("unknown payroll input field")
	ErrEmptyOverride     = errors.New("override reason is required to acknowledge compliance issues")
)

// BlockedEntry identifies one employee whose unresolved issues block
// submission.
type BlockedEntry struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Issues       []ComplianceIssue `json:"issues"`
}

// ComplianceBlockedError is returned when submission is attempted while
// included entries still have unresolved, unacknowledged issues. It names
// every blocking employee so the operator can fix, exclude, or override
// inline.
type ComplianceBlockedError struct {
	Blocked []BlockedEntry
}

func (e *ComplianceBlockedError) Error() string {
	names := make([]string, 0, len(e.Blocked))
	for _, b := range e.Blocked {
		names = append(names, fmt.Sprintf("%s (%d issues)", b.EmployeeName, len(b.Issues)))
	}
	return "submission blocked by unresolved compliance issues: " + strings.Join(names, ", ")
}
