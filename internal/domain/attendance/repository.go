package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance.
type AttendanceRepository interface {
	// SumHoursForPeriod aggregates hours per employee over [periodStart,
	// periodEnd]. Employees with no records in the period are simply absent
	// from the result.
	SumHoursForPeriod(ctx context.Context, companyID string, periodStart, periodEnd time.Time, employeeIDs []string) ([]Hours, error)
	CreateRecord(ctx context.Context, rec Record) (Record, error)
}
