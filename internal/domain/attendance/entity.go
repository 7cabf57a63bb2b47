package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hours - per-employee hours worked over a pay period, aggregated from the
// attendance records. This is the shape payroll runs are seeded from.
type Hours struct {
	EmployeeID      string
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	NightShiftHours decimal.Decimal
	HolidayHours    decimal.Decimal
	SickHoursUsed   decimal.Decimal
	PTOHoursUsed    decimal.Decimal
}

// Record - one day of attendance for an employee.
type Record struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	WorkDate        time.Time
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	NightShiftHours decimal.Decimal
	HolidayHours    decimal.Decimal
	SickHoursUsed   decimal.Decimal
	PTOHoursUsed    decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
