package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// SumHoursForPeriod implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) SumHoursForPeriod(ctx context.Context, companyID string, periodStart, periodEnd time.Time, employeeIDs []string) ([]attendance.Hours, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id,
			COALESCE(SUM(regular_hours), 0),
			COALESCE(SUM(overtime_hours), 0),
			COALESCE(SUM(night_shift_hours), 0),
			COALESCE(SUM(holiday_hours), 0),
			COALESCE(SUM(sick_hours_used), 0),
			COALESCE(SUM(pto_hours_used), 0)
		FROM attendance_records
		WHERE company_id = $1
			AND work_date >= $2 AND work_date <= $3
			AND employee_id = ANY($4)
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, companyID, periodStart, periodEnd, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance hours: %w", err)
	}
	defer rows.Close()

	var result []attendance.Hours
	for rows.Next() {
		var h attendance.Hours
		err := rows.Scan(
			&h.EmployeeID,
			&h.RegularHours, &h.OvertimeHours, &h.NightShiftHours,
			&h.HolidayHours, &h.SickHoursUsed, &h.PTOHoursUsed,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateRecord implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, company_id, work_date,
			regular_hours, overtime_hours, night_shift_hours, holiday_hours,
			sick_hours_used, pto_hours_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, employee_id, company_id, work_date,
			regular_hours, overtime_hours, night_shift_hours, holiday_hours,
			sick_hours_used, pto_hours_used, created_at, updated_at
	`

	var created attendance.Record
	err := q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.CompanyID, rec.WorkDate,
		rec.RegularHours, rec.OvertimeHours, rec.NightShiftHours, rec.HolidayHours,
		rec.SickHoursUsed, rec.PTOHoursUsed,
	).Scan(
		&created.ID, &created.EmployeeID, &created.CompanyID, &created.WorkDate,
		&created.RegularHours, &created.OvertimeHours, &created.NightShiftHours, &created.HolidayHours,
		&created.SickHoursUsed, &created.PTOHoursUsed, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}
