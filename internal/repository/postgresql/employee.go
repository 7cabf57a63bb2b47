package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, company_id, employee_code, full_name, email, phone_number,
	hourly_rate, monthly_salary, overtime_multiplier,
	contract_signed_at, inss_number, bank_name, bank_account_holder_name, bank_account_number,
	hire_date, employment_status, created_at, updated_at, deleted_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.PhoneNumber,
		&emp.HourlyRate, &emp.MonthlySalary, &emp.OvertimeMultiplier,
		&emp.ContractSignedAt, &emp.InssNumber, &emp.BankName, &emp.BankAccountHolderName, &emp.BankAccountNumber,
		&emp.HireDate, &emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, company_id, employee_code, full_name, email, phone_number,
			hourly_rate, monthly_salary, overtime_multiplier,
			contract_signed_at, inss_number, bank_name, bank_account_holder_name, bank_account_number,
			hire_date, employment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16
		)
		RETURNING ` + employeeColumns

	row := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.CompanyID, newEmployee.EmployeeCode, newEmployee.FullName,
		newEmployee.Email, newEmployee.PhoneNumber,
		newEmployee.HourlyRate, newEmployee.MonthlySalary, newEmployee.OvertimeMultiplier,
		newEmployee.ContractSignedAt, newEmployee.InssNumber, newEmployee.BankName,
		newEmployee.BankAccountHolderName, newEmployee.BankAccountNumber,
		newEmployee.HireDate, newEmployee.EmploymentStatus,
	)

	created, err := scanEmployee(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "employees_company_id_employee_code_key":
				return employee.Employee{}, employee.ErrEmployeeCodeExists
			case "employees_company_id_email_key":
				return employee.Employee{}, employee.ErrEmailExists
			}
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}

	return emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = $2 AND deleted_at IS NULL
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET full_name = $1, email = $2, phone_number = $3,
			hourly_rate = $4, monthly_salary = $5, overtime_multiplier = $6,
			contract_signed_at = $7, inss_number = $8, bank_name = $9,
			bank_account_holder_name = $10, bank_account_number = $11,
			employment_status = $12, updated_at = NOW()
		WHERE id = $13 AND company_id = $14 AND deleted_at IS NULL
		RETURNING ` + employeeColumns

	row := q.QueryRow(ctx, query,
		emp.FullName, emp.Email, emp.PhoneNumber,
		emp.HourlyRate, emp.MonthlySalary, emp.OvertimeMultiplier,
		emp.ContractSignedAt, emp.InssNumber, emp.BankName,
		emp.BankAccountHolderName, emp.BankAccountNumber,
		emp.EmploymentStatus, emp.ID, emp.CompanyID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee %s: %w", emp.ID, err)
	}

	return updated, nil
}
