package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
)

type payrollRunRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.PayrollRunRepository {
	return &payrollRunRepositoryImpl{db: db}
}

// Create implements payroll.PayrollRunRepository.
func (r *payrollRunRepositoryImpl) Create(ctx context.Context, run *payroll.PayrollRun) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		configJSON, err := json.Marshal(run.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal run config: %w", err)
		}

		query := `
			INSERT INTO payroll_runs (
				id, company_id, period_start, period_end, pay_date, frequency,
				config, state, compliance_acknowledged, override_reason,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err = q.Exec(txCtx, query,
			run.ID, run.CompanyID, run.PeriodStart, run.PeriodEnd, run.PayDate, run.Frequency,
			configJSON, run.State, run.ComplianceAcknowledged, run.OverrideReason,
			run.CreatedAt, run.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll run: %w", err)
		}

		return r.insertEntries(txCtx, run)
	})
}

func (r *payrollRunRepositoryImpl) insertEntries(ctx context.Context, run *payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_run_entries (
			run_id, employee_id, employee_name, employee_code, email, position,
			basis, original, current, breakdown, is_edited, excluded, issues
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i, entry := range run.Entries {
		basisJSON, err := json.Marshal(entry.Basis)
		if err != nil {
			return fmt.Errorf("failed to marshal basis: %w", err)
		}
		originalJSON, err := json.Marshal(entry.Original)
		if err != nil {
			return fmt.Errorf("failed to marshal original hours: %w", err)
		}
		currentJSON, err := json.Marshal(entry.Current)
		if err != nil {
			return fmt.Errorf("failed to marshal current hours: %w", err)
		}
		breakdownJSON, err := json.Marshal(entry.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to marshal breakdown: %w", err)
		}
		issuesJSON, err := json.Marshal(entry.Issues)
		if err != nil {
			return fmt.Errorf("failed to marshal issues: %w", err)
		}

		_, err = q.Exec(ctx, query,
			run.ID, entry.EmployeeID, entry.EmployeeName, entry.EmployeeCode, entry.Email, i,
			basisJSON, originalJSON, currentJSON, breakdownJSON,
			entry.IsEdited, entry.Excluded, issuesJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry for employee %s: %w", entry.EmployeeID, err)
		}
	}
	return nil
}

// GetByID implements payroll.PayrollRunRepository.
func (r *payrollRunRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (*payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_start, period_end, pay_date, frequency,
			config, state, compliance_acknowledged, override_reason,
			created_at, updated_at, submitted_at, submitted_by
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	run := &payroll.PayrollRun{}
	var configJSON []byte
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&run.ID, &run.CompanyID, &run.PeriodStart, &run.PeriodEnd, &run.PayDate, &run.Frequency,
		&configJSON, &run.State, &run.ComplianceAcknowledged, &run.OverrideReason,
		&run.CreatedAt, &run.UpdatedAt, &run.SubmittedAt, &run.SubmittedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get payroll run %s: %w", id, err)
	}

	if err := json.Unmarshal(configJSON, &run.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run config: %w", err)
	}

	if err := r.loadEntries(ctx, run); err != nil {
		return nil, err
	}

	return run, nil
}

func (r *payrollRunRepositoryImpl) loadEntries(ctx context.Context, run *payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, employee_name, employee_code, email,
			basis, original, current, breakdown, is_edited, excluded, issues
		FROM payroll_run_entries
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load run entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry := &payroll.EmployeePayrollEntry{}
		var basisJSON, originalJSON, currentJSON, breakdownJSON, issuesJSON []byte
		err := rows.Scan(
			&entry.EmployeeID, &entry.EmployeeName, &entry.EmployeeCode, &entry.Email,
			&basisJSON, &originalJSON, &currentJSON, &breakdownJSON,
			&entry.IsEdited, &entry.Excluded, &issuesJSON,
		)
		if err != nil {
			return err
		}

		if err := json.Unmarshal(basisJSON, &entry.Basis); err != nil {
			return fmt.Errorf("failed to unmarshal basis: %w", err)
		}
		if err := json.Unmarshal(originalJSON, &entry.Original); err != nil {
			return fmt.Errorf("failed to unmarshal original hours: %w", err)
		}
		if err := json.Unmarshal(currentJSON, &entry.Current); err != nil {
			return fmt.Errorf("failed to unmarshal current hours: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &entry.Breakdown); err != nil {
			return fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
		if err := json.Unmarshal(issuesJSON, &entry.Issues); err != nil {
			return fmt.Errorf("failed to unmarshal issues: %w", err)
		}

		run.Entries = append(run.Entries, entry)
	}

	return rows.Err()
}

// ListByCompanyID implements payroll.PayrollRunRepository.
func (r *payrollRunRepositoryImpl) ListByCompanyID(ctx context.Context, companyID string) ([]*payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id
		FROM payroll_runs
		WHERE company_id = $1
		ORDER BY period_start DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]*payroll.PayrollRun, 0, len(ids))
	for _, id := range ids {
		run, err := r.GetByID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Update implements payroll.PayrollRunRepository. Submitted runs are frozen
// by the aggregate; the state predicate here is defense in depth against a
// stale write racing a submission.
func (r *payrollRunRepositoryImpl) Update(ctx context.Context, run *payroll.PayrollRun) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		configJSON, err := json.Marshal(run.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal run config: %w", err)
		}

		query := `
			UPDATE payroll_runs
			SET period_start = $1, period_end = $2, pay_date = $3, frequency = $4,
				config = $5, state = $6, compliance_acknowledged = $7, override_reason = $8,
				updated_at = $9, submitted_at = $10, submitted_by = $11
			WHERE id = $12 AND company_id = $13
				AND (state <> 'submitted' OR $6 = 'submitted')
			RETURNING id
		`
		var updatedID string
		err = q.QueryRow(txCtx, query,
			run.PeriodStart, run.PeriodEnd, run.PayDate, run.Frequency,
			configJSON, run.State, run.ComplianceAcknowledged, run.OverrideReason,
			run.UpdatedAt, run.SubmittedAt, run.SubmittedBy,
			run.ID, run.CompanyID,
		).Scan(&updatedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return payroll.ErrRunNotFound
			}
			return fmt.Errorf("failed to update payroll run %s: %w", run.ID, err)
		}

		// Entries are replaced wholesale; the run owns them.
		if _, err := q.Exec(txCtx, `DELETE FROM payroll_run_entries WHERE run_id = $1`, run.ID); err != nil {
			return fmt.Errorf("failed to clear run entries: %w", err)
		}
		return r.insertEntries(txCtx, run)
	})
}

// Delete implements payroll.PayrollRunRepository.
func (r *payrollRunRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM payroll_run_entries WHERE run_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete run entries: %w", err)
		}

		tag, err := q.Exec(txCtx, `
			DELETE FROM payroll_runs
			WHERE id = $1 AND company_id = $2 AND state <> 'submitted'
		`, id, companyID)
		if err != nil {
			return fmt.Errorf("failed to delete payroll run %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrRunNotFound
		}
		return nil
	})
}
