package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/email"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/export"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/payslip"
)

type PayrollServiceImpl struct {
	db           *database.DB
	runRepo      payroll.PayrollRunRepository
	employeeRepo employee.EmployeeRepository
	attRepo      attendance.AttendanceRepository
	rates        payroll.RateTable
	renderer     *payslip.Renderer
	emailService email.EmailService
}

func NewPayrollService(
	db *database.DB,
	runRepo payroll.PayrollRunRepository,
	employeeRepo employee.EmployeeRepository,
	attRepo attendance.AttendanceRepository,
	rates payroll.RateTable,
	renderer *payslip.Renderer,
	emailService email.EmailService,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		runRepo:      runRepo,
		employeeRepo: employeeRepo,
		attRepo:      attRepo,
		rates:        rates,
		renderer:     renderer,
		emailService: emailService,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== RUN LIFECYCLE ==========

func (s *PayrollServiceImpl) OpenRun(ctx context.Context, req payroll.OpenRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)
	payDate, _ := time.Parse("2006-01-02", req.PayDate)

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	hours, err := s.attRepo.SumHoursForPeriod(ctx, companyID, periodStart, periodEnd, employeeIDs)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to get attendance hours: %w", err)
	}
	hoursByEmployee := make(map[string]attendance.Hours, len(hours))
	for _, h := range hours {
		hoursByEmployee[h.EmployeeID] = h
	}

	cfg := payroll.RunConfig{
		IncludeSubsidioAnual: req.IncludeSubsidioAnual,
		Rates:                s.rates,
	}

	run, err := payroll.SeedRun(
		companyID,
		periodStart, periodEnd, payDate,
		payroll.PayFrequency(req.Frequency),
		cfg,
		employees,
		hoursByEmployee,
	)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to persist payroll run: %w", err)
	}

	return run.ToResponse(), nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	run, err := s.loadRun(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return run.ToResponse(), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context) ([]payroll.RunSummaryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := s.runRepo.ListByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RunSummaryResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, run.ToSummary())
	}
	return result, nil
}

// DiscardRun deletes an unsubmitted run. Submitted runs are a durability
// boundary and can never be discarded.
func (s *PayrollServiceImpl) DiscardRun(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.runRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if run.State == payroll.StateSubmitted {
		return payroll.ErrRunImmutable
	}

	return s.runRepo.Delete(ctx, id, companyID)
}

// ========== ENTRY EDITING ==========

func (s *PayrollServiceImpl) SetEntryField(ctx context.Context, runID, employeeID string, req payroll.SetEntryFieldRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateRun(ctx, runID, func(run *payroll.PayrollRun) error {
		return run.SetField(employeeID, req.Field, req.Value)
	})
}

func (s *PayrollServiceImpl) ResetEntry(ctx context.Context, runID, employeeID string) (payroll.RunResponse, error) {
	return s.mutateRun(ctx, runID, func(run *payroll.PayrollRun) error {
		return run.Reset(employeeID)
	})
}

func (s *PayrollServiceImpl) SetEntryExcluded(ctx context.Context, runID, employeeID string, req payroll.SetExcludedRequest) (payroll.RunResponse, error) {
	return s.mutateRun(ctx, runID, func(run *payroll.PayrollRun) error {
		return run.SetExcluded(employeeID, req.Excluded)
	})
}

// ========== APPROVAL ==========

func (s *PayrollServiceImpl) Acknowledge(ctx context.Context, runID string, req payroll.AcknowledgeRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateRun(ctx, runID, func(run *payroll.PayrollRun) error {
		return run.Acknowledge(req.OverrideReason)
	})
}

func (s *PayrollServiceImpl) MarkReviewed(ctx context.Context, runID string) (payroll.RunResponse, error) {
	return s.mutateRun(ctx, runID, func(run *payroll.PayrollRun) error {
		return run.MarkReviewed()
	})
}

func (s *PayrollServiceImpl) Submit(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	if err := run.Submit(userID, time.Now()); err != nil {
		return payroll.RunResponse{}, err
	}

	if err := s.runRepo.Update(ctx, run); err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to persist submitted run: %w", err)
	}

	return run.ToResponse(), nil
}

// ========== POST-SUBMISSION COLLABORATORS ==========

func (s *PayrollServiceImpl) ExportCSV(ctx context.Context, runID string) ([]byte, error) {
	snapshot, err := s.loadSnapshot(ctx, runID)
	if err != nil {
		return nil, err
	}
	return export.RunToCSV(snapshot)
}

func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, runID, employeeID string) ([]byte, error) {
	snapshot, err := s.loadSnapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	for _, entry := range snapshot.Entries {
		if entry.EmployeeID == employeeID {
			return s.renderer.Render(snapshot, entry)
		}
	}
	return nil, fmt.Errorf("%w: %s", payroll.ErrEntryNotFound, employeeID)
}

// EmailPayslips sends each included employee with an email address their
// payslip PDF. Returns the number of payslips sent; employees without an
// email address on file are skipped.
func (s *PayrollServiceImpl) EmailPayslips(ctx context.Context, runID string) (int, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	run, err := s.runRepo.GetByID(ctx, runID, companyID)
	if err != nil {
		return 0, err
	}
	snapshot, err := run.Snapshot()
	if err != nil {
		return 0, err
	}

	emailByEmployee := make(map[string]string, len(run.Entries))
	for _, entry := range run.Entries {
		if entry.Email != nil {
			emailByEmployee[entry.EmployeeID] = *entry.Email
		}
	}

	sent := 0
	for _, entry := range snapshot.Entries {
		to, ok := emailByEmployee[entry.EmployeeID]
		if !ok {
			continue
		}

		pdf, err := s.renderer.Render(snapshot, entry)
		if err != nil {
			return sent, fmt.Errorf("failed to render payslip for %s: %w", entry.EmployeeCode, err)
		}

		err = s.emailService.SendPayslip(
			to,
			entry.EmployeeName,
			snapshot.PeriodStart,
			snapshot.PeriodEnd,
			snapshot.PayDate,
			entry.PayBreakdown.NetPay.StringFixed(2),
			pdf,
		)
		if err != nil {
			return sent, fmt.Errorf("failed to email payslip to %s: %w", entry.EmployeeCode, err)
		}
		sent++
	}

	return sent, nil
}

// ========== HELPERS ==========

func (s *PayrollServiceImpl) loadRun(ctx context.Context, runID string) (*payroll.PayrollRun, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.runRepo.GetByID(ctx, runID, companyID)
}

func (s *PayrollServiceImpl) loadSnapshot(ctx context.Context, runID string) (payroll.RunSnapshot, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return payroll.RunSnapshot{}, err
	}
	return run.Snapshot()
}

func (s *PayrollServiceImpl) mutateRun(ctx context.Context, runID string, mutate func(*payroll.PayrollRun) error) (payroll.RunResponse, error) {
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	if err := mutate(run); err != nil {
		return payroll.RunResponse{}, err
	}

	if err := s.runRepo.Update(ctx, run); err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to persist payroll run: %w", err)
	}

	return run.ToResponse(), nil
}
