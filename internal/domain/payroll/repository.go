package payroll

import "context"

// PayrollRunRepository defines persistence for payroll runs. All methods
// include companyID to prevent cross-company data access. Persistence-level
// concurrency (optimistic locking on save) is the storage implementation's
// concern; the aggregate itself enforces the submitted-is-frozen invariant.
type PayrollRunRepository interface {
	Create(ctx context.Context, run *PayrollRun) error
	GetByID(ctx context.Context, id string, companyID string) (*PayrollRun, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]*PayrollRun, error)
	Update(ctx context.Context, run *PayrollRun) error
	Delete(ctx context.Context, id string, companyID string) error
}

// PayrollService is the application-facing contract implemented in
// internal/service/payroll.
type PayrollService interface {
	OpenRun(ctx context.Context, req OpenRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string) (RunResponse, error)
	ListRuns(ctx context.Context) ([]RunSummaryResponse, error)
	DiscardRun(ctx context.Context, id string) error
	SetEntryField(ctx context.Context, runID, employeeID string, req SetEntryFieldRequest) (RunResponse, error)
	ResetEntry(ctx context.Context, runID, employeeID string) (RunResponse, error)
	SetEntryExcluded(ctx context.Context, runID, employeeID string, req SetExcludedRequest) (RunResponse, error)
	Acknowledge(ctx context.Context, runID string, req AcknowledgeRequest) (RunResponse, error)
	MarkReviewed(ctx context.Context, runID string) (RunResponse, error)
	Submit(ctx context.Context, runID string) (RunResponse, error)
	ExportCSV(ctx context.Context, runID string) ([]byte, error)
	RenderPayslip(ctx context.Context, runID, employeeID string) ([]byte, error)
	EmailPayslips(ctx context.Context, runID string) (int, error)
}
