package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmanek-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/payslip"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/validator"
)

const testCompanyID = "company-1"

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"company_id": testCompanyID,
		"user_id":    "user-1",
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ========== FAKES ==========

type fakeRunRepo struct {
	runs map[string]*payroll.PayrollRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*payroll.PayrollRun)}
}

func (r *fakeRunRepo) Create(_ context.Context, run *payroll.PayrollRun) error {
	r.runs[run.ID] = run
	return nil
}

func (r *fakeRunRepo) GetByID(_ context.Context, id string, companyID string) (*payroll.PayrollRun, error) {
	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID {
		return nil, payroll.ErrRunNotFound
	}
	return run, nil
}

func (r *fakeRunRepo) ListByCompanyID(_ context.Context, companyID string) ([]*payroll.PayrollRun, error) {
	var out []*payroll.PayrollRun
	for _, run := range r.runs {
		if run.CompanyID == companyID {
			out = append(out, run)
		}
	}
	return out, nil
}

func (r *fakeRunRepo) Update(_ context.Context, run *payroll.PayrollRun) error {
	if _, ok := r.runs[run.ID]; !ok {
		return payroll.ErrRunNotFound
	}
	r.runs[run.ID] = run
	return nil
}

func (r *fakeRunRepo) Delete(_ context.Context, id string, companyID string) error {
	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID {
		return payroll.ErrRunNotFound
	}
	delete(r.runs, id)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees = append(r.employees, emp)
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.ID == id && emp.CompanyID == companyID {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.CompanyID == companyID && emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

type fakeAttendanceRepo struct {
	hours []attendance.Hours
}

func (r *fakeAttendanceRepo) SumHoursForPeriod(_ context.Context, _ string, _, _ time.Time, _ []string) ([]attendance.Hours, error) {
	return r.hours, nil
}

func (r *fakeAttendanceRepo) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

type fakeEmailService struct {
	sentTo []string
}

func (f *fakeEmailService) SendPayslip(to, _, _, _, _, _ string, payslipPDF []byte) error {
	f.sentTo = append(f.sentTo, to)
	return nil
}

// ========== FIXTURES ==========

func strPtr(s string) *string { return &s }

func testEmployee(id, code, name string, withEmail bool) employee.Employee {
	rate := decimal.NewFromInt(5)
	signed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	emp := employee.Employee{
		ID:                id,
		CompanyID:         testCompanyID,
		EmployeeCode:      code,
		FullName:          name,
		HourlyRate:        &rate,
		ContractSignedAt:  &signed,
		InssNumber:        strPtr("12345678"),
		BankAccountNumber: strPtr("0001-2345"),
		EmploymentStatus:  employee.EmploymentStatusActive,
	}
	if withEmail {
		emp.Email = strPtr(code + "@example.tl")
	}
	return emp
}

type serviceFixture struct {
	svc      payroll.PayrollService
	runRepo  *fakeRunRepo
	emails   *fakeEmailService
	employee *fakeEmployeeRepo
}

func newServiceFixture(employees []employee.Employee, hours []attendance.Hours) *serviceFixture {
	runRepo := newFakeRunRepo()
	empRepo := &fakeEmployeeRepo{employees: employees}
	emails := &fakeEmailService{}

	svc := NewPayrollService(
		nil,
		runRepo,
		empRepo,
		&fakeAttendanceRepo{hours: hours},
		payroll.DefaultTimorLeste(),
		payslip.NewRenderer("Test Company"),
		emails,
	)
	return &serviceFixture{svc: svc, runRepo: runRepo, emails: emails, employee: empRepo}
}

func openTestRun(t *testing.T, ctx context.Context, f *serviceFixture) payroll.RunResponse {
	t.Helper()
	resp, err := f.svc.OpenRun(ctx, payroll.OpenRunRequest{
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
		PayDate:     "2025-07-05",
		Frequency:   "monthly",
	})
	require.NoError(t, err)
	return resp
}

// ========== TESTS ==========

func TestOpenRunSeedsFromAttendance(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{
			testEmployee("emp-1", "E001", "Ana Soares", true),
			testEmployee("emp-2", "E002", "Joao Pereira", true),
		},
		[]attendance.Hours{
			{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160), OvertimeHours: decimal.NewFromInt(10)},
		},
	)

	resp := openTestRun(t, ctx, f)

	assert.Equal(t, "draft", resp.State)
	assert.Equal(t, testCompanyID, resp.CompanyID)
	require.Len(t, resp.Entries, 2)
	assert.True(t, decimal.RequireFromString("806.00").Equal(resp.Entries[0].Breakdown.NetPay),
		"net pay: %s", resp.Entries[0].Breakdown.NetPay)
	assert.True(t, resp.Entries[1].Breakdown.GrossPay.IsZero())

	// The draft is persisted, not just returned.
	assert.Len(t, f.runRepo.runs, 1)
}

func TestOpenRunRejectsInvalidPeriod(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(nil, nil)

	_, err := f.svc.OpenRun(ctx, payroll.OpenRunRequest{
		PeriodStart: "2025-06-30",
		PeriodEnd:   "2025-06-01",
		PayDate:     "2025-07-05",
		Frequency:   "monthly",
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "period_end", errs[0].Field)
}

func TestOpenRunRequiresAuthContext(t *testing.T) {
	f := newServiceFixture(nil, nil)

	_, err := f.svc.OpenRun(context.Background(), payroll.OpenRunRequest{
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
		PayDate:     "2025-07-05",
		Frequency:   "monthly",
	})
	assert.Error(t, err)
}

func TestSetEntryFieldPersistsRecomputedRun(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		[]attendance.Hours{{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160)}},
	)
	run := openTestRun(t, ctx, f)

	resp, err := f.svc.SetEntryField(ctx, run.ID, "emp-1", payroll.SetEntryFieldRequest{
		Field: payroll.FieldBonus,
		Value: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 1)
	assert.True(t, resp.Entries[0].IsEdited)
	assert.True(t, decimal.RequireFromString("900.00").Equal(resp.Entries[0].Breakdown.GrossPay),
		"gross: %s", resp.Entries[0].Breakdown.GrossPay)

	stored := f.runRepo.runs[run.ID]
	assert.True(t, stored.Entries[0].IsEdited)
}

func TestSubmitLifecycle(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		[]attendance.Hours{{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160)}},
	)
	run := openTestRun(t, ctx, f)

	_, err := f.svc.MarkReviewed(ctx, run.ID)
	require.NoError(t, err)

	resp, err := f.svc.Submit(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "submitted", resp.State)
	require.NotNil(t, resp.SubmittedBy)
	assert.Equal(t, "user-1", *resp.SubmittedBy)

	// Edits and discards bounce off the submitted run.
	_, err = f.svc.SetEntryField(ctx, run.ID, "emp-1", payroll.SetEntryFieldRequest{
		Field: payroll.FieldBonus,
		Value: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, payroll.ErrRunImmutable)
	assert.ErrorIs(t, f.svc.DiscardRun(ctx, run.ID), payroll.ErrRunImmutable)
}

func TestDiscardDraftRun(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		nil,
	)
	run := openTestRun(t, ctx, f)

	require.NoError(t, f.svc.DiscardRun(ctx, run.ID))
	assert.Empty(t, f.runRepo.runs)

	assert.ErrorIs(t, f.svc.DiscardRun(ctx, run.ID), payroll.ErrRunNotFound)
}

func TestExportCSVRequiresSubmission(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		nil,
	)
	run := openTestRun(t, ctx, f)

	_, err := f.svc.ExportCSV(ctx, run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotSubmitted)
}

func TestExportCSVAfterSubmission(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		[]attendance.Hours{{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160)}},
	)
	run := openTestRun(t, ctx, f)

	_, err := f.svc.MarkReviewed(ctx, run.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, run.ID)
	require.NoError(t, err)

	data, err := f.svc.ExportCSV(ctx, run.ID)
	require.NoError(t, err)
	assert.Contains(t, string(data), "E001")
	assert.Contains(t, string(data), "TOTALS")
}

func TestRenderPayslip(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		[]attendance.Hours{{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160)}},
	)
	run := openTestRun(t, ctx, f)

	_, err := f.svc.MarkReviewed(ctx, run.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, run.ID)
	require.NoError(t, err)

	pdf, err := f.svc.RenderPayslip(ctx, run.ID, "emp-1")
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	_, err = f.svc.RenderPayslip(ctx, run.ID, "emp-9")
	assert.ErrorIs(t, err, payroll.ErrEntryNotFound)
}

func TestEmailPayslipsSkipsMissingAddressesAndExcluded(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{
			testEmployee("emp-1", "E001", "Ana Soares", true),
			testEmployee("emp-2", "E002", "Joao Pereira", false),
			testEmployee("emp-3", "E003", "Maria Gusmao", true),
		},
		[]attendance.Hours{
			{EmployeeID: "emp-1", RegularHours: decimal.NewFromInt(160)},
			{EmployeeID: "emp-2", RegularHours: decimal.NewFromInt(160)},
			{EmployeeID: "emp-3", RegularHours: decimal.NewFromInt(160)},
		},
	)
	run := openTestRun(t, ctx, f)

	_, err := f.svc.SetEntryExcluded(ctx, run.ID, "emp-3", payroll.SetExcludedRequest{Excluded: true})
	require.NoError(t, err)
	_, err = f.svc.MarkReviewed(ctx, run.ID)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, run.ID)
	require.NoError(t, err)

	sent, err := f.svc.EmailPayslips(ctx, run.ID)
	require.NoError(t, err)

	// emp-2 has no address, emp-3 is excluded from the run.
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"E001@example.tl"}, f.emails.sentTo)
}

func TestRunsAreCompanyScoped(t *testing.T) {
	ctx := authedContext(t)
	f := newServiceFixture(
		[]employee.Employee{testEmployee("emp-1", "E001", "Ana Soares", true)},
		nil,
	)
	run := openTestRun(t, ctx, f)

	// A caller from another company never sees the run.
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"company_id": "company-2",
		"user_id":    "user-9",
		"type":       "access",
	})
	require.NoError(t, err)
	otherCtx := jwtauth.NewContext(context.Background(), token, nil)

	_, err = f.svc.GetRun(otherCtx, run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}
