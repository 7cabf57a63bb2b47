package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/kmanek-hr/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Run lifecycle
	OpenRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	DiscardRun(w http.ResponseWriter, r *http.Request)
	MarkReviewed(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)

	// Entry edits
	SetEntryField(w http.ResponseWriter, r *http.Request)
	ResetEntry(w http.ResponseWriter, r *http.Request)
	SetEntryExcluded(w http.ResponseWriter, r *http.Request)

	// Compliance
	Acknowledge(w http.ResponseWriter, r *http.Request)

	// Outputs
	ExportCSV(w http.ResponseWriter, r *http.Request)
	RenderPayslip(w http.ResponseWriter, r *http.Request)
	EmailPayslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUN LIFECYCLE ==========

func (h *payrollHandlerImpl) OpenRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.OpenRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.OpenRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run opened", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListRuns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DiscardRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	if err := h.payrollService.DiscardRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run discarded", nil)
}

func (h *payrollHandlerImpl) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.MarkReviewed(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run marked as reviewed", result)
}

func (h *payrollHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.Submit(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run submitted", result)
}

// ========== ENTRY EDITS ==========

func (h *payrollHandlerImpl) SetEntryField(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeId")
	if runID == "" || employeeID == "" {
		response.BadRequest(w, "Run ID and employee ID are required", nil)
		return
	}

	var req payroll.SetEntryFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.SetEntryField(r.Context(), runID, employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ResetEntry(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeId")
	if runID == "" || employeeID == "" {
		response.BadRequest(w, "Run ID and employee ID are required", nil)
		return
	}

	result, err := h.payrollService.ResetEntry(r.Context(), runID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SetEntryExcluded(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeId")
	if runID == "" || employeeID == "" {
		response.BadRequest(w, "Run ID and employee ID are required", nil)
		return
	}

	var req payroll.SetExcludedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.SetEntryExcluded(r.Context(), runID, employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== COMPLIANCE ==========

func (h *payrollHandlerImpl) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	var req payroll.AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Acknowledge(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Compliance issues acknowledged", result)
}

// ========== OUTPUTS ==========

func (h *payrollHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	data, err := h.payrollService.ExportCSV(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-run-%s.csv"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *payrollHandlerImpl) RenderPayslip(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeId")
	if runID == "" || employeeID == "" {
		response.BadRequest(w, "Run ID and employee ID are required", nil)
		return
	}

	data, err := h.payrollService.RenderPayslip(r.Context(), runID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s.pdf"`, employeeID))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *payrollHandlerImpl) EmailPayslips(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	sent, err := h.payrollService.EmailPayslips(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Payslips emailed to %d employees", sent), map[string]int{"sent": sent})
}
