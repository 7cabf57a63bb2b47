package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/employee"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
)

type EmployeeService interface {
	Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error)
	ListActive(ctx context.Context) ([]employee.EmployeeResponse, error)
}

type EmployeeServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(db *database.DB, employeeRepo employee.EmployeeRepository) EmployeeService {
	return &EmployeeServiceImpl{db: db, employeeRepo: employeeRepo}
}

func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	hireDate, _ := employee.ParseDate(req.HireDate)

	emp := employee.Employee{
		ID:                    id.String(),
		CompanyID:             companyID,
		EmployeeCode:          req.EmployeeCode,
		FullName:              req.FullName,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		HourlyRate:            req.HourlyRate,
		MonthlySalary:         req.MonthlySalary,
		OvertimeMultiplier:    req.OvertimeMultiplier,
		InssNumber:            req.InssNumber,
		BankName:              req.BankName,
		BankAccountHolderName: req.BankAccountHolderName,
		BankAccountNumber:     req.BankAccountNumber,
		HireDate:              hireDate,
		EmploymentStatus:      employee.EmploymentStatusActive,
	}
	if req.ContractSignedAt != nil {
		signed, _ := time.Parse("2006-01-02", *req.ContractSignedAt)
		emp.ContractSignedAt = &signed
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(emp), nil
}

func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.EmployeeResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		result = append(result, employee.ToResponse(emp))
	}
	return result, nil
}
