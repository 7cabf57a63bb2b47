package employee

import "context"

// EmployeeRepository defines data access methods for employees.
// All methods include companyID to prevent cross-company data access.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
}
