package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kmanek-hr/payroll-backend-go/internal/config"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/kmanek-hr/payroll-backend-go/internal/handler/http"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/database"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/email"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/kmanek-hr/payroll-backend-go/internal/pkg/payslip"
	"github.com/kmanek-hr/payroll-backend-go/internal/repository/postgresql"
	authService "github.com/kmanek-hr/payroll-backend-go/internal/service/auth"
	employeeService "github.com/kmanek-hr/payroll-backend-go/internal/service/employee"
	payrollService "github.com/kmanek-hr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRunRepo := postgresql.NewPayrollRunRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payslipRenderer := payslip.NewRenderer(cfg.App.CompanyName)
	emailService, err := email.NewEmailService(cfg.SMTP, cfg.App.CompanyName)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authSvc := authService.NewAuthService(db, userRepo, jwtService)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRunRepo,
		employeeRepo,
		attendanceRepo,
		payroll.DefaultTimorLeste(),
		payslipRenderer,
		emailService,
	)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		authHandler,
		employeeHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
