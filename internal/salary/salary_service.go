package salary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	salaryerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	GetAll(ctx context.Context) ([]SalaryResponse, error)
	GetByID(ctx context.Context, id string) (SalaryResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error)
	GetLatestByEmployee(ctx context.Context, employeeID string) (SalaryResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	Delete(ctx context.Context, id string) error

	// ProvisionInitial writes the zero-amount first salary row for a
	// freshly created employee. Safe to call more than once.
	ProvisionInitial(ctx context.Context, employeeID string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	if req.BasicSalary < 0 {
		return SalaryResponse{}, salaryerrors.ErrNegativeSalary
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidEffectiveDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &Salary{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		BasicSalary:   req.BasicSalary,
		EffectiveDate: effectiveDate,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create salary persist failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "salary.create",
			EntityType: "salary",
			EntityID:   row.ID.String(),
			Details:    fmt.Sprintf("employee_id=%s basic_salary=%.2f", employeeID, req.BasicSalary),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	row.CreatedAt = time.Now().UTC()

	s.logger.Info("create salary success",
		zap.String("salary_id", row.ID.String()),
		zap.String("employee_id", employeeID.String()),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]SalaryResponse, error) {
	salaries, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all salaries failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	salaries, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(salaries), nil
}

func (s *service) GetLatestByEmployee(ctx context.Context, employeeID string) (SalaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return SalaryResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindLatestByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryResponse{}, salaryerrors.ErrNoSalaryForEmployee
		}
		return SalaryResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

// Update never mutates history: it appends a fresh row for the same
// employee, which becomes the new authoritative salary.
func (s *service) Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	if req.BasicSalary < 0 {
		return SalaryResponse{}, salaryerrors.ErrNegativeSalary
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidEffectiveDate
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &Salary{
		ID:            uuid.New(),
		EmployeeID:    existing.EmployeeID,
		BasicSalary:   req.BasicSalary,
		EffectiveDate: effectiveDate,
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("update salary persist failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "salary.update",
			EntityType: "salary",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("employee_id=%s basic_salary=%.2f supersedes=%s",
				existing.EmployeeID, req.BasicSalary, id),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	row.CreatedAt = time.Now().UTC()
	row.EmployeeName = existing.EmployeeName

	s.logger.Info("update salary success",
		zap.String("salary_id", row.ID.String()),
		zap.String("supersedes", id),
	)

	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete salary begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete salary failed", zap.String("salary_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "salary.delete",
			EntityType: "salary",
			EntityID:   id,
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete salary commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete salary success", zap.String("salary_id", id))
	return nil
}

func (s *service) ProvisionInitial(ctx context.Context, employeeID string) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	exists, err := s.repo.ExistsForEmployee(ctx, employeeID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if exists {
		s.logger.Debug("initial salary already provisioned, skipping",
			zap.String("employee_id", employeeID),
		)
		return nil
	}

	_, err = s.Create(ctx, CreateSalaryRequest{
		EmployeeID:    employeeID,
		BasicSalary:   0,
		EffectiveDate: time.Now().UTC().Format("2006-01-02"),
	})
	return err
}

func mapToResponse(row Salary) SalaryResponse {
	return SalaryResponse{
		ID:            row.ID.String(),
		EmployeeID:    row.EmployeeID.String(),
		EmployeeName:  row.EmployeeName,
		BasicSalary:   row.BasicSalary,
		EffectiveDate: row.EffectiveDate.Format("2006-01-02"),
		CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(salaries []Salary) []SalaryResponse {
	res := make([]SalaryResponse, len(salaries))
	for i, row := range salaries {
		res[i] = mapToResponse(row)
	}
	return res
}
