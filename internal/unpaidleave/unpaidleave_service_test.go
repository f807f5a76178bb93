package unpaidleave_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
	unpaidleaveerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave/errors"
)

type fakeUnpaidLeaveRepository struct {
	createFn        func(ctx context.Context, u *unpaidleave.UnpaidLeave) error
	findAllFn       func(ctx context.Context, filter unpaidleave.ListUnpaidLeaveFilter) ([]unpaidleave.UnpaidLeave, error)
	findByIDFn      func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error)
	markProcessedFn func(ctx context.Context, id string, amount float64) error
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeUnpaidLeaveRepository) WithTx(tx *sql.Tx) unpaidleave.Repository { return f }

func (f *fakeUnpaidLeaveRepository) Create(ctx context.Context, u *unpaidleave.UnpaidLeave) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUnpaidLeaveRepository) FindAll(ctx context.Context, filter unpaidleave.ListUnpaidLeaveFilter) ([]unpaidleave.UnpaidLeave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeUnpaidLeaveRepository) FindByID(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUnpaidLeaveRepository) MarkProcessed(ctx context.Context, id string, amount float64) error {
	if f.markProcessedFn != nil {
		return f.markProcessedFn(ctx, id, amount)
	}
	return nil
}

func (f *fakeUnpaidLeaveRepository) ListProcessedInPeriod(ctx context.Context, employeeID string, p payperiod.Period) ([]unpaidleave.UnpaidLeave, error) {
	return nil, nil
}

func (f *fakeUnpaidLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeSalaryRepository struct {
	findLatestByEmployeeFn func(ctx context.Context, employeeID string) (*salary.Salary, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository { return f }

func (f *fakeSalaryRepository) Create(ctx context.Context, s *salary.Salary) error { return nil }

func (f *fakeSalaryRepository) FindAll(ctx context.Context) ([]salary.Salary, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindByID(ctx context.Context, id string) (*salary.Salary, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]salary.Salary, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindLatestByEmployee(ctx context.Context, employeeID string) (*salary.Salary, error) {
	if f.findLatestByEmployeeFn != nil {
		return f.findLatestByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	return false, nil
}

func (f *fakeSalaryRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

type unpaidLeaveServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    unpaidleave.Service
	repo       *fakeUnpaidLeaveRepository
	salaryRepo *fakeSalaryRepository
	auditor    *fakeRecorder
}

func setupUnpaidLeaveServiceTest(t *testing.T) *unpaidLeaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeUnpaidLeaveRepository{}
	salaryRepo := &fakeSalaryRepository{}
	auditor := &fakeRecorder{}

	cfg := config.PayrollConfig{
		WorkHoursPerDay:  9,
		DaysPerMonth:     30,
		DefaultStartTime: "09:00",
		DefaultEndTime:   "18:00",
	}

	svc := unpaidleave.NewService(db, repo, salaryRepo, cfg, auditor, zap.NewNop())

	return &unpaidLeaveServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		salaryRepo: salaryRepo,
		auditor:    auditor,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestUnpaidLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		var created *unpaidleave.UnpaidLeave
		deps.repo.createFn = func(ctx context.Context, u *unpaidleave.UnpaidLeave) error {
			created = u
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, unpaidleave.CreateUnpaidLeaveRequest{
			EmployeeID: uuid.New().String(),
			StartDate:  "2025-07-14",
			EndDate:    "2025-07-15",
			TotalDays:  2,
			Reason:     "annual entitlement exhausted",
		})

		assert.NoError(t, err)
		assert.Equal(t, unpaidleave.StatusPending, resp.Status)
		assert.Equal(t, 2.0, resp.TotalDays)
		assert.Nil(t, resp.DeductionAmount)
		if assert.NotNil(t, created) {
			assert.Equal(t, unpaidleave.StatusPending, created.Status)
		}
		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "unpaidleave.create", deps.auditor.entries[0].Action)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative start after end", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, unpaidleave.CreateUnpaidLeaveRequest{
			EmployeeID: uuid.New().String(),
			StartDate:  "2025-07-16",
			EndDate:    "2025-07-15",
			TotalDays:  1,
		})

		assert.ErrorIs(t, err, unpaidleaveerrors.ErrInvalidDateRange)
	})
}

func TestUnpaidLeaveService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("success fixes deduction from latest basic salary", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		rowID := uuid.New()
		employeeID := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{
				ID:         rowID,
				EmployeeID: employeeID,
				TotalDays:  2.5,
				Status:     unpaidleave.StatusPending,
			}, nil
		}
		deps.salaryRepo.findLatestByEmployeeFn = func(ctx context.Context, id string) (*salary.Salary, error) {
			assert.Equal(t, employeeID.String(), id)
			return &salary.Salary{EmployeeID: employeeID, BasicSalary: 54000}, nil
		}

		var processedAmount float64
		deps.repo.markProcessedFn = func(ctx context.Context, id string, amount float64) error {
			processedAmount = amount
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Process(ctx, rowID.String())

		assert.NoError(t, err)
		// 54000 / 30 = 1800 per day, times 2.5 days
		assert.Equal(t, 4500.0, processedAmount)
		assert.Equal(t, unpaidleave.StatusProcessed, resp.Status)
		assert.Equal(t, 1800.0, resp.DailyRate)
		if assert.NotNil(t, resp.DeductionAmount) {
			assert.Equal(t, 4500.0, *resp.DeductionAmount)
		}
		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "unpaidleave.process", deps.auditor.entries[0].Action)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deduction is rounded to two decimals", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{
				ID:         uuid.New(),
				EmployeeID: uuid.New(),
				TotalDays:  1,
				Status:     unpaidleave.StatusPending,
			}, nil
		}
		deps.salaryRepo.findLatestByEmployeeFn = func(ctx context.Context, id string) (*salary.Salary, error) {
			return &salary.Salary{BasicSalary: 50000}, nil
		}

		var processedAmount float64
		deps.repo.markProcessedFn = func(ctx context.Context, id string, amount float64) error {
			processedAmount = amount
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Process(ctx, uuid.New().String())

		assert.NoError(t, err)
		// 50000 / 30 = 1666.666..., persisted as 1666.67
		assert.Equal(t, 1666.67, processedAmount)
	})

	t.Run("negative already processed", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{
				ID:     uuid.New(),
				Status: unpaidleave.StatusProcessed,
			}, nil
		}

		_, err := deps.service.Process(ctx, uuid.New().String())
		assert.ErrorIs(t, err, unpaidleaveerrors.ErrAlreadyProcessed)
		assert.Empty(t, deps.auditor.entries)
	})

	t.Run("negative lost race maps to already processed", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{
				ID:         uuid.New(),
				EmployeeID: uuid.New(),
				TotalDays:  1,
				Status:     unpaidleave.StatusPending,
			}, nil
		}
		deps.salaryRepo.findLatestByEmployeeFn = func(ctx context.Context, id string) (*salary.Salary, error) {
			return &salary.Salary{BasicSalary: 30000}, nil
		}
		deps.repo.markProcessedFn = func(ctx context.Context, id string, amount float64) error {
			return gorm.ErrRecordNotFound
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Process(ctx, uuid.New().String())
		assert.ErrorIs(t, err, unpaidleaveerrors.ErrAlreadyProcessed)
	})

	t.Run("negative no salary record", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{
				ID:         uuid.New(),
				EmployeeID: uuid.New(),
				Status:     unpaidleave.StatusPending,
			}, nil
		}

		_, err := deps.service.Process(ctx, uuid.New().String())
		assert.ErrorIs(t, err, unpaidleaveerrors.ErrNoSalaryForDeduction)
	})
}

func TestUnpaidLeaveService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success on pending row", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{ID: uuid.New(), Status: unpaidleave.StatusPending}, nil
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, uuid.New().String())
		assert.NoError(t, err)
	})

	t.Run("negative processed row is immutable", func(t *testing.T) {
		deps := setupUnpaidLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
			return &unpaidleave.UnpaidLeave{ID: uuid.New(), Status: unpaidleave.StatusProcessed}, nil
		}

		err := deps.service.Delete(ctx, uuid.New().String())
		assert.ErrorIs(t, err, unpaidleaveerrors.ErrProcessedRowImmutable)
	})
}
