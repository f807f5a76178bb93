package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/messaging/kafka"
)

type fakeEmployeeRepository struct {
	withTxFn      func(tx *sql.Tx) employee.Repository
	createFn      func(ctx context.Context, empl *employee.Employee) error
	findAllFn     func(ctx context.Context, filter employee.ListEmployeeFilter) ([]employee.Employee, error)
	findByIDFn    func(ctx context.Context, id string) (*employee.Employee, error)
	findOptionsFn func(ctx context.Context) ([]employee.Employee, error)
	updateFn      func(ctx context.Context, empl *employee.Employee) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context, filter employee.ListEmployeeFilter) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, counterType)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

type employeeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	counter *fakeCounterRepository
	outbox  *fakeOutboxRepository
	auditor *fakeRecorder
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	counterRepo := &fakeCounterRepository{}
	outbox := &fakeOutboxRepository{}
	auditor := &fakeRecorder{}
	svc := employee.NewService(db, repo, counterRepo, outbox, auditor, nil, zap.NewNop())

	return &employeeServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
		outbox:  outbox,
		auditor: auditor,
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

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success generates employee number and queues event", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.counter.getNextValueFn = func(ctx context.Context, counterType string) (int64, error) {
			assert.Equal(t, "employee_number", counterType)
			return 42, nil
		}

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			created = empl
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Nadia Perera",
			Email:       "nadia@acme.lk",
			GradeID:     3,
			JoiningDate: "2025-02-17",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000042", resp.EmployeeNumber)
		assert.Equal(t, "active", resp.EmploymentStatus)
		assert.Equal(t, "2025-02-17", resp.JoiningDate)

		if assert.NotNil(t, created) {
			assert.Equal(t, 3, created.GradeID)
		}

		if assert.Len(t, deps.outbox.created, 1) {
			assert.Equal(t, "employee_created", deps.outbox.created[0].EventType)
			assert.Equal(t, created.ID.String(), deps.outbox.created[0].AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, deps.outbox.created[0].Status)
		}

		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "employee.create", deps.auditor.entries[0].Action)
		}

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit employee number skips the counter", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		counterCalled := false
		deps.counter.getNextValueFn = func(ctx context.Context, counterType string) (int64, error) {
			counterCalled = true
			return 1, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:       "Imported Hire",
			Email:          "import@acme.lk",
			GradeID:        1,
			JoiningDate:    "2024-06-01",
			EmployeeNumber: "EMP-LEGACY-9",
		})

		assert.NoError(t, err)
		assert.False(t, counterCalled)
		assert.Equal(t, "EMP-LEGACY-9", resp.EmployeeNumber)
	})

	t.Run("negative invalid joining date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Bad Date",
			Email:       "bad@acme.lk",
			GradeID:     1,
			JoiningDate: "17-02-2025",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidJoiningDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email maps to conflict", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"}
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:    "Dup Email",
			Email:       "dup@acme.lk",
			GradeID:     2,
			JoiningDate: "2025-01-10",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			assert.Equal(t, id.String(), got)
			return &employee.Employee{
				ID:               id,
				EmployeeNumber:   "EMP-000007",
				FullName:         "Ruwan Silva",
				Email:            "ruwan@acme.lk",
				GradeID:          2,
				EmploymentStatus: employee.StatusActive,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000007", resp.EmployeeNumber)
		assert.Equal(t, 2, resp.GradeID)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative unknown id maps to not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("success maps slim options", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: uuid.New(), EmployeeNumber: "EMP-000001", FullName: "Aruni De Mel"},
				{ID: uuid.New(), EmployeeNumber: "EMP-000002", FullName: "Kasun Perera"},
			}, nil
		}

		opts, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, opts, 2)
		assert.Equal(t, "Aruni De Mel", opts[0].FullName)
	})

	t.Run("success cache hit skips the repository", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeOption{
			{ID: uuid.New().String(), EmployeeNumber: "EMP-000001", FullName: "Aruni De Mel"},
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(payload))

		repoCalls := 0
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			repoCalls++
			return nil, nil
		}

		svc := employee.NewService(deps.db, deps.repo, deps.counter, deps.outbox, deps.auditor, rdb, zap.NewNop())
		opts, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, opts)
		assert.Equal(t, 0, repoCalls)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("success cold cache is filled after the lookup", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: employeeID, EmployeeNumber: "EMP-000001", FullName: "Aruni De Mel"},
			}, nil
		}

		expected, err := json.Marshal([]employee.EmployeeOption{
			{ID: employeeID.String(), EmployeeNumber: "EMP-000001", FullName: "Aruni De Mel"},
		})
		assert.NoError(t, err)

		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		rmock.ExpectSet(employee.EmployeeOptionsKey, expected, time.Hour).SetVal("OK")

		svc := employee.NewService(deps.db, deps.repo, deps.counter, deps.outbox, deps.auditor, rdb, zap.NewNop())
		opts, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("negative repository error propagates", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:               id,
				EmployeeNumber:   "EMP-000010",
				FullName:         "Old Name",
				Email:            "old@acme.lk",
				GradeID:          1,
				EmploymentStatus: employee.StatusActive,
			}, nil
		}

		var updated *employee.Employee
		deps.repo.updateFn = func(ctx context.Context, empl *employee.Employee) error {
			updated = empl
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FullName:    "New Name",
			Email:       "new@acme.lk",
			GradeID:     4,
			JoiningDate: "2023-03-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", resp.FullName)
		assert.Equal(t, 4, resp.GradeID)
		if assert.NotNil(t, updated) {
			// number is immutable through update
			assert.Equal(t, "EMP-000010", updated.EmployeeNumber)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success records audit entry", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deleteCalled := false
		deps.repo.deleteFn = func(ctx context.Context, got string) error {
			deleteCalled = true
			assert.Equal(t, id, got)
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, id)

		assert.NoError(t, err)
		assert.True(t, deleteCalled)
		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "employee.delete", deps.auditor.entries[0].Action)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing row maps to not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			return gorm.ErrRecordNotFound
		}

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
