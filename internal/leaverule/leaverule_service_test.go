package leaverule_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leaverule"
	leaveruleerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leaverule/errors"
)

type fakeRuleRepository struct {
	createFn      func(ctx context.Context, rule *leaverule.LeaveRule) error
	findAllFn     func(ctx context.Context) ([]leaverule.LeaveRule, error)
	findByIDFn    func(ctx context.Context, id string) (*leaverule.LeaveRule, error)
	findByGradeFn func(ctx context.Context, gradeID int) (*leaverule.LeaveRule, error)
	updateFn      func(ctx context.Context, rule *leaverule.LeaveRule) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeRuleRepository) WithTx(tx *sql.Tx) leaverule.Repository { return f }

func (f *fakeRuleRepository) Create(ctx context.Context, rule *leaverule.LeaveRule) error {
	if f.createFn != nil {
		return f.createFn(ctx, rule)
	}
	return nil
}

func (f *fakeRuleRepository) FindAll(ctx context.Context) ([]leaverule.LeaveRule, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRuleRepository) FindByID(ctx context.Context, id string) (*leaverule.LeaveRule, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuleRepository) FindByGrade(ctx context.Context, gradeID int) (*leaverule.LeaveRule, error) {
	if f.findByGradeFn != nil {
		return f.findByGradeFn(ctx, gradeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuleRepository) Update(ctx context.Context, rule *leaverule.LeaveRule) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, rule)
	}
	return nil
}

func (f *fakeRuleRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

type ruleServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leaverule.Service
	repo    *fakeRuleRepository
	auditor *fakeRecorder
}

func setupRuleServiceTest(t *testing.T) *ruleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRuleRepository{}
	auditor := &fakeRecorder{}
	svc := leaverule.NewService(db, repo, auditor, zap.NewNop())

	return &ruleServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
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

func TestLeaveRuleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		var created *leaverule.LeaveRule
		deps.repo.createFn = func(ctx context.Context, rule *leaverule.LeaveRule) error {
			created = rule
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, leaverule.CreateLeaveRuleRequest{
			GradeID:          3,
			AnnualLimitDays:  14,
			MedicalLimitDays: 7,
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.GradeID)
		assert.Equal(t, 14.0, resp.AnnualLimitDays)
		assert.Equal(t, 7.0, resp.MedicalLimitDays)
		if assert.NotNil(t, created) {
			assert.NotEqual(t, uuid.Nil, created.ID)
		}
		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "leaverule.create", deps.auditor.entries[0].Action)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("zero limits mean no cap and are accepted", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, leaverule.CreateLeaveRuleRequest{
			GradeID: 1,
		})

		assert.NoError(t, err)
		assert.Equal(t, 0.0, resp.AnnualLimitDays)
		assert.Equal(t, 0.0, resp.MedicalLimitDays)
	})

	t.Run("negative invalid grade", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, leaverule.CreateLeaveRuleRequest{GradeID: 0})
		assert.ErrorIs(t, err, leaveruleerrors.ErrInvalidGradeID)
	})

	t.Run("negative duplicate grade maps to conflict", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, rule *leaverule.LeaveRule) error {
			return &pgconn.PgError{Code: "23505"}
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, leaverule.CreateLeaveRuleRequest{
			GradeID:         3,
			AnnualLimitDays: 14,
		})

		assert.ErrorIs(t, err, leaveruleerrors.ErrRuleExistsForGrade)
		assert.Empty(t, deps.auditor.entries)
	})
}

func TestLeaveRuleService_GetByGrade(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByGradeFn = func(ctx context.Context, gradeID int) (*leaverule.LeaveRule, error) {
			assert.Equal(t, 2, gradeID)
			return &leaverule.LeaveRule{
				ID:               uuid.New(),
				GradeID:          2,
				AnnualLimitDays:  21,
				MedicalLimitDays: 14,
			}, nil
		}

		resp, err := deps.service.GetByGrade(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, 21.0, resp.AnnualLimitDays)
	})

	t.Run("negative unknown grade", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByGrade(ctx, 9)
		assert.ErrorIs(t, err, leaveruleerrors.ErrRuleNotFound)
	})
}

func TestLeaveRuleService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps the grade binding", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		ruleID := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverule.LeaveRule, error) {
			return &leaverule.LeaveRule{ID: ruleID, GradeID: 5, AnnualLimitDays: 10}, nil
		}

		var updated *leaverule.LeaveRule
		deps.repo.updateFn = func(ctx context.Context, rule *leaverule.LeaveRule) error {
			updated = rule
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, ruleID.String(), leaverule.UpdateLeaveRuleRequest{
			AnnualLimitDays:  14,
			MedicalLimitDays: 7,
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.GradeID)
		if assert.NotNil(t, updated) {
			assert.Equal(t, 14.0, updated.AnnualLimitDays)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown rule", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, uuid.New().String(), leaverule.UpdateLeaveRuleRequest{
			AnnualLimitDays: 14,
		})
		assert.ErrorIs(t, err, leaveruleerrors.ErrRuleNotFound)
	})
}

func TestLeaveRuleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, uuid.New().String())
		assert.NoError(t, err)
		if assert.Len(t, deps.auditor.entries, 1) {
			assert.Equal(t, "leaverule.delete", deps.auditor.entries[0].Action)
		}
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Delete(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, leaveruleerrors.ErrInvalidRuleID)
	})
}
