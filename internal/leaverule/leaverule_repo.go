package leaverule

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverule_repo.go -destination=mock/leaverule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rule *LeaveRule) error
	FindAll(ctx context.Context) ([]LeaveRule, error)
	FindByID(ctx context.Context, id string) (*LeaveRule, error)
	FindByGrade(ctx context.Context, gradeID int) (*LeaveRule, error)
	Update(ctx context.Context, rule *LeaveRule) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	sqlDB, _ := db.DB()
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, rule *LeaveRule) error {
	query := `
        INSERT INTO leave_rules (id, grade_id, annual_limit_days, medical_limit_days, created_at, updated_at)
        VALUES ($1, $2, $3, $4, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		rule.ID, rule.GradeID, rule.AnnualLimitDays, rule.MedicalLimitDays)
	return err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRule, error) {
	var rules []LeaveRule
	err := r.db.WithContext(ctx).
		Order("grade_id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRule, error) {
	var rule LeaveRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindByGrade(ctx context.Context, gradeID int) (*LeaveRule, error) {
	var rule LeaveRule
	err := r.db.WithContext(ctx).First(&rule, "grade_id = ?", gradeID).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) Update(ctx context.Context, rule *LeaveRule) error {
	query := `
        UPDATE leave_rules
        SET annual_limit_days = $1, medical_limit_days = $2, updated_at = now()
        WHERE id = $3
    `

	res, err := r.execer().ExecContext(ctx, query,
		rule.AnnualLimitDays, rule.MedicalLimitDays, rule.ID)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.execer().ExecContext(ctx, `DELETE FROM leave_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
