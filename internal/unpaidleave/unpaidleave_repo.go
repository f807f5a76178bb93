package unpaidleave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
)

//go:generate mockgen -source=unpaidleave_repo.go -destination=mock/unpaidleave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *UnpaidLeave) error
	FindAll(ctx context.Context, filter ListUnpaidLeaveFilter) ([]UnpaidLeave, error)
	FindByID(ctx context.Context, id string) (*UnpaidLeave, error)
	MarkProcessed(ctx context.Context, id string, amount float64) error
	ListProcessedInPeriod(ctx context.Context, employeeID string, p payperiod.Period) ([]UnpaidLeave, error)
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

func (r *repository) Create(ctx context.Context, u *UnpaidLeave) error {
	query := `
        INSERT INTO unpaid_leaves
            (id, employee_id, start_date, end_date, total_days, reason, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		u.ID, u.EmployeeID, u.StartDate, u.EndDate, u.TotalDays, u.Reason, u.Status)
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListUnpaidLeaveFilter) ([]UnpaidLeave, error) {
	q := r.db.WithContext(ctx).
		Table("unpaid_leaves").
		Select("unpaid_leaves.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = unpaid_leaves.employee_id")

	if filter.EmployeeID != "" {
		q = q.Where("unpaid_leaves.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("unpaid_leaves.status = ?", filter.Status)
	}
	if filter.Year != 0 && filter.Month != 0 {
		p, err := payperiod.Resolve(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		q = q.Scopes(payperiod.Scope("unpaid_leaves.created_at", p))
	}

	var rows []UnpaidLeave
	err := q.Order("unpaid_leaves.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*UnpaidLeave, error) {
	var u UnpaidLeave
	err := r.db.WithContext(ctx).
		Table("unpaid_leaves").
		Select("unpaid_leaves.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = unpaid_leaves.employee_id").
		Where("unpaid_leaves.id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MarkProcessed flips a pending row to Processed and fixes its
// deduction. The status guard makes a concurrent double-process a
// zero-row update instead of a double charge.
func (r *repository) MarkProcessed(ctx context.Context, id string, amount float64) error {
	query := `
        UPDATE unpaid_leaves
        SET status = $1, deduction_amount = $2, processed_at = now(), updated_at = now()
        WHERE id = $3 AND status = $4
    `

	res, err := r.execer().ExecContext(ctx, query, StatusProcessed, amount, id, StatusPending)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListProcessedInPeriod feeds the payroll deduction aggregation: rows
// already processed, attributed to the month of their last mutation.
func (r *repository) ListProcessedInPeriod(ctx context.Context, employeeID string, p payperiod.Period) ([]UnpaidLeave, error) {
	var rows []UnpaidLeave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusProcessed).
		Scopes(payperiod.Scope("updated_at", p)).
		Order("updated_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.execer().ExecContext(ctx, `DELETE FROM unpaid_leaves WHERE id = $1`, id)
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
