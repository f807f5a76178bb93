package payroll

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, transfer *PayrollTransfer) error
	ExistsForPeriod(ctx context.Context, employeeID string, year, month int) (bool, error)
	UpsertProcessing(ctx context.Context, transfer *PayrollTransfer) (bool, error)
	MarkCompleted(ctx context.Context, id string) error
	FindAll(ctx context.Context, filter ListTransferFilter) ([]PayrollTransfer, error)
	FindByID(ctx context.Context, id string) (*PayrollTransfer, error)
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

func (r *repository) Create(ctx context.Context, transfer *PayrollTransfer) error {
	query := `
        INSERT INTO payroll_transfers
            (id, employee_id, period_year, period_month, gross_salary, total_deductions,
             net_salary, status, initiated_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		transfer.ID, transfer.EmployeeID, transfer.PeriodYear, transfer.PeriodMonth,
		transfer.GrossSalary, transfer.TotalDeductions, transfer.NetSalary,
		transfer.Status, transfer.InitiatedBy)
	return err
}

// ExistsForPeriod runs on the transaction when one is active, so a
// batch sees the rows written earlier in the same run.
func (r *repository) ExistsForPeriod(ctx context.Context, employeeID string, year, month int) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM payroll_transfers
            WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
        )
    `

	var exists bool
	err := r.querier().QueryRowContext(ctx, query, employeeID, year, month).Scan(&exists)
	return exists, err
}

// UpsertProcessing writes one Processing row per employee and period,
// refreshing the amounts when a non-terminal row already exists. A row
// that has reached Completed is left alone; the zero-row return reports
// that as skipped rather than an error. Transfer.ID is rewritten to the
// surviving row's id when the conflict path updated an existing row.
func (r *repository) UpsertProcessing(ctx context.Context, transfer *PayrollTransfer) (bool, error) {
	query := `
        INSERT INTO payroll_transfers
            (id, employee_id, period_year, period_month, gross_salary, total_deductions,
             net_salary, status, initiated_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
        ON CONFLICT (employee_id, period_year, period_month)
        DO UPDATE SET
            gross_salary = EXCLUDED.gross_salary,
            total_deductions = EXCLUDED.total_deductions,
            net_salary = EXCLUDED.net_salary,
            status = EXCLUDED.status,
            initiated_by = EXCLUDED.initiated_by,
            updated_at = now()
        WHERE payroll_transfers.status <> 'Completed'
        RETURNING id
    `

	err := r.querier().QueryRowContext(ctx, query,
		transfer.ID, transfer.EmployeeID, transfer.PeriodYear, transfer.PeriodMonth,
		transfer.GrossSalary, transfer.TotalDeductions, transfer.NetSalary,
		transfer.Status, transfer.InitiatedBy).Scan(&transfer.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) MarkCompleted(ctx context.Context, id string) error {
	query := `
        UPDATE payroll_transfers
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = $3
    `

	res, err := r.execer().ExecContext(ctx, query, StatusCompleted, id, StatusProcessing)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindAll(ctx context.Context, filter ListTransferFilter) ([]PayrollTransfer, error) {
	q := r.db.WithContext(ctx).
		Table("payroll_transfers").
		Select("payroll_transfers.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = payroll_transfers.employee_id")

	if filter.EmployeeID != "" {
		q = q.Where("payroll_transfers.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("payroll_transfers.status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("payroll_transfers.period_year = ?", filter.Year)
	}
	if filter.Month != 0 {
		q = q.Where("payroll_transfers.period_month = ?", filter.Month)
	}

	var rows []PayrollTransfer
	err := q.Order("payroll_transfers.period_year DESC, payroll_transfers.period_month DESC, employees.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollTransfer, error) {
	var transfer PayrollTransfer
	err := r.db.WithContext(ctx).
		Table("payroll_transfers").
		Select("payroll_transfers.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = payroll_transfers.employee_id").
		Where("payroll_transfers.id = ?", id).
		First(&transfer).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
