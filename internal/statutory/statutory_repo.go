package statutory

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
)

// EligibleEmployee is the scan target of the eligibility view.
type EligibleEmployee struct {
	ID             string
	EmployeeNumber string
	FullName       string
	JoiningDate    time.Time
	HasConfig      bool
}

//go:generate mockgen -source=statutory_repo.go -destination=mock/statutory_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	UpsertConfig(ctx context.Context, cfg *EtfEpfConfig) error
	FindConfigByEmployee(ctx context.Context, employeeID string) (*EtfEpfConfig, error)
	ListConfigs(ctx context.Context) ([]EtfEpfConfig, error)

	TransactionExists(ctx context.Context, employeeID string, year, month int) (bool, error)
	CreateTransaction(ctx context.Context, txn *EtfEpfTransaction) error
	FindTransactionByID(ctx context.Context, id string) (*EtfEpfTransaction, error)
	ListTransactions(ctx context.Context, filter ListTransactionFilter) ([]EtfEpfTransaction, error)

	ListEligibleEmployees(ctx context.Context, p payperiod.Period) ([]EligibleEmployee, error)
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

// UpsertConfig keeps one row per employee. Cfg.ID is rewritten to the
// surviving row's id when the conflict path updated an existing row.
func (r *repository) UpsertConfig(ctx context.Context, cfg *EtfEpfConfig) error {
	query := `
        INSERT INTO etf_epf_configs
            (id, employee_id, epf_number, etf_number,
             epf_contribution_rate, employer_epf_rate, etf_contribution_rate,
             created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
        ON CONFLICT (employee_id)
        DO UPDATE SET
            epf_number = EXCLUDED.epf_number,
            etf_number = EXCLUDED.etf_number,
            epf_contribution_rate = EXCLUDED.epf_contribution_rate,
            employer_epf_rate = EXCLUDED.employer_epf_rate,
            etf_contribution_rate = EXCLUDED.etf_contribution_rate,
            updated_at = now()
        RETURNING id
    `

	return r.querier().QueryRowContext(ctx, query,
		cfg.ID, cfg.EmployeeID, cfg.EpfNumber, cfg.EtfNumber,
		cfg.EpfContributionRate, cfg.EmployerEpfRate, cfg.EtfContributionRate,
	).Scan(&cfg.ID)
}

func (r *repository) FindConfigByEmployee(ctx context.Context, employeeID string) (*EtfEpfConfig, error) {
	var cfg EtfEpfConfig
	err := r.db.WithContext(ctx).
		Table("etf_epf_configs").
		Select("etf_epf_configs.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = etf_epf_configs.employee_id").
		Where("etf_epf_configs.employee_id = ?", employeeID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) ListConfigs(ctx context.Context) ([]EtfEpfConfig, error) {
	var rows []EtfEpfConfig
	err := r.db.WithContext(ctx).
		Table("etf_epf_configs").
		Select("etf_epf_configs.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = etf_epf_configs.employee_id").
		Order("employees.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TransactionExists(ctx context.Context, employeeID string, year, month int) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM etf_epf_transactions
            WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
        )
    `

	var exists bool
	err := r.querier().QueryRowContext(ctx, query, employeeID, year, month).Scan(&exists)
	return exists, err
}

func (r *repository) CreateTransaction(ctx context.Context, txn *EtfEpfTransaction) error {
	query := `
        INSERT INTO etf_epf_transactions
            (id, employee_id, period_year, period_month, gross_salary,
             employee_epf_amount, epf_employer_share, employer_etf_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		txn.ID, txn.EmployeeID, txn.PeriodYear, txn.PeriodMonth, txn.GrossSalary,
		txn.EmployeeEpfAmount, txn.EpfEmployerShare, txn.EmployerEtfAmount)
	return err
}

func (r *repository) FindTransactionByID(ctx context.Context, id string) (*EtfEpfTransaction, error) {
	var txn EtfEpfTransaction
	err := r.db.WithContext(ctx).
		Table("etf_epf_transactions").
		Select("etf_epf_transactions.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = etf_epf_transactions.employee_id").
		Where("etf_epf_transactions.id = ?", id).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) ListTransactions(ctx context.Context, filter ListTransactionFilter) ([]EtfEpfTransaction, error) {
	q := r.db.WithContext(ctx).
		Table("etf_epf_transactions").
		Select("etf_epf_transactions.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = etf_epf_transactions.employee_id")

	if filter.EmployeeID != "" {
		q = q.Where("etf_epf_transactions.employee_id = ?", filter.EmployeeID)
	}
	if filter.Year != 0 {
		q = q.Where("etf_epf_transactions.period_year = ?", filter.Year)
	}
	if filter.Month != 0 {
		q = q.Where("etf_epf_transactions.period_month = ?", filter.Month)
	}

	var rows []EtfEpfTransaction
	err := q.Order("etf_epf_transactions.period_year DESC, etf_epf_transactions.period_month DESC, employees.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

// ListEligibleEmployees returns the active employees who had joined by
// the end of the period. Employees hired after the period never show up
// in its processing list.
func (r *repository) ListEligibleEmployees(ctx context.Context, p payperiod.Period) ([]EligibleEmployee, error) {
	var rows []EligibleEmployee
	err := r.db.WithContext(ctx).
		Table("employees").
		Select(`employees.id, employees.employee_number, employees.full_name,
            employees.joining_date, etf_epf_configs.id IS NOT NULL AS has_config`).
		Joins("LEFT JOIN etf_epf_configs ON etf_epf_configs.employee_id = employees.id").
		Where("employees.deleted_at IS NULL").
		Where("employees.employment_status = ?", "active").
		Where("employees.joining_date <= ?", p.End).
		Order("employees.full_name ASC").
		Scan(&rows).Error
	return rows, err
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
