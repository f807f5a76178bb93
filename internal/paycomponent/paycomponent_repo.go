package paycomponent

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
)

//go:generate mockgen -source=paycomponent_repo.go -destination=mock/paycomponent_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateAllowance(ctx context.Context, a *Allowance) error
	ListAllowances(ctx context.Context, filter ComponentFilter) ([]Allowance, error)
	FindAllowanceByID(ctx context.Context, id string) (*Allowance, error)
	UpdateAllowance(ctx context.Context, a *Allowance) error
	DeleteAllowance(ctx context.Context, id string) error

	CreateBonus(ctx context.Context, b *Bonus) error
	ListBonuses(ctx context.Context, filter ComponentFilter) ([]Bonus, error)
	DeleteBonus(ctx context.Context, id string) error

	CreateDeduction(ctx context.Context, d *Deduction) error
	ListDeductions(ctx context.Context, filter ComponentFilter) ([]Deduction, error)
	FindDeductionByID(ctx context.Context, id string) (*Deduction, error)
	UpdateDeduction(ctx context.Context, d *Deduction) error
	DeleteDeduction(ctx context.Context, id string) error

	CreateOvertime(ctx context.Context, o *OvertimeAdjustment) error
	ListOvertime(ctx context.Context, filter ComponentFilter) ([]OvertimeAdjustment, error)
	DeleteOvertime(ctx context.Context, id string) error
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

func (r *repository) CreateAllowance(ctx context.Context, a *Allowance) error {
	query := `
        INSERT INTO allowances (id, employee_id, name, amount, status, effective_from, effective_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		a.ID, a.EmployeeID, a.Name, a.Amount, a.Status, a.EffectiveFrom, a.EffectiveTo,
	)
	return err
}

func (r *repository) ListAllowances(ctx context.Context, filter ComponentFilter) ([]Allowance, error) {
	q := r.db.WithContext(ctx).Model(&Allowance{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.hasPeriod() {
		p, err := payperiod.Resolve(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		q = q.Scopes(payperiod.OverlapScope("effective_from", "effective_to", p))
	}

	var rows []Allowance
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllowanceByID(ctx context.Context, id string) (*Allowance, error) {
	var a Allowance
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateAllowance(ctx context.Context, a *Allowance) error {
	query := `
        UPDATE allowances SET
            name = $1, amount = $2, status = $3,
            effective_from = $4, effective_to = $5, updated_at = now()
        WHERE id = $6
    `

	res, err := r.execer().ExecContext(ctx, query,
		a.Name, a.Amount, a.Status, a.EffectiveFrom, a.EffectiveTo, a.ID,
	)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteAllowance(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "allowances", id)
}

func (r *repository) CreateBonus(ctx context.Context, b *Bonus) error {
	query := `
        INSERT INTO bonuses (id, employee_id, reason, amount, effective_date, created_at)
        VALUES ($1, $2, $3, $4, $5, now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		b.ID, b.EmployeeID, b.Reason, b.Amount, b.EffectiveDate,
	)
	return err
}

func (r *repository) ListBonuses(ctx context.Context, filter ComponentFilter) ([]Bonus, error) {
	q := r.db.WithContext(ctx).Model(&Bonus{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.hasPeriod() {
		p, err := payperiod.Resolve(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		q = q.Scopes(payperiod.Scope("effective_date", p))
	}

	var rows []Bonus
	err := q.Order("effective_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteBonus(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "bonuses", id)
}

func (r *repository) CreateDeduction(ctx context.Context, d *Deduction) error {
	query := `
        INSERT INTO deductions (id, employee_id, name, basis, amount, percent_value, status, effective_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		d.ID, d.EmployeeID, d.Name, d.Basis, d.Amount, d.PercentValue, d.Status, d.EffectiveDate,
	)
	return err
}

func (r *repository) ListDeductions(ctx context.Context, filter ComponentFilter) ([]Deduction, error) {
	q := r.db.WithContext(ctx).Model(&Deduction{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.hasPeriod() {
		p, err := payperiod.Resolve(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		q = q.Scopes(payperiod.Scope("effective_date", p))
	}

	var rows []Deduction
	err := q.Order("effective_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindDeductionByID(ctx context.Context, id string) (*Deduction, error) {
	var d Deduction
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) UpdateDeduction(ctx context.Context, d *Deduction) error {
	query := `
        UPDATE deductions SET
            name = $1, basis = $2, amount = $3, percent_value = $4,
            status = $5, effective_date = $6, updated_at = now()
        WHERE id = $7
    `

	res, err := r.execer().ExecContext(ctx, query,
		d.Name, d.Basis, d.Amount, d.PercentValue, d.Status, d.EffectiveDate, d.ID,
	)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteDeduction(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "deductions", id)
}

func (r *repository) CreateOvertime(ctx context.Context, o *OvertimeAdjustment) error {
	query := `
        INSERT INTO overtime_adjustments (id, employee_id, ot_hours, ot_rate, note, created_at)
        VALUES ($1, $2, $3, $4, $5, now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		o.ID, o.EmployeeID, o.OtHours, o.OtRate, o.Note,
	)
	return err
}

func (r *repository) ListOvertime(ctx context.Context, filter ComponentFilter) ([]OvertimeAdjustment, error) {
	q := r.db.WithContext(ctx).Model(&OvertimeAdjustment{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.hasPeriod() {
		p, err := payperiod.Resolve(filter.Year, filter.Month)
		if err != nil {
			return nil, err
		}
		q = q.Scopes(payperiod.Scope("created_at", p))
	}

	var rows []OvertimeAdjustment
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteOvertime(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "overtime_adjustments", id)
}

func (r *repository) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.execer().ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
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
