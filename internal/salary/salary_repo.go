package salary

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Salary) error
	FindAll(ctx context.Context) ([]Salary, error)
	FindByID(ctx context.Context, id string) (*Salary, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Salary, error)
	FindLatestByEmployee(ctx context.Context, employeeID string) (*Salary, error)
	ExistsForEmployee(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, s *Salary) error {
	query := `
        INSERT INTO salaries (id, employee_id, basic_salary, effective_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query, s.ID, s.EmployeeID, s.BasicSalary, s.EffectiveDate)
	return err
}

func (r *repository) FindAll(ctx context.Context) ([]Salary, error) {
	var salaries []Salary
	query := `
SELECT
    salaries.*,
    employees.full_name AS employee_name
FROM salaries
JOIN employees ON employees.id = salaries.employee_id
ORDER BY
    employees.full_name ASC,
    salaries.created_at DESC
`

	err := r.db.WithContext(ctx).Raw(query).Scan(&salaries).Error
	return salaries, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Table("salaries").
		Select("salaries.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = salaries.employee_id").
		Where("salaries.id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Salary, error) {
	var salaries []Salary
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&salaries).Error
	return salaries, err
}

// FindLatestByEmployee returns the authoritative basic salary row: the
// most recently inserted one, regardless of effective_date.
func (r *repository) FindLatestByEmployee(ctx context.Context, employeeID string) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Salary{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.execer().ExecContext(ctx, `DELETE FROM salaries WHERE id = $1`, id)
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
