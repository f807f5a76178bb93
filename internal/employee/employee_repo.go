package employee

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter ListEmployeeFilter) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, empl *Employee) error
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

// Create goes through the bound transaction so the row, its counter bump
// and the outbox event commit together.
func (r *repository) Create(ctx context.Context, empl *Employee) error {
	query := `
        INSERT INTO employees (
            id, employee_number, full_name, email, phone,
            department, position, grade_id, joining_date, employment_status,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		empl.ID, empl.EmployeeNumber, empl.FullName, empl.Email, empl.Phone,
		empl.Department, empl.Position, empl.GradeID, empl.JoiningDate, empl.EmploymentStatus,
	)
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListEmployeeFilter) ([]Employee, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})

	if filter.Status != "" {
		q = q.Where("employment_status = ?", filter.Status)
	}
	if filter.GradeID > 0 {
		q = q.Where("grade_id = ?", filter.GradeID)
	}

	var empls []Employee
	err := q.Order("employee_number ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Select("id", "employee_number", "full_name").
		Where("employment_status = ?", StatusActive).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	query := `
        UPDATE employees SET
            full_name = $1, email = $2, phone = $3,
            department = $4, position = $5, grade_id = $6,
            joining_date = $7, employment_status = $8, updated_at = $9
        WHERE id = $10 AND deleted_at IS NULL
    `

	res, err := r.execer().ExecContext(
		ctx, query,
		empl.FullName, empl.Email, empl.Phone,
		empl.Department, empl.Position, empl.GradeID,
		empl.JoiningDate, empl.EmploymentStatus, time.Now().UTC(),
		empl.ID,
	)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `UPDATE employees SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.execer().ExecContext(ctx, query, id)
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
