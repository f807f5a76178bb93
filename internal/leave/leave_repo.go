package leave

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	FindAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateDecision(ctx context.Context, id, status string, decidedBy uuid.UUID, note string) error
	UpdateNote(ctx context.Context, id, note string) error
	AddToBalance(ctx context.Context, employeeID uuid.UUID, leaveTypeID, year int, deltaDays float64) (float64, error)
	CreateLedgerEntry(ctx context.Context, entry *LeaveLedgerEntry) error
	ListBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	ListLedger(ctx context.Context, employeeID string, year int) ([]LeaveLedgerEntry, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests
            (id, employee_id, leave_type_id, start_date, end_date, start_time, end_time,
             duration_hours, reason, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, now(), now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.StartTime, req.EndTime, req.DurationHours, req.Reason, req.Status)
	return err
}

func (r *repository) FindAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_requests.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id")

	if filter.EmployeeID != "" {
		q = q.Where("leave_requests.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.LeaveTypeID != 0 {
		q = q.Where("leave_requests.leave_type_id = ?", filter.LeaveTypeID)
	}
	if filter.Year != 0 {
		q = q.Where("EXTRACT(YEAR FROM leave_requests.start_date) = ?", filter.Year)
	}

	var rows []LeaveRequest
	err := q.Order("leave_requests.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_requests.*, employees.full_name AS employee_name").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("leave_requests.id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateDecision flips a pending request to its terminal status. The
// status guard turns a concurrent double-decide into a zero-row update,
// surfaced as ErrRecordNotFound for the caller to map.
func (r *repository) UpdateDecision(ctx context.Context, id, status string, decidedBy uuid.UUID, note string) error {
	query := `
        UPDATE leave_requests
        SET status = $1, decided_by = $2, decided_at = now(), decision_note = $3, updated_at = now()
        WHERE id = $4 AND status = $5
    `

	res, err := r.execer().ExecContext(ctx, query, status, decidedBy, note, id, StatusPending)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateNote attaches a note without touching status, allowed on
// decided requests too.
func (r *repository) UpdateNote(ctx context.Context, id, note string) error {
	query := `
        UPDATE leave_requests
        SET decision_note = $1, updated_at = now()
        WHERE id = $2
    `

	res, err := r.execer().ExecContext(ctx, query, note, id)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddToBalance applies one additive delta to the (employee, type, year)
// balance and returns the post-upsert total. The single statement keeps
// the add atomic, and inside a transaction the touched row stays locked
// until commit, so two concurrent approvals serialize instead of both
// reading a stale total.
func (r *repository) AddToBalance(ctx context.Context, employeeID uuid.UUID, leaveTypeID, year int, deltaDays float64) (float64, error) {
	query := `
        INSERT INTO leave_balances (id, employee_id, leave_type_id, year, used_days, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, now(), now())
        ON CONFLICT (employee_id, leave_type_id, year)
        DO UPDATE SET used_days = leave_balances.used_days + EXCLUDED.used_days, updated_at = now()
        RETURNING used_days
    `

	var total float64
	err := r.querier().QueryRowContext(ctx, query,
		uuid.New(), employeeID, leaveTypeID, year, deltaDays).Scan(&total)
	return total, err
}

func (r *repository) CreateLedgerEntry(ctx context.Context, entry *LeaveLedgerEntry) error {
	query := `
        INSERT INTO leave_ledger_entries
            (id, employee_id, leave_type_id, year, delta_days, source_request_id, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, now())
    `

	_, err := r.execer().ExecContext(ctx, query,
		entry.ID, entry.EmployeeID, entry.LeaveTypeID, entry.Year,
		entry.DeltaDays, entry.SourceRequestID, entry.Note)
	return err
}

func (r *repository) ListBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if year != 0 {
		q = q.Where("year = ?", year)
	}

	var rows []LeaveBalance
	err := q.Order("year DESC, leave_type_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListLedger(ctx context.Context, employeeID string, year int) ([]LeaveLedgerEntry, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if year != 0 {
		q = q.Where("year = ?", year)
	}

	var rows []LeaveLedgerEntry
	err := q.Order("created_at DESC").Find(&rows).Error
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
