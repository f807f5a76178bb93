package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry AuditLog) error
	List(ctx context.Context, filter ListAuditFilter, limit, offset int) ([]AuditLog, int64, error)
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

// Create uses raw SQL through the bound transaction when present, so an
// audit row commits atomically with the write it describes.
func (r *repository) Create(ctx context.Context, entry AuditLog) error {
	query := `
        INSERT INTO audit_logs (
            actor_id, actor_type, action, entity_type, entity_id, details, request_id, request_ip
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	var actorID any
	if entry.ActorID != nil {
		actorID = *entry.ActorID
	}

	_, err := r.execer().ExecContext(
		ctx, query,
		actorID, entry.ActorType, entry.Action,
		entry.EntityType, entry.EntityID, entry.Details,
		entry.RequestID, entry.RequestIP,
	)
	return err
}

func (r *repository) List(ctx context.Context, filter ListAuditFilter, limit, offset int) ([]AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&AuditLog{})

	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []AuditLog
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
