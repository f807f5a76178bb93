package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
)

// Recorder is the write-side contract other services depend on.
// Recording is best effort: a failed audit insert is logged and never
// fails the business operation it describes.
type Recorder interface {
	WithTx(tx *sql.Tx) Recorder
	Record(ctx context.Context, entry Entry)
}

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	Recorder
	GetAll(ctx context.Context, filter ListAuditFilter, limit, offset int) ([]AuditLogResponse, int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) WithTx(tx *sql.Tx) Recorder {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *service) Record(ctx context.Context, entry Entry) {
	row := AuditLog{
		ActorType:  entry.ActorType,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		RequestID:  contextutil.GetRequestID(ctx),
		RequestIP:  entry.RequestIP,
	}

	if entry.ActorType == "" {
		row.ActorType = "user"
	}

	if entry.ActorID != "" {
		if actorID, err := uuid.Parse(entry.ActorID); err == nil {
			row.ActorID = &actorID
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("record audit entry failed",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
	}
}

func (s *service) GetAll(ctx context.Context, filter ListAuditFilter, limit, offset int) ([]AuditLogResponse, int64, error) {
	if limit <= 0 {
		limit = 50
	}

	logs, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("list audit logs failed", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, mapToResponse(l))
	}
	return resp, total, nil
}

func mapToResponse(l AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         l.ID.String(),
		ActorType:  l.ActorType,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    l.Details,
		RequestID:  l.RequestID,
		RequestIP:  l.RequestIP,
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ActorID != nil {
		resp.ActorID = l.ActorID.String()
	}
	return resp
}
