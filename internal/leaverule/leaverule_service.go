package leaverule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	leaveruleerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leaverule/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
)

//go:generate mockgen -source=leaverule_service.go -destination=mock/leaverule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRuleRequest) (LeaveRuleResponse, error)
	GetAll(ctx context.Context) ([]LeaveRuleResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRuleResponse, error)
	GetByGrade(ctx context.Context, gradeID int) (LeaveRuleResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRuleRequest) (LeaveRuleResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaverule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverule.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveRuleRequest) (LeaveRuleResponse, error) {
	if req.GradeID <= 0 {
		return LeaveRuleResponse{}, leaveruleerrors.ErrInvalidGradeID
	}

	row := &LeaveRule{
		ID:               uuid.New(),
		GradeID:          req.GradeID,
		AnnualLimitDays:  req.AnnualLimitDays,
		MedicalLimitDays: req.MedicalLimitDays,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave rule begin tx failed", zap.Error(err))
		return LeaveRuleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create leave rule persist failed",
			zap.Int("grade_id", req.GradeID),
			zap.Error(err),
		)
		return LeaveRuleResponse{}, mapRuleError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leaverule.create",
			EntityType: "leave_rule",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("grade_id=%d annual=%.2f medical=%.2f",
				req.GradeID, req.AnnualLimitDays, req.MedicalLimitDays),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave rule commit failed", zap.Error(err))
		return LeaveRuleResponse{}, err
	}

	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	s.logger.Info("create leave rule success",
		zap.String("rule_id", row.ID.String()),
		zap.Int("grade_id", req.GradeID),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRuleResponse, error) {
	rules, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all leave rules failed", zap.Error(err))
		return nil, err
	}

	res := make([]LeaveRuleResponse, len(rules))
	for i, rule := range rules {
		res[i] = mapToResponse(rule)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRuleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRuleResponse{}, leaveruleerrors.ErrInvalidRuleID
	}

	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveRuleResponse{}, mapRuleError(err)
	}

	return mapToResponse(*rule), nil
}

func (s *service) GetByGrade(ctx context.Context, gradeID int) (LeaveRuleResponse, error) {
	if gradeID <= 0 {
		return LeaveRuleResponse{}, leaveruleerrors.ErrInvalidGradeID
	}

	rule, err := s.repo.FindByGrade(ctx, gradeID)
	if err != nil {
		return LeaveRuleResponse{}, mapRuleError(err)
	}

	return mapToResponse(*rule), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveRuleRequest) (LeaveRuleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRuleResponse{}, leaveruleerrors.ErrInvalidRuleID
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveRuleResponse{}, mapRuleError(err)
	}

	existing.AnnualLimitDays = req.AnnualLimitDays
	existing.MedicalLimitDays = req.MedicalLimitDays

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave rule begin tx failed", zap.Error(err))
		return LeaveRuleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Update(ctx, existing); err != nil {
		s.logger.Error("update leave rule failed", zap.String("rule_id", id), zap.Error(err))
		return LeaveRuleResponse{}, mapRuleError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leaverule.update",
			EntityType: "leave_rule",
			EntityID:   id,
			Details: fmt.Sprintf("grade_id=%d annual=%.2f medical=%.2f",
				existing.GradeID, req.AnnualLimitDays, req.MedicalLimitDays),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave rule commit failed", zap.Error(err))
		return LeaveRuleResponse{}, err
	}

	existing.UpdatedAt = time.Now().UTC()

	s.logger.Info("update leave rule success", zap.String("rule_id", id))
	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveruleerrors.ErrInvalidRuleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave rule begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave rule failed", zap.String("rule_id", id), zap.Error(err))
		return mapRuleError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leaverule.delete",
			EntityType: "leave_rule",
			EntityID:   id,
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave rule commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete leave rule success", zap.String("rule_id", id))
	return nil
}

func mapRuleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveruleerrors.ErrRuleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return leaveruleerrors.ErrRuleExistsForGrade
	}

	return err
}

func mapToResponse(rule LeaveRule) LeaveRuleResponse {
	return LeaveRuleResponse{
		ID:               rule.ID.String(),
		GradeID:          rule.GradeID,
		AnnualLimitDays:  rule.AnnualLimitDays,
		MedicalLimitDays: rule.MedicalLimitDays,
		CreatedAt:        rule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        rule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
