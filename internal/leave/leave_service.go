package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/events"
	leaveerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leave/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leaverule"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/messaging/kafka"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)

	// Decide runs the request state machine. APPROVE additionally
	// applies the balance delta, appends a ledger entry and, when the
	// new total breaches the grade limit, raises an unpaid leave for
	// the excess, all inside one transaction.
	Decide(ctx context.Context, id string, req DecideLeaveRequest) (LeaveDecisionResponse, error)

	GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	GetLedger(ctx context.Context, employeeID string, year int) ([]LeaveLedgerEntryResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	unpaidRepo   unpaidleave.Repository
	ruleRepo     leaverule.Repository
	employeeRepo employee.Repository
	outbox       kafka.OutboxRepository
	auditor      audit.Recorder
	payrollCfg   config.PayrollConfig
	leaveCfg     config.LeaveConfig
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	unpaidRepo unpaidleave.Repository,
	ruleRepo leaverule.Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	auditor audit.Recorder,
	payrollCfg config.PayrollConfig,
	leaveCfg config.LeaveConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		unpaidRepo:   unpaidRepo,
		ruleRepo:     ruleRepo,
		employeeRepo: employeeRepo,
		outbox:       outboxRepo,
		auditor:      auditor,
		payrollCfg:   payrollCfg,
		leaveCfg:     leaveCfg,
		logger:       l,
	}
}

// Create records a new PENDING request. Duration is fixed at creation
// time: an explicit duration_hours wins verbatim, otherwise the naive
// elapsed time between the start and end datetimes is used. No balance
// is touched until the request is approved.
func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	var duration float64
	if req.DurationHours != nil {
		duration = *req.DurationHours
	} else {
		duration, err = ComputeDurationHours(startDate, endDate,
			req.StartTime, req.EndTime,
			s.payrollCfg.DefaultStartTime, s.payrollCfg.DefaultEndTime)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidTimeFormat
		}
	}

	row := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   req.LeaveTypeID,
		StartDate:     startDate,
		EndDate:       endDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationHours: duration,
		Reason:        req.Reason,
		Status:        StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapLeaveError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leave.create",
			EntityType: "leave_request",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("employee_id=%s leave_type_id=%d duration_hours=%.2f",
				employeeID, req.LeaveTypeID, duration),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	row.CreatedAt = time.Now().UTC()

	s.logger.Info("create leave success",
		zap.String("leave_request_id", row.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Float64("duration_hours", duration),
	)

	return s.mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.Error(err))
		return nil, err
	}

	res := make([]LeaveResponse, len(rows))
	for i, row := range rows {
		res[i] = s.mapToResponse(row)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapLeaveError(err)
	}

	return s.mapToResponse(*row), nil
}

func (s *service) Decide(ctx context.Context, id string, req DecideLeaveRequest) (LeaveDecisionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveDecisionResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveDecisionResponse{}, mapLeaveError(err)
	}

	switch req.Action {
	case ActionRespond:
		return s.respond(ctx, row, req.Note)
	case ActionApprove, ActionReject:
		if row.Status != StatusPending {
			return LeaveDecisionResponse{}, leaveerrors.ErrAlreadyDecided
		}
	default:
		return LeaveDecisionResponse{}, leaveerrors.ErrInvalidDecisionAction
	}

	if req.Action == ActionReject {
		return s.reject(ctx, row, req.Note)
	}
	return s.approve(ctx, row, req.Note)
}

// respond attaches a note to a request in any state without touching
// its status.
func (s *service) respond(ctx context.Context, row *LeaveRequest, note string) (LeaveDecisionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("respond leave begin tx failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.UpdateNote(ctx, row.ID.String(), note); err != nil {
		s.logger.Error("respond leave failed", zap.String("leave_request_id", row.ID.String()), zap.Error(err))
		return LeaveDecisionResponse{}, mapLeaveError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leave.respond",
			EntityType: "leave_request",
			EntityID:   row.ID.String(),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("respond leave commit failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}

	row.DecisionNote = note

	s.logger.Info("respond leave success", zap.String("leave_request_id", row.ID.String()))
	return LeaveDecisionResponse{LeaveResponse: s.mapToResponse(*row)}, nil
}

func (s *service) reject(ctx context.Context, row *LeaveRequest, note string) (LeaveDecisionResponse, error) {
	actorID, _ := uuid.Parse(contextutil.GetUserID(ctx))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.UpdateDecision(ctx, row.ID.String(), StatusRejected, actorID, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveDecisionResponse{}, leaveerrors.ErrAlreadyDecided
		}
		s.logger.Error("reject leave failed", zap.String("leave_request_id", row.ID.String()), zap.Error(err))
		return LeaveDecisionResponse{}, err
	}

	if err := s.emitDecision(ctx, tx, row, StatusRejected); err != nil {
		return LeaveDecisionResponse{}, err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leave.reject",
			EntityType: "leave_request",
			EntityID:   row.ID.String(),
			Details:    fmt.Sprintf("employee_id=%s", row.EmployeeID),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}

	s.markDecided(row, StatusRejected, actorID, note)

	s.logger.Info("reject leave success", zap.String("leave_request_id", row.ID.String()))
	return LeaveDecisionResponse{LeaveResponse: s.mapToResponse(*row)}, nil
}

// approve is the one write path that spans several tables: the status
// flip, the additive balance upsert, its ledger entry and any generated
// unpaid leave all commit or roll back together.
func (s *service) approve(ctx context.Context, row *LeaveRequest, note string) (LeaveDecisionResponse, error) {
	actorID, _ := uuid.Parse(contextutil.GetUserID(ctx))

	year := row.StartDate.Year()
	daysUsed := round2(HoursToDays(row.DurationHours, s.payrollCfg.WorkHoursPerDay))
	kind := KindOf(row.LeaveTypeID, s.leaveCfg)

	limit, err := s.limitFor(ctx, row.EmployeeID.String(), kind)
	if err != nil {
		return LeaveDecisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.UpdateDecision(ctx, row.ID.String(), StatusApproved, actorID, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveDecisionResponse{}, leaveerrors.ErrAlreadyDecided
		}
		s.logger.Error("approve leave failed", zap.String("leave_request_id", row.ID.String()), zap.Error(err))
		return LeaveDecisionResponse{}, err
	}

	// The upsert returns the post-add total read inside this
	// transaction, which is what the breach check must see.
	usedAfter, err := qtx.AddToBalance(ctx, row.EmployeeID, row.LeaveTypeID, year, daysUsed)
	if err != nil {
		s.logger.Error("approve leave balance upsert failed",
			zap.String("leave_request_id", row.ID.String()),
			zap.Error(err),
		)
		return LeaveDecisionResponse{}, err
	}

	requestID := row.ID
	if err := qtx.CreateLedgerEntry(ctx, &LeaveLedgerEntry{
		ID:              uuid.New(),
		EmployeeID:      row.EmployeeID,
		LeaveTypeID:     row.LeaveTypeID,
		Year:            year,
		DeltaDays:       daysUsed,
		SourceRequestID: &requestID,
		Note:            "leave approval",
	}); err != nil {
		s.logger.Error("approve leave ledger append failed",
			zap.String("leave_request_id", row.ID.String()),
			zap.Error(err),
		)
		return LeaveDecisionResponse{}, err
	}

	excess, raised, err := s.generateBreach(ctx, tx, row, kind, limit, usedAfter)
	if err != nil {
		return LeaveDecisionResponse{}, err
	}

	if err := s.emitDecision(ctx, tx, row, StatusApproved); err != nil {
		return LeaveDecisionResponse{}, err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "leave.approve",
			EntityType: "leave_request",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("employee_id=%s days_used=%.2f balance_after=%.2f unpaid_excess=%.2f",
				row.EmployeeID, daysUsed, usedAfter, excess),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.Error(err))
		return LeaveDecisionResponse{}, err
	}

	s.markDecided(row, StatusApproved, actorID, note)

	s.logger.Info("approve leave success",
		zap.String("leave_request_id", row.ID.String()),
		zap.String("employee_id", row.EmployeeID.String()),
		zap.Float64("days_used", daysUsed),
		zap.Float64("balance_after", usedAfter),
		zap.Bool("unpaid_leave_raised", raised),
	)

	return LeaveDecisionResponse{
		LeaveResponse:     s.mapToResponse(*row),
		DaysUsed:          daysUsed,
		BalanceAfter:      usedAfter,
		LimitDays:         limit,
		UnpaidExcessDays:  excess,
		UnpaidLeaveRaised: raised,
	}, nil
}

// limitFor resolves the grade limit guarding this request's leave kind.
// Kinds without an entitlement, and grades without a rule row, come
// back as 0, which disables the breach check entirely.
func (s *service) limitFor(ctx context.Context, employeeID string, kind Kind) (float64, error) {
	if kind != KindAnnual && kind != KindMedical {
		return 0, nil
	}

	empl, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, employeeerrors.ErrEmployeeNotFound
		}
		return 0, err
	}

	rule, err := s.ruleRepo.FindByGrade(ctx, empl.GradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("no leave rule for grade, breach check disabled",
				zap.Int("grade_id", empl.GradeID),
			)
			return 0, nil
		}
		return 0, err
	}

	if kind == KindAnnual {
		return rule.AnnualLimitDays, nil
	}
	return rule.MedicalLimitDays, nil
}

// generateBreach raises an unpaid leave for the amount by which the
// post-approval total exceeds the limit. Every qualifying approval that
// keeps the employee over the limit produces a fresh row; prior rows
// for the same breach are never amended.
func (s *service) generateBreach(ctx context.Context, tx *sql.Tx, row *LeaveRequest, kind Kind, limit, usedAfter float64) (float64, bool, error) {
	if limit <= 0 || usedAfter <= limit {
		return 0, false, nil
	}

	excess := round2(usedAfter - limit)
	if excess <= 0.01 {
		// Guard band so float dust never becomes a payroll deduction.
		return 0, false, nil
	}

	unpaid := &unpaidleave.UnpaidLeave{
		ID:         uuid.New(),
		EmployeeID: row.EmployeeID,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		TotalDays:  excess,
		Status:     unpaidleave.StatusPending,
		Reason: fmt.Sprintf("%s leave limit of %.2f days exceeded: %.2f days used, %.2f days over",
			kind, limit, usedAfter, excess),
	}

	if err := s.unpaidRepo.WithTx(tx).Create(ctx, unpaid); err != nil {
		s.logger.Error("approve leave unpaid generation failed",
			zap.String("leave_request_id", row.ID.String()),
			zap.Error(err),
		)
		return 0, false, err
	}

	s.logger.Warn("entitlement breach generated unpaid leave",
		zap.String("leave_request_id", row.ID.String()),
		zap.String("employee_id", row.EmployeeID.String()),
		zap.String("leave_kind", kind.String()),
		zap.Float64("limit_days", limit),
		zap.Float64("excess_days", excess),
	)

	return excess, true, nil
}

func (s *service) emitDecision(ctx context.Context, tx *sql.Tx, row *LeaveRequest, status string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:      "leave_decided",
		LeaveRequestID: row.ID.String(),
		EmployeeID:     row.EmployeeID.String(),
		LeaveTypeID:    row.LeaveTypeID,
		Status:         status,
		DurationHours:  row.DurationHours,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave decision event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   row.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave decision outbox persist failed",
			zap.String("leave_request_id", row.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.ListBalances(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("list leave balances failed", zap.Error(err))
		return nil, err
	}

	res := make([]LeaveBalanceResponse, len(rows))
	for i, row := range rows {
		res[i] = LeaveBalanceResponse{
			EmployeeID:   row.EmployeeID.String(),
			LeaveTypeID:  row.LeaveTypeID,
			LeaveKind:    KindOf(row.LeaveTypeID, s.leaveCfg).String(),
			Year:         row.Year,
			EntitledDays: row.EntitledDays,
			UsedDays:     row.UsedDays,
			UpdatedAt:    row.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return res, nil
}

func (s *service) GetLedger(ctx context.Context, employeeID string, year int) ([]LeaveLedgerEntryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.ListLedger(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("list leave ledger failed", zap.Error(err))
		return nil, err
	}

	res := make([]LeaveLedgerEntryResponse, len(rows))
	for i, row := range rows {
		entry := LeaveLedgerEntryResponse{
			ID:          row.ID.String(),
			EmployeeID:  row.EmployeeID.String(),
			LeaveTypeID: row.LeaveTypeID,
			Year:        row.Year,
			DeltaDays:   row.DeltaDays,
			Note:        row.Note,
			CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if row.SourceRequestID != nil {
			entry.SourceRequestID = row.SourceRequestID.String()
		}
		res[i] = entry
	}
	return res, nil
}

func (s *service) markDecided(row *LeaveRequest, status string, actorID uuid.UUID, note string) {
	now := time.Now().UTC()
	row.Status = status
	row.DecidedBy = &actorID
	row.DecidedAt = &now
	row.DecisionNote = note
	row.UpdatedAt = now
}

func mapLeaveError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return employeeerrors.ErrEmployeeNotFound
	}
	if strings.Contains(strings.ToLower(err.Error()), "violates foreign key constraint") {
		return employeeerrors.ErrEmployeeNotFound
	}

	return err
}

func (s *service) mapToResponse(row LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            row.ID.String(),
		EmployeeID:    row.EmployeeID.String(),
		EmployeeName:  row.EmployeeName,
		LeaveTypeID:   row.LeaveTypeID,
		LeaveKind:     KindOf(row.LeaveTypeID, s.leaveCfg).String(),
		StartDate:     row.StartDate.Format("2006-01-02"),
		EndDate:       row.EndDate.Format("2006-01-02"),
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		DurationHours: row.DurationHours,
		CalendarDays:  CalendarDays(row.StartDate, row.EndDate),
		Reason:        row.Reason,
		Status:        row.Status,
		DecisionNote:  row.DecisionNote,
		CreatedAt:     row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.DecidedBy != nil {
		resp.DecidedBy = row.DecidedBy.String()
	}
	if row.DecidedAt != nil {
		resp.DecidedAt = row.DecidedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
