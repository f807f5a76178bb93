package paycomponent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	paycomponenterrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/paycomponent/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
)

//go:generate mockgen -source=paycomponent_service.go -destination=mock/paycomponent_service_mock.go -package=mock
type Service interface {
	CreateAllowance(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error)
	ListAllowances(ctx context.Context, filter ComponentFilter) ([]AllowanceResponse, error)
	UpdateAllowance(ctx context.Context, id string, req UpdateAllowanceRequest) (AllowanceResponse, error)
	DeleteAllowance(ctx context.Context, id string) error

	CreateBonus(ctx context.Context, req CreateBonusRequest) (BonusResponse, error)
	ListBonuses(ctx context.Context, filter ComponentFilter) ([]BonusResponse, error)
	DeleteBonus(ctx context.Context, id string) error

	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, filter ComponentFilter) ([]DeductionResponse, error)
	UpdateDeduction(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error)
	DeleteDeduction(ctx context.Context, id string) error

	CreateOvertime(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)
	ListOvertime(ctx context.Context, filter ComponentFilter) ([]OvertimeResponse, error)
	DeleteOvertime(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("paycomponent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paycomponent.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) CreateAllowance(ctx context.Context, req CreateAllowanceRequest) (AllowanceResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AllowanceResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	from, err := parseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDate
	}
	to, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDate
	}
	if from != nil && to != nil && from.After(*to) {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDateWindow
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	row := &Allowance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Name:          req.Name,
		Amount:        req.Amount,
		Status:        status,
		EffectiveFrom: from,
		EffectiveTo:   to,
	}

	err = s.inTx(ctx, "allowance.create", row.ID.String(), "allowance",
		fmt.Sprintf("name=%s amount=%.2f", row.Name, row.Amount),
		func(qtx Repository) error {
			return qtx.CreateAllowance(ctx, row)
		})
	if err != nil {
		return AllowanceResponse{}, mapComponentError(err, paycomponenterrors.ErrAllowanceNotFound)
	}

	return mapAllowance(*row), nil
}

func (s *service) ListAllowances(ctx context.Context, filter ComponentFilter) ([]AllowanceResponse, error) {
	rows, err := s.repo.ListAllowances(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]AllowanceResponse, len(rows))
	for i, row := range rows {
		res[i] = mapAllowance(row)
	}
	return res, nil
}

func (s *service) UpdateAllowance(ctx context.Context, id string, req UpdateAllowanceRequest) (AllowanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidComponentID
	}

	existing, err := s.repo.FindAllowanceByID(ctx, id)
	if err != nil {
		return AllowanceResponse{}, mapComponentError(err, paycomponenterrors.ErrAllowanceNotFound)
	}

	from, err := parseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDate
	}
	to, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDate
	}
	if from != nil && to != nil && from.After(*to) {
		return AllowanceResponse{}, paycomponenterrors.ErrInvalidDateWindow
	}

	existing.Name = req.Name
	existing.Amount = req.Amount
	existing.Status = req.Status
	existing.EffectiveFrom = from
	existing.EffectiveTo = to

	err = s.inTx(ctx, "allowance.update", id, "allowance", "",
		func(qtx Repository) error {
			return qtx.UpdateAllowance(ctx, existing)
		})
	if err != nil {
		return AllowanceResponse{}, mapComponentError(err, paycomponenterrors.ErrAllowanceNotFound)
	}

	return mapAllowance(*existing), nil
}

func (s *service) DeleteAllowance(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return paycomponenterrors.ErrInvalidComponentID
	}

	err := s.inTx(ctx, "allowance.delete", id, "allowance", "",
		func(qtx Repository) error {
			return qtx.DeleteAllowance(ctx, id)
		})
	return mapComponentError(err, paycomponenterrors.ErrAllowanceNotFound)
}

func (s *service) CreateBonus(ctx context.Context, req CreateBonusRequest) (BonusResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BonusResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return BonusResponse{}, paycomponenterrors.ErrInvalidDate
	}

	row := &Bonus{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Reason:        req.Reason,
		Amount:        req.Amount,
		EffectiveDate: effectiveDate,
	}

	err = s.inTx(ctx, "bonus.create", row.ID.String(), "bonus",
		fmt.Sprintf("amount=%.2f effective_date=%s", row.Amount, req.EffectiveDate),
		func(qtx Repository) error {
			return qtx.CreateBonus(ctx, row)
		})
	if err != nil {
		return BonusResponse{}, mapComponentError(err, paycomponenterrors.ErrBonusNotFound)
	}

	return mapBonus(*row), nil
}

func (s *service) ListBonuses(ctx context.Context, filter ComponentFilter) ([]BonusResponse, error) {
	rows, err := s.repo.ListBonuses(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]BonusResponse, len(rows))
	for i, row := range rows {
		res[i] = mapBonus(row)
	}
	return res, nil
}

func (s *service) DeleteBonus(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return paycomponenterrors.ErrInvalidComponentID
	}

	err := s.inTx(ctx, "bonus.delete", id, "bonus", "",
		func(qtx Repository) error {
			return qtx.DeleteBonus(ctx, id)
		})
	return mapComponentError(err, paycomponenterrors.ErrBonusNotFound)
}

func (s *service) CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return DeductionResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return DeductionResponse{}, paycomponenterrors.ErrInvalidDate
	}

	if req.Basis == BasisPercent && (req.PercentValue < 0 || req.PercentValue > 100) {
		return DeductionResponse{}, paycomponenterrors.ErrInvalidPercent
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	row := &Deduction{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Name:          req.Name,
		Basis:         req.Basis,
		Amount:        req.Amount,
		PercentValue:  req.PercentValue,
		Status:        status,
		EffectiveDate: effectiveDate,
	}

	err = s.inTx(ctx, "deduction.create", row.ID.String(), "deduction",
		fmt.Sprintf("name=%s basis=%s", row.Name, row.Basis),
		func(qtx Repository) error {
			return qtx.CreateDeduction(ctx, row)
		})
	if err != nil {
		return DeductionResponse{}, mapComponentError(err, paycomponenterrors.ErrDeductionNotFound)
	}

	return mapDeduction(*row), nil
}

func (s *service) ListDeductions(ctx context.Context, filter ComponentFilter) ([]DeductionResponse, error) {
	rows, err := s.repo.ListDeductions(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]DeductionResponse, len(rows))
	for i, row := range rows {
		res[i] = mapDeduction(row)
	}
	return res, nil
}

func (s *service) UpdateDeduction(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeductionResponse{}, paycomponenterrors.ErrInvalidComponentID
	}

	existing, err := s.repo.FindDeductionByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapComponentError(err, paycomponenterrors.ErrDeductionNotFound)
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return DeductionResponse{}, paycomponenterrors.ErrInvalidDate
	}

	if req.Basis == BasisPercent && (req.PercentValue < 0 || req.PercentValue > 100) {
		return DeductionResponse{}, paycomponenterrors.ErrInvalidPercent
	}

	existing.Name = req.Name
	existing.Basis = req.Basis
	existing.Amount = req.Amount
	existing.PercentValue = req.PercentValue
	existing.Status = req.Status
	existing.EffectiveDate = effectiveDate

	err = s.inTx(ctx, "deduction.update", id, "deduction", "",
		func(qtx Repository) error {
			return qtx.UpdateDeduction(ctx, existing)
		})
	if err != nil {
		return DeductionResponse{}, mapComponentError(err, paycomponenterrors.ErrDeductionNotFound)
	}

	return mapDeduction(*existing), nil
}

func (s *service) DeleteDeduction(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return paycomponenterrors.ErrInvalidComponentID
	}

	err := s.inTx(ctx, "deduction.delete", id, "deduction", "",
		func(qtx Repository) error {
			return qtx.DeleteDeduction(ctx, id)
		})
	return mapComponentError(err, paycomponenterrors.ErrDeductionNotFound)
}

func (s *service) CreateOvertime(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return OvertimeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	row := &OvertimeAdjustment{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		OtHours:    req.OtHours,
		OtRate:     req.OtRate,
		Note:       req.Note,
	}

	err = s.inTx(ctx, "overtime.create", row.ID.String(), "overtime_adjustment",
		fmt.Sprintf("ot_hours=%.2f ot_rate=%.2f", row.OtHours, row.OtRate),
		func(qtx Repository) error {
			return qtx.CreateOvertime(ctx, row)
		})
	if err != nil {
		return OvertimeResponse{}, mapComponentError(err, paycomponenterrors.ErrOvertimeNotFound)
	}

	row.CreatedAt = time.Now().UTC()
	return mapOvertime(*row), nil
}

func (s *service) ListOvertime(ctx context.Context, filter ComponentFilter) ([]OvertimeResponse, error) {
	rows, err := s.repo.ListOvertime(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]OvertimeResponse, len(rows))
	for i, row := range rows {
		res[i] = mapOvertime(row)
	}
	return res, nil
}

func (s *service) DeleteOvertime(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return paycomponenterrors.ErrInvalidComponentID
	}

	err := s.inTx(ctx, "overtime.delete", id, "overtime_adjustment", "",
		func(qtx Repository) error {
			return qtx.DeleteOvertime(ctx, id)
		})
	return mapComponentError(err, paycomponenterrors.ErrOvertimeNotFound)
}

// inTx runs one mutation plus its audit entry in a single transaction.
func (s *service) inTx(ctx context.Context, action, entityID, entityType, details string, fn func(qtx Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin tx failed", zap.String("action", action), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := fn(s.repo.WithTx(tx)); err != nil {
		s.logger.Error("pay component mutation failed",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return err
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("action", action), zap.Error(err))
		return err
	}

	return nil
}

func mapComponentError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
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

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapAllowance(a Allowance) AllowanceResponse {
	resp := AllowanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Name:       a.Name,
		Amount:     a.Amount,
		Status:     a.Status,
	}
	if a.EffectiveFrom != nil {
		resp.EffectiveFrom = a.EffectiveFrom.Format("2006-01-02")
	}
	if a.EffectiveTo != nil {
		resp.EffectiveTo = a.EffectiveTo.Format("2006-01-02")
	}
	return resp
}

func mapBonus(b Bonus) BonusResponse {
	return BonusResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		Reason:        b.Reason,
		Amount:        b.Amount,
		EffectiveDate: b.EffectiveDate.Format("2006-01-02"),
	}
}

func mapDeduction(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:            d.ID.String(),
		EmployeeID:    d.EmployeeID.String(),
		Name:          d.Name,
		Basis:         d.Basis,
		Amount:        d.Amount,
		PercentValue:  d.PercentValue,
		Status:        d.Status,
		EffectiveDate: d.EffectiveDate.Format("2006-01-02"),
	}
}

func mapOvertime(o OvertimeAdjustment) OvertimeResponse {
	return OvertimeResponse{
		ID:         o.ID.String(),
		EmployeeID: o.EmployeeID.String(),
		OtHours:    o.OtHours,
		OtRate:     o.OtRate,
		Note:       o.Note,
		CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
