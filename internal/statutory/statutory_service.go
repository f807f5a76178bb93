package statutory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	employeeerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/contextutil"
	statutoryerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/statutory/errors"
)

const (
	skipAlreadyProcessed = "transaction already exists for period"
	skipNoConfig         = "no EPF/ETF configuration"
	skipZeroGross        = "gross salary is zero for period"
)

// GrossSource yields the period earnings picture. The payroll
// calculator satisfies it, which keeps the gross recorded on a
// statutory transaction identical to the one on the payslip.
type GrossSource interface {
	Gross(ctx context.Context, employeeID string, p payperiod.Period) (payroll.GrossBreakdown, error)
}

//go:generate mockgen -source=statutory_service.go -destination=mock/statutory_service_mock.go -package=mock
type Service interface {
	UpsertConfig(ctx context.Context, req UpsertConfigRequest) (ConfigResponse, error)
	GetConfigByEmployee(ctx context.Context, employeeID string) (ConfigResponse, error)
	ListConfigs(ctx context.Context) ([]ConfigResponse, error)

	// ProcessPeriod runs the statutory batch for a period. Employees
	// that cannot be processed are skipped with a recorded reason; the
	// batch itself only fails on infrastructure errors.
	ProcessPeriod(ctx context.Context, req ProcessPeriodRequest) (ProcessRunResponse, error)

	ListEligible(ctx context.Context, year, month int) ([]EligibleEmployeeResponse, error)
	GetTransactionByID(ctx context.Context, id string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, filter ListTransactionFilter) ([]TransactionResponse, error)

	// ProvisionDefault writes an empty configuration row for a freshly
	// created employee, leaving every rate on its default. Safe to call
	// more than once.
	ProvisionDefault(ctx context.Context, employeeID string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	gross   GrossSource
	rates   *RateSource
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	gross GrossSource,
	rates *RateSource,
	auditor audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("statutory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statutory.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		gross:   gross,
		rates:   rates,
		auditor: auditor,
		logger:  l,
	}
}

func (s *service) UpsertConfig(ctx context.Context, req UpsertConfigRequest) (ConfigResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ConfigResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	for _, rate := range []float64{req.EpfContributionRate, req.EmployerEpfRate, req.EtfContributionRate} {
		if rate < 0 || rate > 100 {
			return ConfigResponse{}, statutoryerrors.ErrInvalidRate
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert statutory config begin tx failed", zap.Error(err))
		return ConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &EtfEpfConfig{
		ID:                  uuid.New(),
		EmployeeID:          employeeID,
		EpfNumber:           req.EpfNumber,
		EtfNumber:           req.EtfNumber,
		EpfContributionRate: req.EpfContributionRate,
		EmployerEpfRate:     req.EmployerEpfRate,
		EtfContributionRate: req.EtfContributionRate,
	}

	if err := qtx.UpsertConfig(ctx, row); err != nil {
		s.logger.Error("upsert statutory config persist failed",
			zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return ConfigResponse{}, mapStatutoryError(err)
	}

	if s.auditor != nil {
		s.auditor.WithTx(tx).Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "statutory.config.upsert",
			EntityType: "etf_epf_config",
			EntityID:   row.ID.String(),
			Details: fmt.Sprintf("employee_id=%s epf_rate=%.2f employer_epf_rate=%.2f etf_rate=%.2f",
				employeeID, req.EpfContributionRate, req.EmployerEpfRate, req.EtfContributionRate),
		})
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert statutory config commit failed", zap.Error(err))
		return ConfigResponse{}, err
	}

	row.UpdatedAt = time.Now().UTC()

	s.logger.Info("upsert statutory config success",
		zap.String("employee_id", employeeID.String()),
	)

	return mapConfigToResponse(*row), nil
}

func (s *service) GetConfigByEmployee(ctx context.Context, employeeID string) (ConfigResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return ConfigResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindConfigByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConfigResponse{}, statutoryerrors.ErrConfigNotFound
		}
		return ConfigResponse{}, err
	}

	return mapConfigToResponse(*row), nil
}

func (s *service) ListConfigs(ctx context.Context) ([]ConfigResponse, error) {
	rows, err := s.repo.ListConfigs(ctx)
	if err != nil {
		s.logger.Error("list statutory configs failed", zap.Error(err))
		return nil, err
	}

	res := make([]ConfigResponse, len(rows))
	for i, row := range rows {
		res[i] = mapConfigToResponse(row)
	}
	return res, nil
}

func (s *service) ProcessPeriod(ctx context.Context, req ProcessPeriodRequest) (ProcessRunResponse, error) {
	p, err := payperiod.Resolve(req.Year, req.Month)
	if err != nil {
		return ProcessRunResponse{}, err
	}

	ids := req.EmployeeIDs
	if len(ids) == 0 {
		eligible, err := s.repo.ListEligibleEmployees(ctx, p)
		if err != nil {
			s.logger.Error("list eligible employees failed", zap.Error(err))
			return ProcessRunResponse{}, err
		}
		ids = make([]string, len(eligible))
		for i, e := range eligible {
			ids[i] = e.ID
		}
	}

	run := ProcessRunResponse{PeriodYear: p.Year, PeriodMonth: p.Month}

	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return ProcessRunResponse{}, employeeerrors.ErrInvalidEmployeeID
		}

		txn, skip, err := s.processEmployee(ctx, id, p)
		if err != nil {
			return ProcessRunResponse{}, err
		}
		if skip != "" {
			s.logger.Info("statutory processing skipped employee",
				zap.String("employee_id", id),
				zap.String("period", p.String()),
				zap.String("reason", skip),
			)
			run.Skipped = append(run.Skipped, ProcessSkip{EmployeeID: id, Reason: skip})
			continue
		}

		run.Processed = append(run.Processed, mapTransactionToResponse(*txn))
	}

	run.ProcessedCount = len(run.Processed)
	run.SkippedCount = len(run.Skipped)

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			ActorID:    contextutil.GetUserID(ctx),
			Action:     "statutory.process",
			EntityType: "etf_epf_transaction",
			EntityID:   p.String(),
			Details: fmt.Sprintf("period=%s processed=%d skipped=%d",
				p, run.ProcessedCount, run.SkippedCount),
		})
	}

	s.logger.Info("statutory run completed",
		zap.String("period", p.String()),
		zap.Int("processed", run.ProcessedCount),
		zap.Int("skipped", run.SkippedCount),
	)

	return run, nil
}

// processEmployee applies the skip chain for one employee: an existing
// transaction, a missing configuration or a zero gross each end the
// attempt quietly. A non-empty skip reason means no row was written.
func (s *service) processEmployee(ctx context.Context, employeeID string, p payperiod.Period) (*EtfEpfTransaction, string, error) {
	exists, err := s.repo.TransactionExists(ctx, employeeID, p.Year, p.Month)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, skipAlreadyProcessed, nil
	}

	if _, err := s.repo.FindConfigByEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, skipNoConfig, nil
		}
		return nil, "", err
	}

	gross, err := s.gross.Gross(ctx, employeeID, p)
	if err != nil {
		s.logger.Error("statutory gross aggregation failed",
			zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}
	if gross.Gross <= 0 {
		return nil, skipZeroGross, nil
	}

	epfRate, employerRate, etfRate, err := s.rates.ContributionRates(ctx, employeeID)
	if err != nil {
		return nil, "", err
	}

	txn := &EtfEpfTransaction{
		ID:                uuid.New(),
		EmployeeID:        uuid.MustParse(employeeID),
		PeriodYear:        p.Year,
		PeriodMonth:       p.Month,
		GrossSalary:       round2(gross.Gross),
		EmployeeEpfAmount: round2(gross.Gross * epfRate / 100),
		EpfEmployerShare:  round2(gross.Gross * employerRate / 100),
		EmployerEtfAmount: round2(gross.Gross * etfRate / 100),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		// A concurrent run may have inserted the same key between the
		// existence check and here; that race is the same benign skip.
		if isUniqueViolation(err) {
			return nil, skipAlreadyProcessed, nil
		}
		s.logger.Error("statutory transaction persist failed",
			zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", mapStatutoryError(err)
	}

	return txn, "", nil
}

func (s *service) ListEligible(ctx context.Context, year, month int) ([]EligibleEmployeeResponse, error) {
	p, err := payperiod.Resolve(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListEligibleEmployees(ctx, p)
	if err != nil {
		s.logger.Error("list eligible employees failed", zap.Error(err))
		return nil, err
	}

	res := make([]EligibleEmployeeResponse, len(rows))
	for i, row := range rows {
		res[i] = EligibleEmployeeResponse{
			EmployeeID:     row.ID,
			EmployeeNumber: row.EmployeeNumber,
			FullName:       row.FullName,
			JoiningDate:    row.JoiningDate.Format("2006-01-02"),
			HasConfig:      row.HasConfig,
		}
	}
	return res, nil
}

func (s *service) GetTransactionByID(ctx context.Context, id string) (TransactionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransactionResponse{}, statutoryerrors.ErrTransactionNotFound
	}

	row, err := s.repo.FindTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransactionResponse{}, statutoryerrors.ErrTransactionNotFound
		}
		return TransactionResponse{}, err
	}

	return mapTransactionToResponse(*row), nil
}

func (s *service) ListTransactions(ctx context.Context, filter ListTransactionFilter) ([]TransactionResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, employeeerrors.ErrInvalidEmployeeID
		}
	}

	rows, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		s.logger.Error("list statutory transactions failed", zap.Error(err))
		return nil, err
	}

	res := make([]TransactionResponse, len(rows))
	for i, row := range rows {
		res[i] = mapTransactionToResponse(row)
	}
	return res, nil
}

func (s *service) ProvisionDefault(ctx context.Context, employeeID string) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	_, err := s.repo.FindConfigByEmployee(ctx, employeeID)
	if err == nil {
		s.logger.Debug("statutory config already provisioned, skipping",
			zap.String("employee_id", employeeID),
		)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	_, err = s.UpsertConfig(ctx, UpsertConfigRequest{EmployeeID: employeeID})
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}

func mapStatutoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return statutoryerrors.ErrConfigNotFound
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

func mapConfigToResponse(row EtfEpfConfig) ConfigResponse {
	return ConfigResponse{
		ID:                  row.ID.String(),
		EmployeeID:          row.EmployeeID.String(),
		EmployeeName:        row.EmployeeName,
		EpfNumber:           row.EpfNumber,
		EtfNumber:           row.EtfNumber,
		EpfContributionRate: row.EpfContributionRate,
		EmployerEpfRate:     row.EmployerEpfRate,
		EtfContributionRate: row.EtfContributionRate,
		UpdatedAt:           row.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapTransactionToResponse(row EtfEpfTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                row.ID.String(),
		EmployeeID:        row.EmployeeID.String(),
		EmployeeName:      row.EmployeeName,
		PeriodYear:        row.PeriodYear,
		PeriodMonth:       row.PeriodMonth,
		GrossSalary:       row.GrossSalary,
		EmployeeEpfAmount: row.EmployeeEpfAmount,
		EpfEmployerShare:  row.EpfEmployerShare,
		EmployerEtfAmount: row.EmployerEtfAmount,
		CreatedAt:         row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
