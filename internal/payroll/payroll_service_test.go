package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/paycomponent"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll"
	payrollerrors "github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll/errors"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
)

type fakeSalaryRepository struct {
	findLatestByEmployeeFn func(ctx context.Context, employeeID string) (*salary.Salary, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository { return f }
func (f *fakeSalaryRepository) Create(ctx context.Context, s *salary.Salary) error {
	return nil
}
func (f *fakeSalaryRepository) FindAll(ctx context.Context) ([]salary.Salary, error) {
	return nil, nil
}
func (f *fakeSalaryRepository) FindByID(ctx context.Context, id string) (*salary.Salary, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeSalaryRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]salary.Salary, error) {
	return nil, nil
}
func (f *fakeSalaryRepository) FindLatestByEmployee(ctx context.Context, employeeID string) (*salary.Salary, error) {
	if f.findLatestByEmployeeFn != nil {
		return f.findLatestByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeSalaryRepository) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	return false, nil
}
func (f *fakeSalaryRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeComponentRepository struct {
	listAllowancesFn func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Allowance, error)
	listBonusesFn    func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Bonus, error)
	listDeductionsFn func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Deduction, error)
	listOvertimeFn   func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.OvertimeAdjustment, error)
}

func (f *fakeComponentRepository) WithTx(tx *sql.Tx) paycomponent.Repository { return f }
func (f *fakeComponentRepository) CreateAllowance(ctx context.Context, a *paycomponent.Allowance) error {
	return nil
}
func (f *fakeComponentRepository) ListAllowances(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Allowance, error) {
	if f.listAllowancesFn != nil {
		return f.listAllowancesFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeComponentRepository) FindAllowanceByID(ctx context.Context, id string) (*paycomponent.Allowance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeComponentRepository) UpdateAllowance(ctx context.Context, a *paycomponent.Allowance) error {
	return nil
}
func (f *fakeComponentRepository) DeleteAllowance(ctx context.Context, id string) error { return nil }
func (f *fakeComponentRepository) CreateBonus(ctx context.Context, b *paycomponent.Bonus) error {
	return nil
}
func (f *fakeComponentRepository) ListBonuses(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Bonus, error) {
	if f.listBonusesFn != nil {
		return f.listBonusesFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeComponentRepository) DeleteBonus(ctx context.Context, id string) error { return nil }
func (f *fakeComponentRepository) CreateDeduction(ctx context.Context, d *paycomponent.Deduction) error {
	return nil
}
func (f *fakeComponentRepository) ListDeductions(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Deduction, error) {
	if f.listDeductionsFn != nil {
		return f.listDeductionsFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeComponentRepository) FindDeductionByID(ctx context.Context, id string) (*paycomponent.Deduction, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeComponentRepository) UpdateDeduction(ctx context.Context, d *paycomponent.Deduction) error {
	return nil
}
func (f *fakeComponentRepository) DeleteDeduction(ctx context.Context, id string) error { return nil }
func (f *fakeComponentRepository) CreateOvertime(ctx context.Context, o *paycomponent.OvertimeAdjustment) error {
	return nil
}
func (f *fakeComponentRepository) ListOvertime(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.OvertimeAdjustment, error) {
	if f.listOvertimeFn != nil {
		return f.listOvertimeFn(ctx, filter)
	}
	return nil, nil
}
func (f *fakeComponentRepository) DeleteOvertime(ctx context.Context, id string) error { return nil }

type fakeUnpaidRepository struct {
	listProcessedInPeriodFn func(ctx context.Context, employeeID string, p payperiod.Period) ([]unpaidleave.UnpaidLeave, error)
}

func (f *fakeUnpaidRepository) WithTx(tx *sql.Tx) unpaidleave.Repository { return f }
func (f *fakeUnpaidRepository) Create(ctx context.Context, u *unpaidleave.UnpaidLeave) error {
	return nil
}
func (f *fakeUnpaidRepository) FindAll(ctx context.Context, filter unpaidleave.ListUnpaidLeaveFilter) ([]unpaidleave.UnpaidLeave, error) {
	return nil, nil
}
func (f *fakeUnpaidRepository) FindByID(ctx context.Context, id string) (*unpaidleave.UnpaidLeave, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUnpaidRepository) MarkProcessed(ctx context.Context, id string, amount float64) error {
	return nil
}
func (f *fakeUnpaidRepository) ListProcessedInPeriod(ctx context.Context, employeeID string, p payperiod.Period) ([]unpaidleave.UnpaidLeave, error) {
	if f.listProcessedInPeriodFn != nil {
		return f.listProcessedInPeriodFn(ctx, employeeID, p)
	}
	return nil, nil
}
func (f *fakeUnpaidRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeRates struct {
	epfEmployee, epfEmployer, etf float64
}

func (f *fakeRates) ContributionRates(ctx context.Context, employeeID string) (float64, float64, float64, error) {
	return f.epfEmployee, f.epfEmployer, f.etf, nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context, filter employee.ListEmployeeFilter) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeTransferRepository struct {
	rows map[string]*payroll.PayrollTransfer

	createFn           func(ctx context.Context, transfer *payroll.PayrollTransfer) error
	existsForPeriodFn  func(ctx context.Context, employeeID string, year, month int) (bool, error)
	upsertProcessingFn func(ctx context.Context, transfer *payroll.PayrollTransfer) (bool, error)
	markCompletedFn    func(ctx context.Context, id string) error
	findByIDFn         func(ctx context.Context, id string) (*payroll.PayrollTransfer, error)
}

func newFakeTransferRepository() *fakeTransferRepository {
	return &fakeTransferRepository{rows: make(map[string]*payroll.PayrollTransfer)}
}

func transferKey(employeeID string, year, month int) string {
	return employeeID + "|" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (f *fakeTransferRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakeTransferRepository) Create(ctx context.Context, transfer *payroll.PayrollTransfer) error {
	if f.createFn != nil {
		return f.createFn(ctx, transfer)
	}
	f.rows[transferKey(transfer.EmployeeID.String(), transfer.PeriodYear, transfer.PeriodMonth)] = transfer
	return nil
}

func (f *fakeTransferRepository) ExistsForPeriod(ctx context.Context, employeeID string, year, month int) (bool, error) {
	if f.existsForPeriodFn != nil {
		return f.existsForPeriodFn(ctx, employeeID, year, month)
	}
	_, ok := f.rows[transferKey(employeeID, year, month)]
	return ok, nil
}

func (f *fakeTransferRepository) UpsertProcessing(ctx context.Context, transfer *payroll.PayrollTransfer) (bool, error) {
	if f.upsertProcessingFn != nil {
		return f.upsertProcessingFn(ctx, transfer)
	}
	key := transferKey(transfer.EmployeeID.String(), transfer.PeriodYear, transfer.PeriodMonth)
	if existing, ok := f.rows[key]; ok && existing.Status == payroll.StatusCompleted {
		return false, nil
	}
	f.rows[key] = transfer
	return true, nil
}

func (f *fakeTransferRepository) MarkCompleted(ctx context.Context, id string) error {
	if f.markCompletedFn != nil {
		return f.markCompletedFn(ctx, id)
	}
	return nil
}

func (f *fakeTransferRepository) FindAll(ctx context.Context, filter payroll.ListTransferFilter) ([]payroll.PayrollTransfer, error) {
	var out []payroll.PayrollTransfer
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeTransferRepository) FindByID(ctx context.Context, id string) (*payroll.PayrollTransfer, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	for _, row := range f.rows {
		if row.ID.String() == id {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) WithTx(tx *sql.Tx) audit.Recorder { return f }

func (f *fakeRecorder) Record(ctx context.Context, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

type payrollServiceDeps struct {
	db            *sql.DB
	sqlMock       sqlmock.Sqlmock
	service       payroll.Service
	calc          *payroll.Calculator
	salaryRepo    *fakeSalaryRepository
	componentRepo *fakeComponentRepository
	unpaidRepo    *fakeUnpaidRepository
	employeeRepo  *fakeEmployeeRepository
	transferRepo  *fakeTransferRepository
	auditor       *fakeRecorder
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	salaryRepo := &fakeSalaryRepository{}
	componentRepo := &fakeComponentRepository{}
	unpaidRepo := &fakeUnpaidRepository{}
	employeeRepo := &fakeEmployeeRepository{}
	transferRepo := newFakeTransferRepository()
	auditor := &fakeRecorder{}
	rates := &fakeRates{epfEmployee: 8, epfEmployer: 12, etf: 3}

	calc := payroll.NewCalculator(salaryRepo, componentRepo, unpaidRepo, rates, zap.NewNop())
	svc := payroll.NewService(db, transferRepo, employeeRepo, calc, nil, auditor, zap.NewNop())

	return &payrollServiceDeps{
		db:            db,
		sqlMock:       sqlMock,
		service:       svc,
		calc:          calc,
		salaryRepo:    salaryRepo,
		componentRepo: componentRepo,
		unpaidRepo:    unpaidRepo,
		employeeRepo:  employeeRepo,
		transferRepo:  transferRepo,
		auditor:       auditor,
	}
}

// seedEarnings sets up the recurring example: basic 50000 plus one
// active 2000 allowance covering the whole month.
func (d *payrollServiceDeps) seedEarnings(employeeID uuid.UUID) {
	d.salaryRepo.findLatestByEmployeeFn = func(ctx context.Context, id string) (*salary.Salary, error) {
		return &salary.Salary{ID: uuid.New(), EmployeeID: employeeID, BasicSalary: 50000}, nil
	}
	d.componentRepo.listAllowancesFn = func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Allowance, error) {
		return []paycomponent.Allowance{
			{ID: uuid.New(), EmployeeID: employeeID, Name: "Travel", Amount: 2000, Status: paycomponent.StatusActive},
		}, nil
	}
}

func TestCalculator_Gross(t *testing.T) {
	ctx := context.Background()
	p, _ := payperiod.Resolve(2024, 3)

	t.Run("sums basic, allowances, overtime and bonuses", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.seedEarnings(employeeID)
		deps.componentRepo.listOvertimeFn = func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.OvertimeAdjustment, error) {
			return []paycomponent.OvertimeAdjustment{
				{ID: uuid.New(), EmployeeID: employeeID, OtHours: 10, OtRate: 150},
			}, nil
		}
		deps.componentRepo.listBonusesFn = func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Bonus, error) {
			return []paycomponent.Bonus{
				{ID: uuid.New(), EmployeeID: employeeID, Reason: "Quarterly", Amount: 5000},
			}, nil
		}

		gross, err := deps.calc.Gross(ctx, employeeID.String(), p)

		assert.NoError(t, err)
		assert.Equal(t, 50000.0, gross.BasicSalary)
		assert.Equal(t, 2000.0, gross.Allowances)
		assert.Equal(t, 1500.0, gross.Overtime)
		assert.Equal(t, 5000.0, gross.Bonuses)
		assert.Equal(t, 58500.0, gross.Gross)
	})

	t.Run("no salary row means zero basic, not an error", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		gross, err := deps.calc.Gross(ctx, uuid.New().String(), p)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, gross.BasicSalary)
		assert.Equal(t, 0.0, gross.Gross)
	})

	t.Run("inactive allowances are excluded", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.componentRepo.listAllowancesFn = func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Allowance, error) {
			return []paycomponent.Allowance{
				{ID: uuid.New(), EmployeeID: employeeID, Name: "Travel", Amount: 2000, Status: paycomponent.StatusInactive},
			}, nil
		}

		gross, err := deps.calc.Gross(ctx, employeeID.String(), p)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, gross.Allowances)
	})
}

func TestCalculator_Deductions(t *testing.T) {
	ctx := context.Background()
	p, _ := payperiod.Resolve(2024, 3)

	t.Run("percent basis applies to basic salary and EPF-named rows are skipped", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.componentRepo.listDeductionsFn = func(ctx context.Context, filter paycomponent.ComponentFilter) ([]paycomponent.Deduction, error) {
			return []paycomponent.Deduction{
				{ID: uuid.New(), Name: "Loan repayment", Basis: paycomponent.BasisFixed, Amount: 1000, Status: paycomponent.StatusActive},
				{ID: uuid.New(), Name: "Welfare", Basis: paycomponent.BasisPercent, PercentValue: 2, Status: paycomponent.StatusActive},
				{ID: uuid.New(), Name: "EPF Employee", Basis: paycomponent.BasisFixed, Amount: 999, Status: paycomponent.StatusActive},
				{ID: uuid.New(), Name: "Stale", Basis: paycomponent.BasisFixed, Amount: 500, Status: paycomponent.StatusInactive},
			}, nil
		}

		deductions, err := deps.calc.Deductions(ctx, employeeID.String(), 50000, p)

		assert.NoError(t, err)
		// 1000 fixed + 2% of 50000; the EPF-named and inactive rows do not count
		assert.Equal(t, 2000.0, deductions.Regular)
		assert.Equal(t, 4000.0, deductions.EpfEmployee)
		assert.Equal(t, 6000.0, deductions.Total)
	})

	t.Run("processed unpaid leave amounts are included", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		amount := 3333.33
		deps.unpaidRepo.listProcessedInPeriodFn = func(ctx context.Context, employeeID string, p payperiod.Period) ([]unpaidleave.UnpaidLeave, error) {
			return []unpaidleave.UnpaidLeave{
				{ID: uuid.New(), Status: unpaidleave.StatusProcessed, DeductionAmount: &amount},
			}, nil
		}

		deductions, err := deps.calc.Deductions(ctx, uuid.New().String(), 0, p)

		assert.NoError(t, err)
		assert.Equal(t, amount, deductions.UnpaidLeave)
		assert.Equal(t, amount, deductions.Total)
	})
}

func TestPayrollService_Payslip(t *testing.T) {
	ctx := context.Background()

	t.Run("example scenario matches statutory amounts", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: employeeID, FullName: "Nadeesha Perera"}, nil
		}
		deps.seedEarnings(employeeID)

		resp, err := deps.service.Payslip(ctx, employeeID.String(), 2024, 3)

		assert.NoError(t, err)
		assert.Equal(t, 52000.0, resp.Summary.GrossSalary)
		// Employee EPF applies to basic, the employer shares to gross
		assert.Equal(t, 6240.0, resp.EmployerContributions.Epf)
		assert.Equal(t, 1560.0, resp.EmployerContributions.Etf)
		assert.Equal(t, 4000.0, resp.Deductions.Total)
		assert.Equal(t, 48000.0, resp.Summary.NetSalary)
		assert.Equal(t, "March", resp.Period.MonthName)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Payslip(ctx, uuid.New().String(), 2024, 3)
		assert.Error(t, err)
	})

	t.Run("negative invalid month", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: employeeID}, nil
		}

		_, err := deps.service.Payslip(ctx, employeeID.String(), 2024, 13)
		assert.Error(t, err)
	})
}

func TestPayrollService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes one completed row per employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.seedEarnings(employeeID)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		run, err := deps.service.Transfer(ctx, payroll.TransferRequest{
			Year:        2024,
			Month:       3,
			EmployeeIDs: []string{employeeID.String()},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, run.ProcessedCount)
		assert.Equal(t, 0, run.SkippedCount)

		row := run.Processed[0]
		assert.Equal(t, 52000.0, row.GrossSalary)
		assert.Equal(t, 4000.0, row.TotalDeductions)
		assert.Equal(t, row.GrossSalary-row.TotalDeductions, row.NetSalary)
		assert.Equal(t, payroll.StatusCompleted, row.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("second run over the same period skips every employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.seedEarnings(employeeID)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		req := payroll.TransferRequest{Year: 2024, Month: 3, EmployeeIDs: []string{employeeID.String()}}

		first, err := deps.service.Transfer(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, 1, first.ProcessedCount)

		second, err := deps.service.Transfer(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, 0, second.ProcessedCount)
		assert.Equal(t, 1, second.SkippedCount)
		assert.Len(t, deps.transferRepo.rows, 1)
	})

	t.Run("a persist failure rolls the whole batch back", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		okEmployee := uuid.New()
		badEmployee := uuid.New()
		deps.seedEarnings(okEmployee)

		deps.transferRepo.createFn = func(ctx context.Context, transfer *payroll.PayrollTransfer) error {
			if transfer.EmployeeID == badEmployee {
				return assert.AnError
			}
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Transfer(ctx, payroll.TransferRequest{
			Year:        2024,
			Month:       3,
			EmployeeIDs: []string{okEmployee.String(), badEmployee.String()},
		})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_InitiateBankTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("completed rows are never touched", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.seedEarnings(employeeID)

		deps.transferRepo.rows[transferKey(employeeID.String(), 2024, 3)] = &payroll.PayrollTransfer{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Status:     payroll.StatusCompleted,
		}

		run, err := deps.service.InitiateBankTransfer(ctx, payroll.TransferRequest{
			Year:        2024,
			Month:       3,
			EmployeeIDs: []string{employeeID.String()},
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, run.ProcessedCount)
		assert.Equal(t, 1, run.SkippedCount)
	})

	t.Run("pending rows are refreshed to processing", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.seedEarnings(employeeID)

		run, err := deps.service.InitiateBankTransfer(ctx, payroll.TransferRequest{
			Year:        2024,
			Month:       3,
			EmployeeIDs: []string{employeeID.String()},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, run.ProcessedCount)
		assert.Equal(t, payroll.StatusProcessing, run.Processed[0].Status)
	})
}

func TestPayrollService_CompleteTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("negative transfer not in processing state", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		transferID := uuid.New()
		deps.transferRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollTransfer, error) {
			return &payroll.PayrollTransfer{ID: transferID, Status: payroll.StatusCompleted}, nil
		}

		_, err := deps.service.CompleteTransfer(ctx, transferID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrTransferNotProcessing)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		transferID := uuid.New()
		deps.transferRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.PayrollTransfer, error) {
			return &payroll.PayrollTransfer{ID: transferID, EmployeeID: uuid.New(), Status: payroll.StatusProcessing}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.CompleteTransfer(ctx, transferID.String())
		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusCompleted, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
