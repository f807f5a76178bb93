package payroll

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/paycomponent"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payperiod"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
)

// RateSource resolves an employee's statutory contribution rates as
// percentages. Implementations fall back to the configured default
// rates for employees with no row or unset values, so callers always
// get usable percentages.
type RateSource interface {
	ContributionRates(ctx context.Context, employeeID string) (epfEmployee, epfEmployer, etf float64, err error)
}

// Line is one itemized earning or deduction on a payslip.
type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// GrossBreakdown is the period earnings picture for one employee.
// Amounts are unrounded; rounding happens at persistence or response.
type GrossBreakdown struct {
	BasicSalary float64
	Allowances  float64
	Overtime    float64
	Bonuses     float64
	Lines       []Line
	Gross       float64
}

// DeductionBreakdown is the period deductions picture. EpfEmployee is
// computed from basic salary; the statutory transaction amounts are a
// separate calculation against gross (see Contributions).
type DeductionBreakdown struct {
	Regular     float64
	UnpaidLeave float64
	EpfEmployee float64
	Lines       []Line
	Total       float64
}

// Calculator is the single source of the gross and deduction figures.
// The payslip view, the transfer run and the statutory processor all
// go through it, so the numbers they report cannot drift apart.
type Calculator struct {
	salaryRepo    salary.Repository
	componentRepo paycomponent.Repository
	unpaidRepo    unpaidleave.Repository
	rates         RateSource
	logger        *zap.Logger
}

func NewCalculator(
	salaryRepo salary.Repository,
	componentRepo paycomponent.Repository,
	unpaidRepo unpaidleave.Repository,
	rates RateSource,
	logger ...*zap.Logger,
) *Calculator {
	l := zap.L().Named("payroll.calculator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.calculator")
	}
	return &Calculator{
		salaryRepo:    salaryRepo,
		componentRepo: componentRepo,
		unpaidRepo:    unpaidRepo,
		rates:         rates,
		logger:        l,
	}
}

// Gross sums basic salary, active allowances overlapping the period,
// overtime recorded in the period and bonuses effective in it. An
// employee with no salary row contributes a zero basic rather than an
// error.
func (c *Calculator) Gross(ctx context.Context, employeeID string, p payperiod.Period) (GrossBreakdown, error) {
	var b GrossBreakdown

	latest, err := c.salaryRepo.FindLatestByEmployee(ctx, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return GrossBreakdown{}, err
	}
	if latest != nil {
		b.BasicSalary = latest.BasicSalary
	}
	b.Lines = append(b.Lines, Line{Label: "Basic salary", Amount: b.BasicSalary})

	filter := paycomponent.ComponentFilter{EmployeeID: employeeID, Year: p.Year, Month: p.Month}

	allowances, err := c.componentRepo.ListAllowances(ctx, filter)
	if err != nil {
		return GrossBreakdown{}, err
	}
	for _, a := range allowances {
		if a.Status != paycomponent.StatusActive {
			continue
		}
		b.Allowances += a.Amount
		b.Lines = append(b.Lines, Line{Label: a.Name, Amount: a.Amount})
	}

	overtime, err := c.componentRepo.ListOvertime(ctx, filter)
	if err != nil {
		return GrossBreakdown{}, err
	}
	for _, o := range overtime {
		amount := o.OtHours * o.OtRate
		b.Overtime += amount
		label := "Overtime"
		if o.Note != "" {
			label = o.Note
		}
		b.Lines = append(b.Lines, Line{Label: label, Amount: amount})
	}

	bonuses, err := c.componentRepo.ListBonuses(ctx, filter)
	if err != nil {
		return GrossBreakdown{}, err
	}
	for _, bonus := range bonuses {
		b.Bonuses += bonus.Amount
		label := "Bonus"
		if bonus.Reason != "" {
			label = bonus.Reason
		}
		b.Lines = append(b.Lines, Line{Label: label, Amount: bonus.Amount})
	}

	b.Gross = b.BasicSalary + b.Allowances + b.Overtime + b.Bonuses
	return b, nil
}

// Deductions sums active recurring deductions effective in the period,
// processed unpaid leave amounts attributed to it, and the employee EPF
// share. Percent-basis deductions and the EPF share apply to basic
// salary, not gross. Deductions named after EPF are skipped so the rate
// calculation is not double counted against a manually entered row.
func (c *Calculator) Deductions(ctx context.Context, employeeID string, basicSalary float64, p payperiod.Period) (DeductionBreakdown, error) {
	var b DeductionBreakdown

	filter := paycomponent.ComponentFilter{EmployeeID: employeeID, Year: p.Year, Month: p.Month}

	deductions, err := c.componentRepo.ListDeductions(ctx, filter)
	if err != nil {
		return DeductionBreakdown{}, err
	}
	for _, d := range deductions {
		if d.Status != paycomponent.StatusActive || isEpfNamed(d.Name) {
			continue
		}
		amount := d.Amount
		if d.Basis == paycomponent.BasisPercent {
			amount = d.PercentValue / 100 * basicSalary
		}
		b.Regular += amount
		b.Lines = append(b.Lines, Line{Label: d.Name, Amount: amount})
	}

	unpaid, err := c.unpaidRepo.ListProcessedInPeriod(ctx, employeeID, p)
	if err != nil {
		return DeductionBreakdown{}, err
	}
	for _, u := range unpaid {
		if u.DeductionAmount == nil {
			continue
		}
		b.UnpaidLeave += *u.DeductionAmount
	}
	if b.UnpaidLeave != 0 {
		b.Lines = append(b.Lines, Line{Label: "Unpaid leave", Amount: b.UnpaidLeave})
	}

	epfRate, _, _, err := c.rates.ContributionRates(ctx, employeeID)
	if err != nil {
		return DeductionBreakdown{}, err
	}
	b.EpfEmployee = basicSalary * epfRate / 100
	if b.EpfEmployee != 0 {
		b.Lines = append(b.Lines, Line{Label: "EPF (employee)", Amount: b.EpfEmployee})
	}

	b.Total = b.Regular + b.UnpaidLeave + b.EpfEmployee
	return b, nil
}

// Contributions applies the statutory percentages to a gross figure.
// Unlike the employee EPF deduction, the recorded statutory amounts are
// all calculated on gross.
func (c *Calculator) Contributions(ctx context.Context, employeeID string, gross float64) (epfEmployee, epfEmployer, etf float64, err error) {
	epfRate, employerRate, etfRate, err := c.rates.ContributionRates(ctx, employeeID)
	if err != nil {
		return 0, 0, 0, err
	}
	return gross * epfRate / 100, gross * employerRate / 100, gross * etfRate / 100, nil
}

func isEpfNamed(name string) bool {
	return strings.Contains(strings.ToUpper(name), "EPF")
}
