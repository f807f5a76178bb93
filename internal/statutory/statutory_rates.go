package statutory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
)

// RateSource resolves an employee's contribution percentages, falling
// back to the configured defaults for employees with no row or with
// unset (zero) values. It satisfies the payroll calculator's rate
// contract, so the payslip EPF deduction and the recorded statutory
// amounts come from the same numbers.
type RateSource struct {
	repo     Repository
	defaults config.StatutoryConfig
}

func NewRateSource(repo Repository, defaults config.StatutoryConfig) *RateSource {
	return &RateSource{repo: repo, defaults: defaults}
}

func (r *RateSource) ContributionRates(ctx context.Context, employeeID string) (epfEmployee, epfEmployer, etf float64, err error) {
	cfg, err := r.repo.FindConfigByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.defaults.EpfEmployeeRate, r.defaults.EpfEmployerRate, r.defaults.EtfRate, nil
		}
		return 0, 0, 0, err
	}

	epfEmployee = cfg.EpfContributionRate
	if epfEmployee <= 0 {
		epfEmployee = r.defaults.EpfEmployeeRate
	}
	epfEmployer = cfg.EmployerEpfRate
	if epfEmployer <= 0 {
		epfEmployer = r.defaults.EpfEmployerRate
	}
	etf = cfg.EtfContributionRate
	if etf <= 0 {
		etf = r.defaults.EtfRate
	}
	return epfEmployee, epfEmployer, etf, nil
}
