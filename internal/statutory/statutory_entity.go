package statutory

import (
	"time"

	"github.com/google/uuid"
)

// EtfEpfConfig holds one employee's statutory identifiers and rates.
// A rate of 0 means "not set": the configured default applies.
type EtfEpfConfig struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID          uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	EpfNumber           string
	EtfNumber           string
	EpfContributionRate float64
	EmployerEpfRate     float64
	EtfContributionRate float64
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Populated by joins on the read path only.
	EmployeeName string `gorm:"->"`
}

func (EtfEpfConfig) TableName() string {
	return "etf_epf_configs"
}

// EtfEpfTransaction is the immutable record of one period's statutory
// calculation. The unique (employee, year, month) key is what makes
// reprocessing a skip instead of a second charge; rows are never
// updated after insert.
type EtfEpfTransaction struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;index"`
	PeriodYear        int
	PeriodMonth       int
	GrossSalary       float64
	EmployeeEpfAmount float64
	EpfEmployerShare  float64
	EmployerEtfAmount float64
	CreatedAt         time.Time

	EmployeeName string `gorm:"->"`
}

func (EtfEpfTransaction) TableName() string {
	return "etf_epf_transactions"
}
