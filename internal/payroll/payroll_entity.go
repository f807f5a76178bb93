package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
)

// PayrollTransfer is a point-in-time snapshot of one employee's pay for
// one period. Amounts are computed fresh at processing time and never
// recomputed in place; the unique (employee, year, month) key is what
// makes reprocessing a skip instead of a duplicate.
type PayrollTransfer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;index"`
	PeriodYear      int
	PeriodMonth     int
	GrossSalary     float64
	TotalDeductions float64
	NetSalary       float64
	Status          string
	InitiatedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated by joins on the read path only.
	EmployeeName string `gorm:"->"`
}

func (PayrollTransfer) TableName() string {
	return "payroll_transfers"
}
