package unpaidleave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "Pending"
	StatusProcessed = "Processed"
)

// UnpaidLeave is a span of leave taken beyond the paid entitlement.
// Rows arrive two ways: HR records one directly, or an approved leave
// request pushes the yearly balance over its grade limit and the excess
// is generated here. A row costs the employee nothing until it is
// processed; processing fixes the deduction amount, and the payroll
// aggregation picks it up in the month of that mutation.
type UnpaidLeave struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;index"`
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       float64
	Reason          string
	Status          string
	DeductionAmount *float64
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated by joins on the read path only.
	EmployeeName string `gorm:"->"`
}

func (UnpaidLeave) TableName() string {
	return "unpaid_leaves"
}
