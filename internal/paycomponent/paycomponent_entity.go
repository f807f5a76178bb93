package paycomponent

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	BasisFixed   = "fixed"
	BasisPercent = "percent"
)

// Allowance is a recurring addition to gross pay, active while its
// optional [effective_from, effective_to] window touches the pay month.
type Allowance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	Name          string
	Amount        float64
	Status        string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Allowance) TableName() string {
	return "allowances"
}

// Bonus is a one-off addition, attributed to the month containing its
// effective date.
type Bonus struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	Reason        string
	Amount        float64
	EffectiveDate time.Time
	CreatedAt     time.Time
}

func (Bonus) TableName() string {
	return "bonuses"
}

// Deduction reduces net pay. A fixed deduction carries an amount, a
// percent deduction carries percent_value applied to basic salary.
// EPF-named deductions are excluded from the payroll aggregation; the
// statutory module owns those.
type Deduction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	Name          string
	Basis         string
	Amount        float64
	PercentValue  float64
	Status        string
	EffectiveDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Deduction) TableName() string {
	return "deductions"
}

// OvertimeAdjustment is attributed to the month it was recorded in.
// Negative hours are allowed for corrections.
type OvertimeAdjustment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index"`
	OtHours    float64
	OtRate     float64
	Note       string
	CreatedAt  time.Time
}

func (OvertimeAdjustment) TableName() string {
	return "overtime_adjustments"
}
