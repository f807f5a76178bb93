package salary

import (
	"time"

	"github.com/google/uuid"
)

// Salary rows are append-only. The row with the newest created_at is the
// authoritative basic salary for its employee; older rows stay as history.
type Salary struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	BasicSalary   float64
	EffectiveDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by joins on the read path only.
	EmployeeName string `gorm:"->"`
}

func (Salary) TableName() string {
	return "salaries"
}
