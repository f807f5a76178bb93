package leaverule

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRule caps how many paid leave days a salary grade may take per
// year. A limit of zero means the grade has no cap for that category.
type LeaveRule struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GradeID          int       `gorm:"uniqueIndex;not null"`
	AnnualLimitDays  float64   `gorm:"type:numeric(5,2);not null;default:0"`
	MedicalLimitDays float64   `gorm:"type:numeric(5,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LeaveRule) TableName() string {
	return "leave_rules"
}
