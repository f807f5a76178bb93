package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber   string    `gorm:"uniqueIndex"`
	FullName         string
	Email            string `gorm:"uniqueIndex"`
	Phone            string
	Department       string
	Position         string
	GradeID          int `gorm:"index"`
	JoiningDate      time.Time
	EmploymentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
