package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	ActorType  string     `gorm:"type:varchar(20);default:'user'" json:"actor_type"`
	Action     string     `gorm:"type:varchar(100);not null" json:"action"`
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(64)" json:"entity_id"`
	Details    string     `gorm:"type:text" json:"details"`
	RequestID  string     `gorm:"type:varchar(64)" json:"request_id"`
	RequestIP  string     `gorm:"type:varchar(45)" json:"request_ip"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
