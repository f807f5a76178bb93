package leave

import (
	"time"

	"github.com/google/uuid"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionRespond = "RESPOND"
)

// Kind classifies a numeric leave type id against the configured
// mapping. Only annual and medical kinds carry an entitlement limit;
// everything else is tracked but never breach-checked.
type Kind int

const (
	KindOther Kind = iota
	KindAnnual
	KindMedical
	KindUnpaid
)

func KindOf(leaveTypeID int, cfg config.LeaveConfig) Kind {
	switch leaveTypeID {
	case cfg.AnnualTypeID:
		return KindAnnual
	case cfg.MedicalTypeID:
		return KindMedical
	case cfg.UnpaidTypeID:
		return KindUnpaid
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	switch k {
	case KindAnnual:
		return "annual"
	case KindMedical:
		return "medical"
	case KindUnpaid:
		return "unpaid"
	default:
		return "other"
	}
}

// LeaveRequest is the workflow row. PENDING is the only mutable state;
// APPROVED and REJECTED are terminal, though a decision note can still
// be attached afterwards.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;index"`
	LeaveTypeID   int
	StartDate     time.Time
	EndDate       time.Time
	StartTime     string
	EndTime       string
	DurationHours float64
	Reason        string
	Status        string
	DecidedBy     *uuid.UUID `gorm:"type:uuid"`
	DecidedAt     *time.Time
	DecisionNote  string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by joins on the read path only.
	EmployeeName string `gorm:"->"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveBalance is the per-year running total of used leave days for one
// employee and leave type. used_days only ever grows; the ledger holds
// the individual deltas that produced it.
type LeaveBalance struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;index"`
	LeaveTypeID  int
	Year         int
	EntitledDays float64
	UsedDays     float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// LeaveLedgerEntry records one applied delta against a balance, keyed
// back to the approval that caused it. The balance row is the derived
// aggregate; the ledger is the authoritative history.
type LeaveLedgerEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;index"`
	LeaveTypeID     int
	Year            int
	DeltaDays       float64
	SourceRequestID *uuid.UUID `gorm:"type:uuid"`
	Note            string
	CreatedAt       time.Time
}

func (LeaveLedgerEntry) TableName() string {
	return "leave_ledger_entries"
}
