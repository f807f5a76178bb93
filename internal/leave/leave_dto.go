package leave

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID int    `json:"leave_type_id" binding:"required,gt=0"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	// DurationHours, when set, overrides the computed elapsed time, so
	// a half day over a multi-day span stays exactly what HR entered.
	DurationHours *float64 `json:"duration_hours" binding:"omitempty,gte=0"`
	Reason        string   `json:"reason"`
}

type DecideLeaveRequest struct {
	Action string `json:"action" binding:"required,oneof=APPROVE REJECT RESPOND"`
	Note   string `json:"note"`
}

// ListLeaveFilter narrows the listing; zero values mean no filter.
type ListLeaveFilter struct {
	EmployeeID  string
	Status      string
	LeaveTypeID int
	Year        int
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	LeaveTypeID   int     `json:"leave_type_id"`
	LeaveKind     string  `json:"leave_kind"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	DurationHours float64 `json:"duration_hours"`
	CalendarDays  int     `json:"calendar_days"`
	Reason        string  `json:"reason,omitempty"`
	Status        string  `json:"status"`
	DecidedBy     string  `json:"decided_by,omitempty"`
	DecidedAt     string  `json:"decided_at,omitempty"`
	DecisionNote  string  `json:"decision_note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// LeaveDecisionResponse reports what an APPROVE actually did: the new
// running total and, when the grade limit was breached, the unpaid
// excess that was generated.
type LeaveDecisionResponse struct {
	LeaveResponse
	DaysUsed          float64 `json:"days_used,omitempty"`
	BalanceAfter      float64 `json:"balance_after,omitempty"`
	LimitDays         float64 `json:"limit_days,omitempty"`
	UnpaidExcessDays  float64 `json:"unpaid_excess_days,omitempty"`
	UnpaidLeaveRaised bool    `json:"unpaid_leave_raised"`
}

type LeaveBalanceResponse struct {
	EmployeeID   string  `json:"employee_id"`
	LeaveTypeID  int     `json:"leave_type_id"`
	LeaveKind    string  `json:"leave_kind"`
	Year         int     `json:"year"`
	EntitledDays float64 `json:"entitled_days"`
	UsedDays     float64 `json:"used_days"`
	UpdatedAt    string  `json:"updated_at"`
}

type LeaveLedgerEntryResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveTypeID     int     `json:"leave_type_id"`
	Year            int     `json:"year"`
	DeltaDays       float64 `json:"delta_days"`
	SourceRequestID string  `json:"source_request_id,omitempty"`
	Note            string  `json:"note,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
