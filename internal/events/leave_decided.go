package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

type LeaveDecidedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    int       `json:"leave_type_id"`
	Status         string    `json:"status"`
	DurationHours  float64   `json:"duration_hours"`
	OccurredAt     time.Time `json:"occurred_at"`
}
