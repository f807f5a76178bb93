package unpaidleave

type CreateUnpaidLeaveRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	TotalDays  float64 `json:"total_days" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}

// ListUnpaidLeaveFilter narrows the listing; zero values mean no filter.
type ListUnpaidLeaveFilter struct {
	EmployeeID string
	Status     string
	Year       int
	Month      int
}

type UnpaidLeaveResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	EmployeeName    string   `json:"employee_name,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	TotalDays       float64  `json:"total_days"`
	Reason          string   `json:"reason,omitempty"`
	Status          string   `json:"status"`
	DeductionAmount *float64 `json:"deduction_amount,omitempty"`
	ProcessedAt     string   `json:"processed_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type ProcessUnpaidLeaveResponse struct {
	UnpaidLeaveResponse
	BasicSalary float64 `json:"basic_salary"`
	DailyRate   float64 `json:"daily_rate"`
}
