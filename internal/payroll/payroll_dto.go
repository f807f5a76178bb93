package payroll

// TransferRequest drives one processing run over a period.
type TransferRequest struct {
	Year        int      `json:"year" binding:"required,gte=1"`
	Month       int      `json:"month" binding:"required,gte=1,lte=12"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

// ListTransferFilter narrows the listing; zero values mean no filter.
type ListTransferFilter struct {
	EmployeeID string
	Status     string
	Year       int
	Month      int
}

type TransferResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	PeriodYear      int     `json:"period_year"`
	PeriodMonth     int     `json:"period_month"`
	GrossSalary     float64 `json:"gross_salary"`
	TotalDeductions float64 `json:"total_deductions"`
	NetSalary       float64 `json:"net_salary"`
	Status          string  `json:"status"`
	InitiatedBy     string  `json:"initiated_by,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// TransferSkip names an employee the run left untouched and why. Skips
// are reported, never surfaced as errors.
type TransferSkip struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type TransferRunResponse struct {
	PeriodYear     int                `json:"period_year"`
	PeriodMonth    int                `json:"period_month"`
	Processed      []TransferResponse `json:"processed"`
	Skipped        []TransferSkip     `json:"skipped"`
	ProcessedCount int                `json:"processed_count"`
	SkippedCount   int                `json:"skipped_count"`
}

type PayslipEmployee struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type PayslipPeriod struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
}

type PayslipSection struct {
	Breakdown []Line  `json:"breakdown"`
	Total     float64 `json:"total"`
}

type EmployerContributions struct {
	Epf float64 `json:"epf"`
	Etf float64 `json:"etf"`
}

type PayslipSummary struct {
	GrossSalary     float64 `json:"gross_salary"`
	TotalDeductions float64 `json:"total_deductions"`
	NetSalary       float64 `json:"net_salary"`
}

// PayslipResponse is the full per-employee pay picture for one period.
// It is a live view: nothing is persisted by rendering it.
type PayslipResponse struct {
	Employee              PayslipEmployee       `json:"employee"`
	Period                PayslipPeriod         `json:"period"`
	Earnings              PayslipSection        `json:"earnings"`
	Deductions            PayslipSection        `json:"deductions"`
	EmployerContributions EmployerContributions `json:"employer_contributions"`
	Summary               PayslipSummary        `json:"summary"`
}
