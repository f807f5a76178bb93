package statutory

// UpsertConfigRequest creates or replaces an employee's statutory
// configuration. Rates are percentages; 0 leaves the default in force.
type UpsertConfigRequest struct {
	EmployeeID          string  `json:"employee_id" binding:"required,uuid"`
	EpfNumber           string  `json:"epf_number"`
	EtfNumber           string  `json:"etf_number"`
	EpfContributionRate float64 `json:"epf_contribution_rate" binding:"gte=0,lte=100"`
	EmployerEpfRate     float64 `json:"employer_epf_rate" binding:"gte=0,lte=100"`
	EtfContributionRate float64 `json:"etf_contribution_rate" binding:"gte=0,lte=100"`
}

type ConfigResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        string  `json:"employee_name,omitempty"`
	EpfNumber           string  `json:"epf_number"`
	EtfNumber           string  `json:"etf_number"`
	EpfContributionRate float64 `json:"epf_contribution_rate"`
	EmployerEpfRate     float64 `json:"employer_epf_rate"`
	EtfContributionRate float64 `json:"etf_contribution_rate"`
	UpdatedAt           string  `json:"updated_at"`
}

// ProcessPeriodRequest drives one statutory batch. When EmployeeIDs is
// empty the run covers every employee eligible for the period.
type ProcessPeriodRequest struct {
	Year        int      `json:"year" binding:"required,gte=1"`
	Month       int      `json:"month" binding:"required,gte=1,lte=12"`
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

// ProcessSkip names an employee the batch left untouched and why.
// Skips are benign and reported, never surfaced as errors.
type ProcessSkip struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type ProcessRunResponse struct {
	PeriodYear     int                   `json:"period_year"`
	PeriodMonth    int                   `json:"period_month"`
	Processed      []TransactionResponse `json:"processed"`
	Skipped        []ProcessSkip         `json:"skipped"`
	ProcessedCount int                   `json:"processed_count"`
	SkippedCount   int                   `json:"skipped_count"`
}

type TransactionResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name,omitempty"`
	PeriodYear        int     `json:"period_year"`
	PeriodMonth       int     `json:"period_month"`
	GrossSalary       float64 `json:"gross_salary"`
	EmployeeEpfAmount float64 `json:"employee_epf_amount"`
	EpfEmployerShare  float64 `json:"epf_employer_share"`
	EmployerEtfAmount float64 `json:"employer_etf_amount"`
	CreatedAt         string  `json:"created_at"`
}

// ListTransactionFilter narrows the listing; zero values mean no filter.
type ListTransactionFilter struct {
	EmployeeID string
	Year       int
	Month      int
}

// EligibleEmployeeResponse is one row of the pre-run eligibility view:
// active employees who had joined by the end of the period.
type EligibleEmployeeResponse struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	JoiningDate    string `json:"joining_date"`
	HasConfig      bool   `json:"has_config"`
}
