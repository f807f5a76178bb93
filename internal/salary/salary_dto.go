package salary

type CreateSalaryRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	BasicSalary   float64 `json:"basic_salary" binding:"gte=0"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

// UpdateSalaryRequest revises an employee's pay. The employee is taken
// from the revised row, so it cannot be changed here.
type UpdateSalaryRequest struct {
	BasicSalary   float64 `json:"basic_salary" binding:"gte=0"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type SalaryResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	BasicSalary   float64 `json:"basic_salary"`
	EffectiveDate string  `json:"effective_date"`
	CreatedAt     string  `json:"created_at"`
}
