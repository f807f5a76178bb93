package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	GradeID          int    `json:"grade_id" binding:"required,gte=1"`
	JoiningDate      string `json:"joining_date" binding:"required"`
	EmployeeNumber   string `json:"employee_number"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Department       string `json:"department"`
	Position         string `json:"position"`
	GradeID          int    `json:"grade_id" binding:"required,gte=1"`
	JoiningDate      string `json:"joining_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type ListEmployeeFilter struct {
	Status  string `form:"status" binding:"omitempty,oneof=active inactive"`
	GradeID int    `form:"grade_id" binding:"omitempty,gte=1"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	EmployeeNumber   string `json:"employee_number"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Department       string `json:"department,omitempty"`
	Position         string `json:"position,omitempty"`
	GradeID          int    `json:"grade_id"`
	JoiningDate      string `json:"joining_date"`
	EmploymentStatus string `json:"employment_status"`
}

// EmployeeOption is the slim shape used by dropdowns and pickers.
type EmployeeOption struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}
