package leaverule

type CreateLeaveRuleRequest struct {
	GradeID          int     `json:"grade_id" binding:"required,gt=0"`
	AnnualLimitDays  float64 `json:"annual_limit_days" binding:"gte=0"`
	MedicalLimitDays float64 `json:"medical_limit_days" binding:"gte=0"`
}

// UpdateLeaveRuleRequest changes the limits only; a rule stays bound to
// the grade it was created for.
type UpdateLeaveRuleRequest struct {
	AnnualLimitDays  float64 `json:"annual_limit_days" binding:"gte=0"`
	MedicalLimitDays float64 `json:"medical_limit_days" binding:"gte=0"`
}

type LeaveRuleResponse struct {
	ID               string  `json:"id"`
	GradeID          int     `json:"grade_id"`
	AnnualLimitDays  float64 `json:"annual_limit_days"`
	MedicalLimitDays float64 `json:"medical_limit_days"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}
