package paycomponent

type CreateAllowanceRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	Name          string  `json:"name" binding:"required"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	Status        string  `json:"status" binding:"omitempty,oneof=Active Inactive"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   string  `json:"effective_to"`
}

type UpdateAllowanceRequest struct {
	Name          string  `json:"name" binding:"required"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	Status        string  `json:"status" binding:"required,oneof=Active Inactive"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   string  `json:"effective_to"`
}

type CreateBonusRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	Reason        string  `json:"reason"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type CreateDeductionRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	Name          string  `json:"name" binding:"required"`
	Basis         string  `json:"basis" binding:"required,oneof=fixed percent"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	PercentValue  float64 `json:"percent_value" binding:"gte=0,lte=100"`
	Status        string  `json:"status" binding:"omitempty,oneof=Active Inactive"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type UpdateDeductionRequest struct {
	Name          string  `json:"name" binding:"required"`
	Basis         string  `json:"basis" binding:"required,oneof=fixed percent"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	PercentValue  float64 `json:"percent_value" binding:"gte=0,lte=100"`
	Status        string  `json:"status" binding:"required,oneof=Active Inactive"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

type CreateOvertimeRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	OtHours    float64 `json:"ot_hours" binding:"required"`
	OtRate     float64 `json:"ot_rate" binding:"gte=0"`
	Note       string  `json:"note"`
}

// ComponentFilter narrows listings to one employee and/or one pay month.
type ComponentFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Year       int    `form:"year" binding:"omitempty,gte=1"`
	Month      int    `form:"month" binding:"omitempty,gte=1,lte=12"`
}

func (f ComponentFilter) hasPeriod() bool {
	return f.Year > 0 && f.Month > 0
}

type AllowanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	EffectiveFrom string  `json:"effective_from,omitempty"`
	EffectiveTo   string  `json:"effective_to,omitempty"`
}

type BonusResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Reason        string  `json:"reason,omitempty"`
	Amount        float64 `json:"amount"`
	EffectiveDate string  `json:"effective_date"`
}

type DeductionResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Name          string  `json:"name"`
	Basis         string  `json:"basis"`
	Amount        float64 `json:"amount"`
	PercentValue  float64 `json:"percent_value"`
	Status        string  `json:"status"`
	EffectiveDate string  `json:"effective_date"`
}

type OvertimeResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	OtHours    float64 `json:"ot_hours"`
	OtRate     float64 `json:"ot_rate"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
