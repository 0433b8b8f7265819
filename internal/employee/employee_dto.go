package employee

type CreateEmployeeRequest struct {
	Name       string             `json:"name" binding:"required,max=150"`
	Email      string             `json:"email" binding:"required,email"`
	Position   string             `json:"position" binding:"required,max=120"`
	Department string             `json:"department" binding:"required,max=120"`
	BaseSalary float64            `json:"baseSalary" binding:"gte=0"`
	Allowances map[string]float64 `json:"allowances" binding:"omitempty,dive,keys,required,max=80,endkeys,gte=0"`
	Deductions map[string]float64 `json:"deductions" binding:"omitempty,dive,keys,required,max=80,endkeys,gte=0"`
}

type UpdateEmployeeRequest struct {
	Name       string             `json:"name" binding:"required,max=150"`
	Email      string             `json:"email" binding:"required,email"`
	Position   string             `json:"position" binding:"required,max=120"`
	Department string             `json:"department" binding:"required,max=120"`
	BaseSalary float64            `json:"baseSalary" binding:"gte=0"`
	Allowances map[string]float64 `json:"allowances" binding:"omitempty,dive,keys,required,max=80,endkeys,gte=0"`
	Deductions map[string]float64 `json:"deductions" binding:"omitempty,dive,keys,required,max=80,endkeys,gte=0"`
	Status     string             `json:"status" binding:"omitempty,oneof=active inactive"`
}

type GetEmployeesFilterRequest struct {
	Q          string `form:"q"`
	Department string `form:"department"`
}

type EmployeeResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Position   string             `json:"position"`
	Department string             `json:"department"`
	BaseSalary float64            `json:"baseSalary"`
	Allowances map[string]float64 `json:"allowances"`
	Deductions map[string]float64 `json:"deductions"`
	Status     string             `json:"status"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
}
