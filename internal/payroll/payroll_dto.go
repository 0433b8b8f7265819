package payroll

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Period     string `json:"period" binding:"required,max=32"`
}

type RunPayrollRequest struct {
	Period string `json:"period" binding:"required,max=32"`
}

type GetPayrollsFilterRequest struct {
	Period string `form:"period"`
}

type PayrollBreakdownResponse struct {
	Allowances map[string]float64 `json:"allowances"`
	Deductions map[string]float64 `json:"deductions"`
}

type PayrollResponse struct {
	ID              string                   `json:"id"`
	EmployeeID      string                   `json:"employeeId"`
	EmployeeName    string                   `json:"employeeName"`
	Period          string                   `json:"period"`
	BaseSalary      float64                  `json:"baseSalary"`
	TotalAllowances float64                  `json:"totalAllowances"`
	GrossSalary     float64                  `json:"grossSalary"`
	TaxRate         float64                  `json:"taxRate"`
	TaxAmount       float64                  `json:"taxAmount"`
	TotalDeductions float64                  `json:"totalDeductions"`
	NetSalary       float64                  `json:"netSalary"`
	Status          string                   `json:"status"`
	Breakdown       PayrollBreakdownResponse `json:"breakdown"`
	CreatedAt       string                   `json:"createdAt"`
}

type RunPayrollResponse struct {
	RunID  string `json:"runId"`
	Period string `json:"period"`
	Queued int    `json:"queued"`
}
