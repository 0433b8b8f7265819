package analytics

type DashboardStatsResponse struct {
	TotalEmployees   int64   `json:"totalEmployees"`
	TotalPayroll     float64 `json:"totalPayroll"`
	AvgSalary        float64 `json:"avgSalary"`
	ProcessedRecords int64   `json:"processedRecords"`
}

type DepartmentStatsResponse struct {
	Department    string  `json:"department"`
	EmployeeCount int     `json:"employeeCount"`
	TotalSalary   float64 `json:"totalSalary"`
	AvgSalary     float64 `json:"avgSalary"`
}
