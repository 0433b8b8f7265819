package events

import "time"

const PayrollCalculatedTopic = "hr.payroll.calculated.v1"

type PayrollCalculatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
	PayrollID  string    `json:"payroll_id"`
	EmployeeID string    `json:"employee_id"`
	Period     string    `json:"period"`
	NetSalary  string    `json:"net_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}
