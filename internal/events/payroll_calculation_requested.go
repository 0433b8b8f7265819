package events

import "time"

// PayrollCalculationRequestedTopic carries one message per employee queued
// by a payroll run.
const PayrollCalculationRequestedTopic = "hr.payroll.calculation.requested.v1"

type PayrollCalculationRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	RunID      string    `json:"run_id"`
	EmployeeID string    `json:"employee_id"`
	Period     string    `json:"period"`
	OccurredAt time.Time `json:"occurred_at"`
}
