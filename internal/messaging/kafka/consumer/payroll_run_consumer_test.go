package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka/consumer"
	"github.com/Mostafa-SAID7/paytrack-app/internal/payroll"
	payrollerrors "github.com/Mostafa-SAID7/paytrack-app/internal/payroll/errors"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves messages in order and cancels the consumer once they run
// out. Every fetch error and commit is appended to trace.
type fakeReader struct {
	messages    []kafkago.Message
	next        int
	fetchErrors int
	committed   []int64
	trace       *[]string
	cancel      context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if r.fetchErrors > 0 {
		r.fetchErrors--
		*r.trace = append(*r.trace, "fetch-error")
		return kafkago.Message{}, errors.New("broker unavailable")
	}
	if r.next >= len(r.messages) {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[r.next]
	r.next++
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
		*r.trace = append(*r.trace, "commit:"+strconv.FormatInt(m.Offset, 10))
	}
	return nil
}

type fakePayrollService struct {
	payroll.Service
	calculateFn func(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error)
}

func (f *fakePayrollService) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.calculateFn(ctx, req)
}

func message(t *testing.T, offset int64, employeeID string) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(events.PayrollCalculationRequestedEvent{
		EventType:  "payroll_calculation_requested",
		RequestID:  "REQ-RUN",
		RunID:      "run-1",
		EmployeeID: employeeID,
		Period:     "2024-06",
	})
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b}
}

func fastRetries(t *testing.T) {
	t.Helper()
	t.Cleanup(consumer.SetRetryDelays(time.Millisecond, time.Millisecond, 4*time.Millisecond))
}

func TestConsumePayrollCalculationRequested_Outcomes(t *testing.T) {
	fastRetries(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trace []string
	reader := &fakeReader{
		cancel: cancel,
		trace:  &trace,
		messages: []kafkago.Message{
			message(t, 1, "emp-ok"),
			message(t, 2, "emp-dup"),
			message(t, 3, "emp-missing"),
			message(t, 4, "emp-bad-money"),
			message(t, 5, "emp-flaky"),
			{Offset: 6, Value: []byte("{not json")},
		},
	}

	var calls []string
	flakyFailures := 1
	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
			calls = append(calls, req.EmployeeID)
			assert.Equal(t, "2024-06", req.Period)
			assert.Equal(t, "REQ-RUN", contextutil.GetRequestID(ctx))
			assert.Equal(t, "run-1", contextutil.GetRunID(ctx))

			switch req.EmployeeID {
			case "emp-dup":
				return payroll.PayrollResponse{}, payrollerrors.ErrPayrollAlreadyCalculated
			case "emp-missing":
				return payroll.PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
			case "emp-bad-money":
				return payroll.PayrollResponse{}, payrollerrors.ErrInvalidMoneyValue
			case "emp-flaky":
				if flakyFailures > 0 {
					flakyFailures--
					return payroll.PayrollResponse{}, errors.New("connection reset")
				}
			}
			return payroll.PayrollResponse{ID: "pay-" + req.EmployeeID}, nil
		},
	}

	consumer.ConsumePayrollCalculationRequested(ctx, reader, svc, zap.NewNop())

	assert.Equal(t, []string{"emp-ok", "emp-dup", "emp-missing", "emp-bad-money", "emp-flaky", "emp-flaky"}, calls)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, reader.committed)
}

func TestConsumePayrollCalculationRequested_RetriesTransientFailureBeforeCommit(t *testing.T) {
	fastRetries(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trace []string
	reader := &fakeReader{
		cancel:   cancel,
		trace:    &trace,
		messages: []kafkago.Message{message(t, 1, "emp-1"), message(t, 2, "emp-2")},
	}

	failures := 1
	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
			trace = append(trace, "calculate:"+req.EmployeeID)
			if req.EmployeeID == "emp-1" && failures > 0 {
				failures--
				return payroll.PayrollResponse{}, errors.New("database is restarting")
			}
			return payroll.PayrollResponse{ID: "pay-1"}, nil
		},
	}

	consumer.ConsumePayrollCalculationRequested(ctx, reader, svc, zap.NewNop())

	assert.Equal(t, []string{
		"calculate:emp-1",
		"calculate:emp-1",
		"commit:1",
		"calculate:emp-2",
		"commit:2",
	}, trace)
}

func TestConsumePayrollCalculationRequested_StopsRetryingOnCancel(t *testing.T) {
	fastRetries(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trace []string
	reader := &fakeReader{
		cancel:   cancel,
		trace:    &trace,
		messages: []kafkago.Message{message(t, 1, "emp-1"), message(t, 2, "emp-2")},
	}

	attempts := 0
	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
			attempts++
			if attempts == 3 {
				cancel()
			}
			return payroll.PayrollResponse{}, errors.New("database is down")
		},
	}

	consumer.ConsumePayrollCalculationRequested(ctx, reader, svc, zap.NewNop())

	assert.Equal(t, 3, attempts)
	assert.Empty(t, reader.committed)
	assert.Equal(t, 1, reader.next, "second message must not be fetched")
}

func TestConsumePayrollCalculationRequested_BacksOffOnFetchError(t *testing.T) {
	t.Cleanup(consumer.SetRetryDelays(20*time.Millisecond, time.Millisecond, 4*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trace []string
	reader := &fakeReader{
		cancel:      cancel,
		trace:       &trace,
		fetchErrors: 2,
		messages:    []kafkago.Message{message(t, 1, "emp-1")},
	}

	svc := &fakePayrollService{
		calculateFn: func(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollResponse, error) {
			trace = append(trace, "calculate:"+req.EmployeeID)
			return payroll.PayrollResponse{ID: "pay-1"}, nil
		},
	}

	start := time.Now()
	consumer.ConsumePayrollCalculationRequested(ctx, reader, svc, zap.NewNop())

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, []string{"fetch-error", "fetch-error", "calculate:emp-1", "commit:1"}, trace)
}
