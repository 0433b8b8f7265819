package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/payroll"
	payrollerrors "github.com/Mostafa-SAID7/paytrack-app/internal/payroll/errors"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers rely on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var (
	fetchRetryDelay    = 2 * time.Second
	calculateBaseDelay = time.Second
	calculateMaxDelay  = 30 * time.Second
)

// ConsumePayrollCalculationRequested calculates payroll for every employee
// queued by a payroll run. Messages whose outcome is final (done, duplicate,
// unknown employee, invalid input, undecodable) are committed. A transient
// failure is retried in place with backoff: committing a later offset would
// also commit the failed one, so the reader never moves past it.
func ConsumePayrollCalculationRequested(
	ctx context.Context,
	reader MessageReader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			if !sleepCtx(ctx, fetchRetryDelay) {
				log.Info("payroll run consumer stopped")
				return
			}
			continue
		}

		var event events.PayrollCalculationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll calculation requested event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := contextutil.WithRequestID(ctx, event.RequestID)
		msgCtx = contextutil.WithRunID(msgCtx, event.RunID)

		resp, err := calculateWithRetry(msgCtx, payrollService, event, log)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped",
					zap.String("run_id", event.RunID),
					zap.String("employee_id", event.EmployeeID),
				)
				return
			}

			log.Warn("payroll calculation skipped",
				zap.String("run_id", event.RunID),
				zap.String("employee_id", event.EmployeeID),
				zap.String("period", event.Period),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("payroll calculated from run",
			zap.String("run_id", event.RunID),
			zap.String("payroll_id", resp.ID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("period", event.Period),
		)
	}
}

// calculateWithRetry returns nil on success, a final-outcome error, or the
// last transient error once ctx is done.
func calculateWithRetry(
	ctx context.Context,
	payrollService payroll.Service,
	event events.PayrollCalculationRequestedEvent,
	log *zap.Logger,
) (payroll.PayrollResponse, error) {
	delay := calculateBaseDelay
	for attempt := 1; ; attempt++ {
		resp, err := payrollService.Calculate(ctx, payroll.CalculatePayrollRequest{
			EmployeeID: event.EmployeeID,
			Period:     event.Period,
		})
		if err == nil || isFinalOutcome(err) {
			return resp, err
		}

		log.Error("payroll calculation failed, retrying",
			zap.String("run_id", event.RunID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("period", event.Period),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if !sleepCtx(ctx, delay) {
			return payroll.PayrollResponse{}, err
		}
		delay = min(delay*2, calculateMaxDelay)
	}
}

func isFinalOutcome(err error) bool {
	return errors.Is(err, payrollerrors.ErrPayrollAlreadyCalculated) ||
		errors.Is(err, payrollerrors.ErrEmployeeNotFound) ||
		errors.Is(err, payrollerrors.ErrInvalidPeriod) ||
		errors.Is(err, payrollerrors.ErrInvalidEmployeeID) ||
		errors.Is(err, payrollerrors.ErrInvalidMoneyValue)
}

// sleepCtx waits for d and reports false when ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
