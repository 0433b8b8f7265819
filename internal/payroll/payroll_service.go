package payroll

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Mostafa-SAID7/paytrack-app/internal/analytics"
	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka"
	payrollerrors "github.com/Mostafa-SAID7/paytrack-app/internal/payroll/errors"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	RequestRun(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employees, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		rdb:       rdb,
		logger:    l,
	}
}

func (s *service) Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	period := strings.TrimSpace(req.Period)
	s.logger.Debug("calculate payroll requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", period),
	)

	if period == "" {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("calculate payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	empl, err := s.employees.WithTx(tx).FindByID(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Warn("calculate payroll employee lookup failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return PayrollResponse{}, mapEmployeeLookupError(err)
	}

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.ExistsForPeriod(ctx, req.EmployeeID, period)
	if err != nil {
		s.logger.Error("calculate payroll duplicate check failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	if exists {
		s.logger.Info("calculate payroll skipped, already calculated",
			zap.String("employee_id", req.EmployeeID),
			zap.String("period", period),
		)
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyCalculated
	}

	calc, err := Calculate(CompensationOf(empl), period)
	if err != nil {
		s.logger.Warn("calculate payroll invalid compensation", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}

	record := newPayrollRecord(empl, calc)
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("calculate payroll persist failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.PayrollCalculatedEvent{
			EventType:  "payroll_calculated",
			RequestID:  rid,
			RunID:      contextutil.GetRunID(ctx),
			PayrollID:  record.ID.String(),
			EmployeeID: record.EmployeeID.String(),
			Period:     record.Period,
			NetSalary:  record.NetSalary.String(),
			OccurredAt: time.Now().UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "payroll", record.ID.String(), event.EventType, events.PayrollCalculatedTopic, event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return PayrollResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("calculate payroll outbox persist failed",
				zap.String("payroll_id", record.ID.String()),
				zap.Error(err),
			)
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("calculate payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	s.invalidateAnalytics(ctx)

	s.logger.Info("calculate payroll success",
		zap.String("request_id", rid),
		zap.String("payroll_id", record.ID.String()),
		zap.String("employee_id", record.EmployeeID.String()),
		zap.String("period", record.Period),
		zap.String("net_salary", record.NetSalary.String()),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, error) {
	s.logger.Debug("get all payrolls requested", zap.String("period", filter.Period))
	records, err := s.repo.FindAll(ctx, PayrollQueryFilter{Period: filter.Period})
	if err != nil {
		s.logger.Error("get all payrolls failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(records), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]PayrollResponse, error) {
	s.logger.Debug("get payrolls by employee requested", zap.String("employee_id", employeeID))
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	records, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get payrolls by employee failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(records), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	s.logger.Debug("get payroll by id requested", zap.String("payroll_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidPayrollID
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get payroll by id failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*record), nil
}

// RequestRun queues one calculation request per active employee. The
// calculations themselves happen in the payroll-run consumer.
func (s *service) RequestRun(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	period := strings.TrimSpace(req.Period)
	if period == "" {
		return RunPayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}
	if s.outbox == nil {
		return RunPayrollResponse{}, payrollerrors.ErrPayrollRunUnavailable
	}

	empls, err := s.employees.FindActive(ctx)
	if err != nil {
		s.logger.Error("payroll run list active employees failed", zap.Error(err))
		return RunPayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("payroll run begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RunPayrollResponse{}, err
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	outboxRepo := s.outbox.WithTx(tx)
	for _, empl := range empls {
		event := events.PayrollCalculationRequestedEvent{
			EventType:  "payroll_calculation_requested",
			RequestID:  rid,
			RunID:      runID,
			EmployeeID: empl.ID.String(),
			Period:     period,
			OccurredAt: time.Now().UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), event.EventType, events.PayrollCalculationRequestedTopic, event)
		if err != nil {
			return RunPayrollResponse{}, err
		}
		if err := outboxRepo.Create(ctx, outboxEvent); err != nil {
			s.logger.Error("payroll run outbox persist failed",
				zap.String("run_id", runID),
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return RunPayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("payroll run commit failed", zap.String("run_id", runID), zap.Error(err))
		return RunPayrollResponse{}, err
	}

	s.logger.Info("payroll run queued",
		zap.String("request_id", rid),
		zap.String("run_id", runID),
		zap.String("period", period),
		zap.Int("queued", len(empls)),
	)

	return RunPayrollResponse{RunID: runID, Period: period, Queued: len(empls)}, nil
}

func (s *service) invalidateAnalytics(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, analytics.CacheKeys()...).Err(); err != nil {
		s.logger.Error("failed to invalidate analytics cache", zap.Error(err))
	}
}

// CompensationOf reads the calculation inputs from a stored employee.
func CompensationOf(empl *employee.Employee) Compensation {
	comp := Compensation{
		BaseSalary: empl.BaseSalary,
		Allowances: make(map[string]decimal.Decimal),
		Deductions: make(map[string]decimal.Decimal),
	}
	for _, item := range empl.CompensationItems {
		switch item.Kind {
		case employee.ItemKindAllowance:
			comp.Allowances[item.Category] = item.Amount
		case employee.ItemKindDeduction:
			comp.Deductions[item.Category] = item.Amount
		}
	}
	return comp
}

func newPayrollRecord(empl *employee.Employee, calc Calculation) *PayrollRecord {
	record := &PayrollRecord{
		ID:              uuid.New(),
		EmployeeID:      empl.ID,
		EmployeeName:    empl.Name,
		Period:          calc.Period,
		BaseSalary:      calc.BaseSalary,
		TotalAllowances: calc.TotalAllowances,
		GrossSalary:     calc.GrossSalary,
		TaxRate:         calc.TaxRate,
		TaxAmount:       calc.TaxAmount,
		TotalDeductions: calc.TotalDeductions,
		NetSalary:       calc.NetSalary,
		Status:          StatusCalculated,
	}

	add := func(componentType string, amounts map[string]decimal.Decimal) {
		for _, name := range sortedKeys(amounts) {
			record.Components = append(record.Components, PayrollComponent{
				ID:            uuid.New(),
				PayrollID:     record.ID,
				ComponentType: componentType,
				ComponentName: name,
				Amount:        amounts[name],
			})
		}
	}
	add(ComponentTypeAllowance, calc.Allowances)
	add(ComponentTypeDeduction, calc.Deductions)

	return record
}

func mapToResponse(record PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:              record.ID.String(),
		EmployeeID:      record.EmployeeID.String(),
		EmployeeName:    record.EmployeeName,
		Period:          record.Period,
		BaseSalary:      record.BaseSalary.InexactFloat64(),
		TotalAllowances: record.TotalAllowances.InexactFloat64(),
		GrossSalary:     record.GrossSalary.InexactFloat64(),
		TaxRate:         record.TaxRate.InexactFloat64(),
		TaxAmount:       record.TaxAmount.InexactFloat64(),
		TotalDeductions: record.TotalDeductions.InexactFloat64(),
		NetSalary:       record.NetSalary.InexactFloat64(),
		Status:          record.Status,
		Breakdown: PayrollBreakdownResponse{
			Allowances: map[string]float64{},
			Deductions: map[string]float64{},
		},
	}
	if !record.CreatedAt.IsZero() {
		resp.CreatedAt = record.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, c := range record.Components {
		switch c.ComponentType {
		case ComponentTypeAllowance:
			resp.Breakdown.Allowances[c.ComponentName] = c.Amount.InexactFloat64()
		case ComponentTypeDeduction:
			resp.Breakdown.Deductions[c.ComponentName] = c.Amount.InexactFloat64()
		}
	}
	return resp
}

func mapToListResponse(records []PayrollRecord) []PayrollResponse {
	res := make([]PayrollResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res
}
