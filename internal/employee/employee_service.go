package employee

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Mostafa-SAID7/paytrack-app/internal/analytics"
	employeeerrors "github.com/Mostafa-SAID7/paytrack-app/internal/employee/errors"
	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	if err := validateMoney(req.BaseSalary, req.Allowances, req.Deductions); err != nil {
		s.logger.Warn("create employee invalid money value", zap.String("request_id", rid))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	empl := &Employee{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Position:   strings.TrimSpace(req.Position),
		Department: strings.TrimSpace(req.Department),
		BaseSalary: decimal.NewFromFloat(req.BaseSalary),
		Status:     StatusActive,
	}
	empl.CompensationItems = buildCompensationItems(empl.ID, req.Allowances, req.Deductions)

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			Department: empl.Department,
			OccurredAt: time.Now().UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), event.EventType, events.EmployeeCreatedTopic, event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateAnalytics(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested",
		zap.String("department", filter.Department),
		zap.String("q", filter.Q),
	)
	empls, err := s.repo.FindAll(ctx, EmployeeQueryFilter{
		Q:          filter.Q,
		Department: filter.Department,
	})
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if err := validateMoney(req.BaseSalary, req.Allowances, req.Deductions); err != nil {
		s.logger.Warn("update employee invalid money value", zap.String("employee_id", id))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.Name = strings.TrimSpace(req.Name)
	empl.Email = strings.ToLower(strings.TrimSpace(req.Email))
	empl.Position = strings.TrimSpace(req.Position)
	empl.Department = strings.TrimSpace(req.Department)
	empl.BaseSalary = decimal.NewFromFloat(req.BaseSalary)
	if req.Status != "" {
		empl.Status = req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	items := buildCompensationItems(employeeID, req.Allowances, req.Deductions)
	if err := qtx.ReplaceCompensationItems(ctx, id, items); err != nil {
		s.logger.Error("update employee compensation items failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	empl.CompensationItems = items

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateAnalytics(ctx)

	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		s.logger.Warn("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateAnalytics(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateAnalytics(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, analytics.CacheKeys()...).Err(); err != nil {
		s.logger.Error("failed to invalidate analytics cache", zap.Error(err))
	}
}

func validateMoney(base float64, allowances, deductions map[string]float64) error {
	if !validAmount(base) {
		return employeeerrors.ErrInvalidMoneyValue
	}
	for _, m := range []map[string]float64{allowances, deductions} {
		for _, v := range m {
			if !validAmount(v) {
				return employeeerrors.ErrInvalidMoneyValue
			}
		}
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// buildCompensationItems flattens the category maps into rows ordered by
// kind then category so inserts are deterministic.
func buildCompensationItems(employeeID uuid.UUID, allowances, deductions map[string]float64) []CompensationItem {
	items := make([]CompensationItem, 0, len(allowances)+len(deductions))
	add := func(kind string, m map[string]float64) {
		categories := make([]string, 0, len(m))
		for category := range m {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			items = append(items, CompensationItem{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				Kind:       kind,
				Category:   category,
				Amount:     decimal.NewFromFloat(m[category]),
			})
		}
	}
	add(ItemKindAllowance, allowances)
	add(ItemKindDeduction, deductions)
	return items
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         empl.ID.String(),
		Name:       empl.Name,
		Email:      empl.Email,
		Position:   empl.Position,
		Department: empl.Department,
		BaseSalary: empl.BaseSalary.InexactFloat64(),
		Allowances: map[string]float64{},
		Deductions: map[string]float64{},
		Status:     empl.Status,
		CreatedAt:  formatTimestamp(empl.CreatedAt),
		UpdatedAt:  formatTimestamp(empl.UpdatedAt),
	}
	for _, item := range empl.CompensationItems {
		switch item.Kind {
		case ItemKindAllowance:
			resp.Allowances[item.Category] = item.Amount.InexactFloat64()
		case ItemKindDeduction:
			resp.Deductions[item.Category] = item.Amount.InexactFloat64()
		}
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
