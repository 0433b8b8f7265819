package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Mostafa-SAID7/paytrack-app/internal/analytics"
	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	employeeerrors "github.com/Mostafa-SAID7/paytrack-app/internal/employee/errors"
	employeeMock "github.com/Mostafa-SAID7/paytrack-app/internal/employee/mock"
	"github.com/Mostafa-SAID7/paytrack-app/internal/events"
	"github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka"
	kafkaMock "github.com/Mostafa-SAID7/paytrack-app/internal/messaging/kafka/mock"
	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, outboxRepo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		Name:       "John Doe",
		Email:      "John@Example.com ",
		Position:   "Developer",
		Department: "Engineering",
		BaseSalary: 4000,
		Allowances: map[string]float64{"housing": 800, "transport": 300},
		Deductions: map[string]float64{"insurance": 200},
	}
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("success persists items, outbox and invalidates analytics", func(t *testing.T) {
		deps := setupServiceTest(t)
		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)
		req := validCreateRequest()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "John Doe", e.Name)
				assert.Equal(t, "john@example.com", e.Email)
				assert.Equal(t, employee.StatusActive, e.Status)
				assert.True(t, decimal.NewFromInt(4000).Equal(e.BaseSalary))
				assert.Len(t, e.CompensationItems, 3)
				assert.Equal(t, employee.ItemKindAllowance, e.CompensationItems[0].Kind)
				assert.Equal(t, "housing", e.CompensationItems[0].Category)
				assert.Equal(t, employee.ItemKindDeduction, e.CompensationItems[2].Kind)
				for _, item := range e.CompensationItems {
					assert.Equal(t, e.ID, item.EmployeeID)
				}
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, rid, ev.RequestID)
				assert.Equal(t, events.EmployeeCreatedTopic, ev.Topic)
				var payload events.EmployeeCreatedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, "Engineering", payload.Department)
				return nil
			})
		deps.redismock.ExpectDel(analytics.CacheKeys()...).SetVal(2)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, 4000.0, resp.BaseSalary)
		assert.Equal(t, map[string]float64{"housing": 800, "transport": 300}, resp.Allowances)
		assert.Equal(t, map[string]float64{"insurance": 200}, resp.Deductions)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative allowance is rejected before the transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.Allowances["bonus"] = -1

		_, err := deps.service.Create(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidMoneyValue)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("NaN base salary is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.BaseSalary = math.NaN()

		_, err := deps.service.Create(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidMoneyValue)
	})

	t.Run("repo error -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db error"))

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email -> conflict error", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, validCreateRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success forwards filter", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindAll(ctx, employee.EmployeeQueryFilter{Q: "an", Department: "Engineering"}).
			Return([]employee.Employee{
				{ID: uuid.New(), Name: "Andi", Email: "andi@comp.com", Department: "Engineering"},
				{ID: uuid.New(), Name: "Dani", Email: "dani@comp.com", Department: "Engineering"},
			}, nil)

		resp, err := deps.service.GetAll(ctx, employee.GetEmployeesFilterRequest{Q: "an", Department: "Engineering"})

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Andi", resp[0].Name)
		assert.NotNil(t, resp[0].Allowances)
	})

	t.Run("error repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(ctx, gomock.Any()).Return(nil, errors.New("db error"))

		resp, err := deps.service.GetAll(ctx, employee.GetEmployeesFilterRequest{})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetByID(ctx, "123")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces profile and compensation items", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		existing := &employee.Employee{ID: id, Name: "Old", Email: "old@comp.com", Status: employee.StatusActive}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(existing, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "New Name", e.Name)
				assert.Equal(t, employee.StatusInactive, e.Status)
				return nil
			})
		deps.repo.EXPECT().
			ReplaceCompensationItems(ctx, id.String(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, employeeID string, items []employee.CompensationItem) error {
				assert.Len(t, items, 1)
				assert.Equal(t, "meal", items[0].Category)
				return nil
			})
		deps.redismock.ExpectDel(analytics.CacheKeys()...).SetVal(2)

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			Name:       "New Name",
			Email:      "new@comp.com",
			Position:   "Lead",
			Department: "Engineering",
			BaseSalary: 5000,
			Allowances: map[string]float64{"meal": 100},
			Status:     employee.StatusInactive,
		})

		assert.NoError(t, err)
		assert.Equal(t, map[string]float64{"meal": 100}, resp.Allowances)
		assert.Empty(t, resp.Deductions)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("missing employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id, employee.UpdateEmployeeRequest{Name: "x", Email: "x@y.z", Position: "p", Department: "d"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(nil)
		deps.redismock.ExpectDel(analytics.CacheKeys()...).SetVal(2)

		assert.NoError(t, deps.service.Delete(ctx, id))
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, deps.service.Delete(ctx, id), employeeerrors.ErrEmployeeNotFound)
	})
}
