package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	employeeerrors "github.com/Mostafa-SAID7/paytrack-app/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn  func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn  func(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error)
	GetByIDFn func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	UpdateFn  func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "John Doe", req.Name)
				assert.Equal(t, 800.0, req.Allowances["housing"])
				return employee.EmployeeResponse{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Status: employee.StatusActive}, nil
			},
		}
		h := employee.NewHandler(svc)
		c, w := newTestContext(http.MethodPost, "/api/employees",
			`{"name":"John Doe","email":"john@example.com","position":"Developer","department":"Engineering","baseSalary":4000,"allowances":{"housing":800},"deductions":{"insurance":200}}`)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "John Doe")
	})

	t.Run("validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPost, "/api/employees", `{"email":"bad"}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("negative allowance is a validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPost, "/api/employees",
			`{"name":"A","email":"a@b.co","position":"P","department":"D","baseSalary":100,"allowances":{"housing":-5}}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non numeric salary is a validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		c, w := newTestContext(http.MethodPost, "/api/employees",
			`{"name":"A","email":"a@b.co","position":"P","department":"D","baseSalary":"lots"}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
			},
		})
		c, w := newTestContext(http.MethodPost, "/api/employees",
			`{"name":"A","email":"a@b.co","position":"P","department":"D","baseSalary":100}`)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	svc := &fakeEmployeeService{
		GetAllFn: func(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error) {
			assert.Equal(t, "Engineering", filter.Department)
			return []employee.EmployeeResponse{
				{ID: "1", Name: "Citra", BaseSalary: 3000},
				{ID: "2", Name: "andi", BaseSalary: 5000},
				{ID: "3", Name: "Budi", BaseSalary: 4000},
			}, nil
		},
	}
	h := employee.NewHandler(svc)

	t.Run("sorted by name with pagination meta", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/api/employees?department=Engineering&page=1&page_size=2", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data []employee.EmployeeResponse `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				TotalPages int   `json:"totalPages"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Len(t, env.Data, 2)
		assert.Equal(t, "andi", env.Data[0].Name)
		assert.Equal(t, "Budi", env.Data[1].Name)
		assert.Equal(t, int64(3), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
	})

	t.Run("sorted by base salary desc", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/api/employees?department=Engineering&sort_by=base_salary&sort_dir=desc", "")

		h.GetAll(c)

		var env struct {
			Data []employee.EmployeeResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, []string{"2", "3", "1"}, []string{env.Data[0].ID, env.Data[1].ID, env.Data[2].ID})
	})
}

func TestEmployeeHandler_GetById(t *testing.T) {
	h := employee.NewHandler(&fakeEmployeeService{
		GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	})
	c, w := newTestContext(http.MethodGet, "/api/employees/x", "")
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.GetById(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Employee not found")
}

func TestEmployeeHandler_Update(t *testing.T) {
	id := uuid.NewString()
	h := employee.NewHandler(&fakeEmployeeService{
		UpdateFn: func(ctx context.Context, gotID string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
			assert.Equal(t, id, gotID)
			return employee.EmployeeResponse{ID: gotID, Name: req.Name}, nil
		},
	})
	c, w := newTestContext(http.MethodPut, "/api/employees/"+id,
		`{"name":"Renamed","email":"a@b.co","position":"P","department":"D","baseSalary":100}`)
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	id := uuid.NewString()
	h := employee.NewHandler(&fakeEmployeeService{
		DeleteFn: func(ctx context.Context, gotID string) error {
			assert.Equal(t, id, gotID)
			return nil
		},
	})
	c, w := newTestContext(http.MethodDelete, "/api/employees/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
