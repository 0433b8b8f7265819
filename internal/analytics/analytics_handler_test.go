package analytics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mostafa-SAID7/paytrack-app/internal/analytics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAnalyticsService struct {
	DashboardStatsFn func(ctx context.Context) (analytics.DashboardStatsResponse, error)
	DepartmentsFn    func(ctx context.Context) ([]analytics.DepartmentStatsResponse, error)
}

func (f *fakeAnalyticsService) DashboardStats(ctx context.Context) (analytics.DashboardStatsResponse, error) {
	return f.DashboardStatsFn(ctx)
}

func (f *fakeAnalyticsService) Departments(ctx context.Context) ([]analytics.DepartmentStatsResponse, error) {
	return f.DepartmentsFn(ctx)
}

func TestAnalyticsHandler_DashboardStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		h := analytics.NewHandler(&fakeAnalyticsService{
			DashboardStatsFn: func(ctx context.Context) (analytics.DashboardStatsResponse, error) {
				return analytics.DashboardStatsResponse{TotalEmployees: 2, TotalPayroll: 100, AvgSalary: 50, ProcessedRecords: 2}, nil
			},
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)

		h.DashboardStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalEmployees":2`)
		assert.Contains(t, w.Body.String(), `"processedRecords":2`)
	})

	t.Run("internal error is not leaked", func(t *testing.T) {
		h := analytics.NewHandler(&fakeAnalyticsService{
			DashboardStatsFn: func(ctx context.Context) (analytics.DashboardStatsResponse, error) {
				return analytics.DashboardStatsResponse{}, errors.New("pq: connection refused")
			},
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)

		h.DashboardStats(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestAnalyticsHandler_Departments(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := analytics.NewHandler(&fakeAnalyticsService{
		DepartmentsFn: func(ctx context.Context) ([]analytics.DepartmentStatsResponse, error) {
			return []analytics.DepartmentStatsResponse{
				{Department: "Engineering", EmployeeCount: 2, TotalSalary: 8000, AvgSalary: 4000},
			}, nil
		},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/analytics/departments", nil)

	h.Departments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"department":"Engineering"`)
	assert.Contains(t, w.Body.String(), `"employeeCount":2`)
}
