package analytics

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DashboardCacheKey   = "analytics:dashboard"
	DepartmentsCacheKey = "analytics:departments"
	CacheTTL            = 5 * time.Minute
)

// CacheKeys lists every key that writes to employees or payroll records must
// delete after commit.
func CacheKeys() []string {
	return []string{DashboardCacheKey, DepartmentsCacheKey}
}

type Service interface {
	DashboardStats(ctx context.Context) (DashboardStatsResponse, error)
	Departments(ctx context.Context) ([]DepartmentStatsResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("analytics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) DashboardStats(ctx context.Context) (DashboardStatsResponse, error) {
	var cached DashboardStatsResponse
	if s.readCache(ctx, DashboardCacheKey, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(DashboardCacheKey, func() (interface{}, error) {
		employees, err := s.repo.CountEmployees(ctx)
		if err != nil {
			s.logger.Error("count employees failed", zap.Error(err))
			return nil, err
		}
		totals, err := s.repo.SumPayroll(ctx)
		if err != nil {
			s.logger.Error("sum payroll failed", zap.Error(err))
			return nil, err
		}

		resp := BuildDashboardStats(employees, totals)
		s.writeCache(ctx, DashboardCacheKey, resp)
		return resp, nil
	})
	if err != nil {
		return DashboardStatsResponse{}, err
	}

	return v.(DashboardStatsResponse), nil
}

func (s *service) Departments(ctx context.Context) ([]DepartmentStatsResponse, error) {
	var cached []DepartmentStatsResponse
	if s.readCache(ctx, DepartmentsCacheKey, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(DepartmentsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.ListEmployeeLatestNet(ctx)
		if err != nil {
			s.logger.Error("list employee latest net failed", zap.Error(err))
			return nil, err
		}

		resp := AggregateDepartments(rows)
		s.writeCache(ctx, DepartmentsCacheKey, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]DepartmentStatsResponse), nil
}

func (s *service) readCache(ctx context.Context, key string, dst any) bool {
	if s.rdb == nil {
		return false
	}
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (s *service) writeCache(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, CacheTTL).Err(); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// BuildDashboardStats averages net salary over processed records; the
// average is zero when nothing has been processed.
func BuildDashboardStats(totalEmployees int64, totals PayrollTotals) DashboardStatsResponse {
	avg := decimal.Zero
	if totals.Records > 0 {
		avg = totals.TotalNet.Div(decimal.NewFromInt(totals.Records))
	}
	return DashboardStatsResponse{
		TotalEmployees:   totalEmployees,
		TotalPayroll:     totals.TotalNet.InexactFloat64(),
		AvgSalary:        avg.InexactFloat64(),
		ProcessedRecords: totals.Records,
	}
}

// AggregateDepartments groups employees by department. Each employee counts
// once and contributes the net salary of their latest record, or nothing.
func AggregateDepartments(rows []EmployeeLatestNet) []DepartmentStatsResponse {
	type acc struct {
		count int
		total decimal.Decimal
	}
	byDept := make(map[string]*acc)
	for _, row := range rows {
		a, ok := byDept[row.Department]
		if !ok {
			a = &acc{total: decimal.Zero}
			byDept[row.Department] = a
		}
		a.count++
		if row.LatestNet.Valid {
			a.total = a.total.Add(row.LatestNet.Decimal)
		}
	}

	resp := make([]DepartmentStatsResponse, 0, len(byDept))
	for dept, a := range byDept {
		avg := decimal.Zero
		if a.count > 0 {
			avg = a.total.Div(decimal.NewFromInt(int64(a.count)))
		}
		resp = append(resp, DepartmentStatsResponse{
			Department:    dept,
			EmployeeCount: a.count,
			TotalSalary:   a.total.InexactFloat64(),
			AvgSalary:     avg.InexactFloat64(),
		})
	}
	sort.Slice(resp, func(i, j int) bool {
		return resp[i].Department < resp[j].Department
	})
	return resp
}
