package analytics

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayrollTotals aggregates net salary over every stored payroll record.
type PayrollTotals struct {
	TotalNet decimal.Decimal
	Records  int64
}

// EmployeeLatestNet is one current employee with the net salary of their
// most recent payroll record, if any.
type EmployeeLatestNet struct {
	EmployeeID string
	Department string
	LatestNet  decimal.NullDecimal
}

//go:generate mockgen -source=analytics_repo.go -destination=mock/analytics_repo_mock.go -package=mock
type Repository interface {
	CountEmployees(ctx context.Context) (int64, error)
	SumPayroll(ctx context.Context) (PayrollTotals, error)
	ListEmployeeLatestNet(ctx context.Context) ([]EmployeeLatestNet, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("deleted_at IS NULL").
		Count(&total).Error
	return total, err
}

func (r *repository) SumPayroll(ctx context.Context) (PayrollTotals, error) {
	var totals PayrollTotals
	err := r.db.WithContext(ctx).
		Table("payroll_records").
		Select("COALESCE(SUM(net_salary), 0) AS total_net, COUNT(*) AS records").
		Scan(&totals).Error
	return totals, err
}

const latestNetQuery = `
SELECT e.id::text AS employee_id, e.department, latest.net_salary AS latest_net
FROM employees e
LEFT JOIN LATERAL (
	SELECT p.net_salary
	FROM payroll_records p
	WHERE p.employee_id = e.id
	ORDER BY p.created_at DESC
	LIMIT 1
) latest ON TRUE
WHERE e.deleted_at IS NULL
ORDER BY e.department ASC`

func (r *repository) ListEmployeeLatestNet(ctx context.Context) ([]EmployeeLatestNet, error) {
	var rows []EmployeeLatestNet
	err := r.db.WithContext(ctx).Raw(latestNetQuery).Scan(&rows).Error
	return rows, err
}
