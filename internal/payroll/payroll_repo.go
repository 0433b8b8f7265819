package payroll

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/connection"

	"gorm.io/gorm"
)

type PayrollQueryFilter struct {
	Period string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayrollRecord) error
	ExistsForPeriod(ctx context.Context, employeeID, period string) (bool, error)
	FindAll(ctx context.Context, filter PayrollQueryFilter) ([]PayrollRecord, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]PayrollRecord, error)
	FindByID(ctx context.Context, id string) (*PayrollRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Scoped(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, record *PayrollRecord) error {
	return r.conn(ctx).Create(record).Error
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID, period string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&PayrollRecord{}).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter PayrollQueryFilter) ([]PayrollRecord, error) {
	var records []PayrollRecord
	query := r.conn(ctx).Preload("Components")
	if period := strings.TrimSpace(filter.Period); period != "" {
		query = query.Where("period = ?", period)
	}
	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.conn(ctx).
		Preload("Components").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.conn(ctx).
		Preload("Components").
		First(&record, "id = ?", id).Error
	return &record, err
}
