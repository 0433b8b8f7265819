package employee

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/connection"

	"gorm.io/gorm"
)

type EmployeeQueryFilter struct {
	Q          string
	Department string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter EmployeeQueryFilter) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, empl *Employee) error
	ReplaceCompensationItems(ctx context.Context, employeeID string, items []CompensationItem) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, filter EmployeeQueryFilter) ([]Employee, error) {
	var empls []Employee
	query := r.conn(ctx).Preload("CompensationItems")

	if department := strings.TrimSpace(filter.Department); department != "" {
		query = query.Where("department = ?", department)
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Q)); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	err := query.Order("name ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Preload("CompensationItems").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Preload("CompensationItems").
		Where("status = ?", StatusActive).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Omit("CompensationItems").Save(empl).Error
}

func (r *repository) ReplaceCompensationItems(ctx context.Context, employeeID string, items []CompensationItem) error {
	db := r.conn(ctx)
	if err := db.Where("employee_id = ?", employeeID).Delete(&CompensationItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
