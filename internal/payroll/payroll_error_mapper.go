package payroll

import (
	"errors"
	"strings"

	payrollerrors "github.com/Mostafa-SAID7/paytrack-app/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueEmployeePeriodConstraint = "uq_payroll_employee_period"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEmployeePeriodConstraint {
			return payrollerrors.ErrPayrollAlreadyCalculated
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEmployeePeriodConstraint) {
		return payrollerrors.ErrPayrollAlreadyCalculated
	}

	return err
}

func mapEmployeeLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrEmployeeNotFound
	}
	return err
}
