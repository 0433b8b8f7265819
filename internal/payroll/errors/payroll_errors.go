package payrollerrors

import (
	"net/http"

	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/apperror"
)

var (
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period is required",
		http.StatusBadRequest,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"salary component values must be non-negative numbers",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollRunUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"payroll run queue is not configured",
		http.StatusServiceUnavailable,
	)
	ErrPayrollAlreadyCalculated = apperror.New(
		apperror.CodeConflict,
		"Payroll already calculated for this period",
		http.StatusBadRequest,
	)
)
