package payroll

import (
	"fmt"
	"sort"

	payrollerrors "github.com/Mostafa-SAID7/paytrack-app/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

// Gross above TaxThreshold is taxed entirely at UpperTaxRate, otherwise at
// LowerTaxRate. The rate is flat, not marginal: crossing the threshold by a
// cent raises the tax on the whole gross.
var (
	TaxThreshold = decimal.NewFromInt(5000)
	LowerTaxRate = decimal.RequireFromString("0.10")
	UpperTaxRate = decimal.RequireFromString("0.15")
)

// Compensation is the part of an employee record that drives a payroll
// calculation.
type Compensation struct {
	BaseSalary decimal.Decimal
	Allowances map[string]decimal.Decimal
	Deductions map[string]decimal.Decimal
}

// Calculation is the result of Calculate. Allowances and Deductions are
// copies of the inputs, kept as the record's breakdown.
type Calculation struct {
	Period          string
	BaseSalary      decimal.Decimal
	TotalAllowances decimal.Decimal
	GrossSalary     decimal.Decimal
	TaxRate         decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Allowances      map[string]decimal.Decimal
	Deductions      map[string]decimal.Decimal
}

// TaxRate returns the flat rate applied to the whole gross salary.
func TaxRate(gross decimal.Decimal) decimal.Decimal {
	if gross.GreaterThan(TaxThreshold) {
		return UpperTaxRate
	}
	return LowerTaxRate
}

// Calculate derives a payroll record from comp. The period is an opaque label
// and is not validated here. It is safe for concurrent use and returns an
// error wrapping ErrInvalidMoneyValue when any amount is negative.
func Calculate(comp Compensation, period string) (Calculation, error) {
	if comp.BaseSalary.IsNegative() {
		return Calculation{}, fmt.Errorf("base salary: %w", payrollerrors.ErrInvalidMoneyValue)
	}

	totalAllowances, allowances, err := sum("allowance", comp.Allowances)
	if err != nil {
		return Calculation{}, err
	}
	totalDeductions, deductions, err := sum("deduction", comp.Deductions)
	if err != nil {
		return Calculation{}, err
	}

	gross := comp.BaseSalary.Add(totalAllowances)
	rate := TaxRate(gross)
	tax := gross.Mul(rate)

	return Calculation{
		Period:          period,
		BaseSalary:      comp.BaseSalary,
		TotalAllowances: totalAllowances,
		GrossSalary:     gross,
		TaxRate:         rate,
		TaxAmount:       tax,
		TotalDeductions: totalDeductions,
		NetSalary:       gross.Sub(tax).Sub(totalDeductions),
		Allowances:      allowances,
		Deductions:      deductions,
	}, nil
}

func sum(kind string, amounts map[string]decimal.Decimal) (decimal.Decimal, map[string]decimal.Decimal, error) {
	total := decimal.Zero
	copied := make(map[string]decimal.Decimal, len(amounts))
	for name, v := range amounts {
		if v.IsNegative() {
			return decimal.Zero, nil, fmt.Errorf("%s %s: %w", kind, name, payrollerrors.ErrInvalidMoneyValue)
		}
		total = total.Add(v)
		copied[name] = v
	}
	return total, copied, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
