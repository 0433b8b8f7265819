package payroll_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/Mostafa-SAID7/paytrack-app/internal/employee"
	"github.com/Mostafa-SAID7/paytrack-app/internal/payroll"

	"github.com/stretchr/testify/assert"
)

const initMigration = "../../migrations/000001_init.up.sql"

// allowedValues returns the literals of the `column IN (...)` CHECK list
// declared for column in the migration.
func allowedValues(t *testing.T, sql, column string) []string {
	t.Helper()
	re := regexp.MustCompile(`CHECK \(` + column + ` IN \(([^)]*)\)\)`)
	m := re.FindStringSubmatch(sql)
	if !assert.Len(t, m, 2, "no CHECK list for %s", column) {
		return nil
	}

	var values []string
	for _, v := range strings.Split(m[1], ",") {
		values = append(values, strings.Trim(strings.TrimSpace(v), "'"))
	}
	return values
}

func TestMigration_ItemKindsMatchConstants(t *testing.T) {
	b, err := os.ReadFile(initMigration)
	assert.NoError(t, err)
	sql := string(b)

	t.Run("compensation item kind", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]string{employee.ItemKindAllowance, employee.ItemKindDeduction},
			allowedValues(t, sql, "kind"),
		)
	})

	t.Run("payroll component type", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]string{payroll.ComponentTypeAllowance, payroll.ComponentTypeDeduction},
			allowedValues(t, sql, "component_type"),
		)
	})
}
