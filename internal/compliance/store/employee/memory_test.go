package employee

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/sentinel"
)

func date(m time.Month, d int) civil.Date {
	return civil.Date{Year: 2026, Month: m, Day: d}
}

func codes(es []models.Employee) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.EmpCode
	}
	return out
}

func TestInMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	manager := models.Employee{ID: id.NewEmployeeID(), EmpCode: "M01", JoinDate: date(time.January, 1), Status: models.EmployeeActive}
	early := models.Employee{ID: id.NewEmployeeID(), EmpCode: "E02", ManagerID: &manager.ID, JoinDate: date(time.February, 1), Status: models.EmployeeActive}
	onDay := models.Employee{ID: id.NewEmployeeID(), EmpCode: "E01", ManagerID: &manager.ID, JoinDate: date(time.March, 1), Status: models.EmployeeActive}
	late := models.Employee{ID: id.NewEmployeeID(), EmpCode: "E03", ManagerID: &manager.ID, JoinDate: date(time.March, 2), Status: models.EmployeeActive}
	gone := models.Employee{ID: id.NewEmployeeID(), EmpCode: "E04", ManagerID: &manager.ID, JoinDate: date(time.January, 1), Status: models.EmployeeInactive}
	store := NewInMemory(manager, early, onDay, late, gone)

	t.Run("eligible employees joined on or before the date and are active", func(t *testing.T) {
		got, err := store.ActiveEmployeesJoinedOnOrBefore(ctx, date(time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, []string{"E01", "E02", "M01"}, codes(got))
	})

	t.Run("direct reports exclude inactive employees", func(t *testing.T) {
		got, err := store.DirectReportsOf(ctx, manager.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"E01", "E02", "E03"}, codes(got))
	})

	t.Run("find copies the manager pointer", func(t *testing.T) {
		got, err := store.FindEmployee(ctx, early.ID)
		require.NoError(t, err)
		*got.ManagerID = id.NewEmployeeID()

		again, err := store.FindEmployee(ctx, early.ID)
		require.NoError(t, err)
		assert.Equal(t, manager.ID, *again.ManagerID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := store.FindEmployee(ctx, id.NewEmployeeID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
