package submission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
)

func TestInMemoryStatusSemantics(t *testing.T) {
	ctx := context.Background()
	cycle := id.NewCycleID()
	a, b, c := id.NewEmployeeID(), id.NewEmployeeID(), id.NewEmployeeID()

	store := NewInMemory()
	store.SetReview(cycle, id.Q1, a, StatusSubmitted, StatusApproved)
	store.SetReview(cycle, id.Q1, b, StatusSubmitted, StatusDraft)
	store.SetReview(cycle, id.Q1, c, StatusDraft, StatusDraft)
	store.SetReview(cycle, id.YearEnd, a, StatusSubmitted, StatusReleased)
	store.SetReview(cycle, id.YearEnd, b, StatusSubmitted, StatusApproved)
	store.AddGoal(cycle, id.Q1, a, StatusLocked)
	store.AddGoal(cycle, id.Q1, b, StatusReturned)
	store.AddGoal(cycle, id.Q1, c, StatusSubmitted)
	store.AddGoal(cycle, id.Q1, c, StatusSubmitted)

	t.Run("quarterly self-review", func(t *testing.T) {
		submitted, err := store.SubmittedEmployeeIDs(ctx, cycle, id.Q1, models.KindSelfReview)
		require.NoError(t, err)
		assert.ElementsMatch(t, []id.EmployeeID{a, b}, submitted.IDs())

		reviewed, err := store.ReviewedEmployeeIDs(ctx, cycle, id.Q1, models.KindSelfReview)
		require.NoError(t, err)
		assert.ElementsMatch(t, []id.EmployeeID{a}, reviewed.IDs())
	})

	t.Run("year-end manager review is terminal when submitted or released", func(t *testing.T) {
		reviewed, err := store.ReviewedEmployeeIDs(ctx, cycle, id.YearEnd, models.KindSelfReview)
		require.NoError(t, err)
		assert.ElementsMatch(t, []id.EmployeeID{a}, reviewed.IDs(), "approved is not a year-end state")
	})

	t.Run("goals", func(t *testing.T) {
		submitted, err := store.SubmittedEmployeeIDs(ctx, cycle, id.Q1, models.KindGoal)
		require.NoError(t, err)
		assert.ElementsMatch(t, []id.EmployeeID{a, c}, submitted.IDs(), "returned goals are back with the employee")

		pending, err := store.PendingGoalApprovals(ctx, cycle, []id.EmployeeID{a, b, c})
		require.NoError(t, err)
		assert.Equal(t, 2, pending, "every submitted goal counts")
	})

	t.Run("goals have no year-end", func(t *testing.T) {
		_, err := store.SubmittedEmployeeIDs(ctx, cycle, id.YearEnd, models.KindGoal)
		assert.Error(t, err)
	})
}
