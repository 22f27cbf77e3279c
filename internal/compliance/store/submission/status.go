// Package submission answers who submitted and who was reviewed, from the
// goals and review tables or from in-memory fixtures, optionally behind a
// Redis read-through cache.
package submission

import (
	"fmt"

	"reviewcycle/internal/compliance/models"
	id "reviewcycle/pkg/domain"
)

// Record statuses shared by the goals, quarterly_reviews and year_end_reviews tables.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusReturned  = "returned"
	StatusLocked    = "locked"
	StatusReleased  = "released"
)

var (
	// A goal counts as submitted once it left the employee's hands.
	goalSubmitted = []string{StatusSubmitted, StatusApproved, StatusLocked}
	goalReviewed  = []string{StatusApproved, StatusLocked}

	quarterlyReviewed = []string{StatusSubmitted, StatusApproved}
	yearEndReviewed   = []string{StatusSubmitted, StatusReleased}
)

func contains(statuses []string, s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func checkScope(quarter id.Quarter, kind models.Kind) error {
	switch {
	case kind == models.KindGoal && !quarter.IsNumbered():
		return fmt.Errorf("goal submissions are tracked per quarter, got %s", quarter)
	case kind == models.KindSelfReview && !quarter.IsNumbered() && quarter != id.YearEnd:
		return fmt.Errorf("self-reviews are tracked per quarter or year-end, got %s", quarter)
	case !kind.IsValid():
		return fmt.Errorf("unknown submission kind %q", kind)
	}
	return nil
}
