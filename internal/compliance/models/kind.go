package models

import (
	"strings"

	dErrors "reviewcycle/pkg/domain-errors"
)

// Kind is the obligation a deadline applies to.
type Kind string

const (
	KindGoal       Kind = "goal"
	KindSelfReview Kind = "self-review"
)

func (k Kind) IsValid() bool {
	return k == KindGoal || k == KindSelfReview
}

// ParseKind accepts "goal" and "self-review" (or "self_review"). Empty means self-review.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "self-review", "self_review":
		return KindSelfReview, nil
	case "goal", "goals":
		return KindGoal, nil
	}
	return "", dErrors.Validation("kind", `kind must be "goal" or "self-review"`, "", "")
}
