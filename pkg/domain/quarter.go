package domain

import (
	"strconv"
	"strings"

	dErrors "reviewcycle/pkg/domain-errors"
)

// Quarter tags which deadline a value refers to. It distinguishes three cases that
// a nullable integer cannot: a numbered fiscal quarter, the year-end evaluation
// (no quarter dimension), and a wildcard covering every numbered quarter.
//
// The zero value is invalid so an unset field is never mistaken for a wildcard.
type Quarter uint8

const (
	QuarterUnset Quarter = iota
	Q1
	Q2
	Q3
	Q4
	YearEnd
	AnyQuarter
)

// Quarters lists the numbered quarters in order.
var Quarters = [...]Quarter{Q1, Q2, Q3, Q4}

// QuarterNumber converts 1..4 to a numbered Quarter.
func QuarterNumber(n int) (Quarter, error) {
	if n < 1 || n > 4 {
		return QuarterUnset, dErrors.New(dErrors.CodeInvalidInput, "quarter must be between 1 and 4")
	}
	return Quarter(n), nil
}

// ParseQuarter accepts "1".."4", "q1".."q4", "year-end" and "any".
func ParseQuarter(s string) (Quarter, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return QuarterUnset, dErrors.New(dErrors.CodeInvalidInput, "quarter is required")
	case "year-end", "year_end", "yearend":
		return YearEnd, nil
	case "any", "all":
		return AnyQuarter, nil
	}
	v = strings.TrimPrefix(v, "q")
	n, err := strconv.Atoi(v)
	if err != nil {
		return QuarterUnset, dErrors.New(dErrors.CodeInvalidInput, `quarter must be between 1 and 4, "year-end" or "any"`)
	}
	return QuarterNumber(n)
}

// IsNumbered reports whether q is one of Q1..Q4.
func (q Quarter) IsNumbered() bool {
	return q >= Q1 && q <= Q4
}

// IsValid reports whether q is any defined tag.
func (q Quarter) IsValid() bool {
	return q >= Q1 && q <= AnyQuarter
}

// Number returns 1..4 for numbered quarters and 0 otherwise.
func (q Quarter) Number() int {
	if q.IsNumbered() {
		return int(q)
	}
	return 0
}

func (q Quarter) String() string {
	switch {
	case q.IsNumbered():
		return strconv.Itoa(int(q))
	case q == YearEnd:
		return "year-end"
	case q == AnyQuarter:
		return "any"
	default:
		return "unset"
	}
}

// Scope is the persisted form used by stores: q1..q4, year_end, any.
func (q Quarter) Scope() string {
	switch {
	case q.IsNumbered():
		return "q" + strconv.Itoa(int(q))
	case q == YearEnd:
		return "year_end"
	case q == AnyQuarter:
		return "any"
	default:
		return ""
	}
}

// QuarterFromScope is the inverse of Scope.
func QuarterFromScope(s string) (Quarter, error) {
	q, err := ParseQuarter(s)
	if err != nil {
		return QuarterUnset, dErrors.Wrap(err, dErrors.CodeInternal, "unknown stored quarter scope "+strconv.Quote(s))
	}
	return q, nil
}

func (q Quarter) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cannot encode unset quarter")
	}
	return []byte(q.String()), nil
}

func (q *Quarter) UnmarshalText(b []byte) error {
	parsed, err := ParseQuarter(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
