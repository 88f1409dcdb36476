package core

import (
	"fmt"
	"time"
)

// Quarter is a calendar quarter, Q in 1..4.
type Quarter struct {
	Year int
	Q    int
}

// QuarterOf returns the quarter containing t, read in t's own location so an
// author's offset decides which quarter a commit belongs to.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// Key renders the cohort key, e.g. "2024-Q1".
func (q Quarter) Key() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Q)
}

// Start is the first day of the quarter at UTC midnight.
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following quarter.
func (q Quarter) Next() Quarter {
	if q.Q == 4 {
		return Quarter{Year: q.Year + 1, Q: 1}
	}
	return Quarter{Year: q.Year, Q: q.Q + 1}
}

// End is the last calendar day of the quarter at UTC midnight.
// Survival sampling offsets are measured from it.
func (q Quarter) End() time.Time {
	return q.Next().Start().AddDate(0, 0, -1)
}

// Window returns the query bounds for commits inside the quarter.
// Git treats --since and --until inclusively at second resolution, so the
// range runs from the first second of the quarter to the second before the next one.
func (q Quarter) Window() (since, until time.Time) {
	return q.Start(), q.Next().Start().Add(-time.Second)
}

// Before orders quarters chronologically.
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}
