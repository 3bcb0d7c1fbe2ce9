package value

import (
	"fmt"
	"time"
)

// Period is a closed time window. End is never before Start.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod validates that end does not precede start.
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, fmt.Errorf("period: start and end are required")
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("period: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func (p Period) String() string {
	const layout = "02/01/2006 15:04"
	return p.Start.Format(layout) + " - " + p.End.Format(layout)
}
