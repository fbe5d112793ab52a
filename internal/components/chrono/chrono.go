package chrono

import (
	"context"
	"time"
)

// PeriodLayout is the layout of a run period label, a calendar month.
const PeriodLayout = "2006-01"

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time in the location returned by Location.
	Now() time.Time
	Location() *time.Location
}

// StandardImpl is the standard implementation of API using the standard library.
type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl creates a StandardImpl in the given timezone, an empty name
// uses the local timezone of the machine.
func NewStandardImpl(tz string) (StandardImpl, error) {
	if tz == "" {
		return StandardImpl{location: time.Local}, nil
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl is an API that always returns the same time.
type FixedImpl struct {
	Time time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Time
}

func (f FixedImpl) Location() *time.Location {
	return f.Time.Location()
}

// Period returns the run period label (YYYY-MM) for the given time.
func Period(t time.Time) string {
	return t.Format(PeriodLayout)
}

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
