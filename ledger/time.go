package ledger

import (
	"time"
)

// =============================================================================
// DATE - Calendar date with no time component
// =============================================================================

// Date is a calendar date. Only year, month and day are significant; entries
// are booked, grouped and filtered by these three fields alone.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts the date by n calendar months using native date arithmetic.
// When the target month is shorter than the source day the result rolls over
// into the following month (Jan 31 + 1 month = Mar 2/3), it is NOT clamped to
// the last day of the target month. Installment schedules depend on keeping
// this rollover behavior stable.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format(dateLayout) }

// =============================================================================
// PERIOD - (month, year) pair scoping aggregate queries
// =============================================================================

// Period is a calendar month used to scope dashboard, card usage and invoice
// queries.
type Period struct {
	Month time.Month
	Year  int
}

func NewPeriod(month time.Month, year int) Period {
	return Period{Month: month, Year: year}
}

// CurrentPeriod returns the period containing today.
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Month: now.Month(), Year: now.Year()}
}

// Contains reports whether the date falls inside this calendar month.
func (p Period) Contains(d Date) bool {
	return d.Month() == p.Month && d.Year() == p.Year
}

func (p Period) String() string {
	return NewDate(p.Year, p.Month, 1).Time.Format("2006-01")
}
