// Simclock derives the simulated time context (hour, month, season)
// from a wall clock or an injected instant.
package simclock

import "time"

type Season string

const (
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
	Spring Season = "spring"
)

// Default daylight window, both ends inclusive.
const (
	DaylightStartHour = 6
	DaylightEndHour   = 18
)

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

type Context struct {
	Time   time.Time
	Hour   int
	Month  int
	Season Season
}

// CurrentContext reads the clock once and derives hour, month and season from it.
func CurrentContext(c Clock) Context {
	now := c.Now().Truncate(time.Second)
	return Context{
		Time:   now,
		Hour:   now.Hour(),
		Month:  int(now.Month()),
		Season: SeasonForMonth(int(now.Month())),
	}
}

// SeasonForMonth uses southern hemisphere seasons: December to February is summer.
func SeasonForMonth(month int) Season {
	switch month {
	case 12, 1, 2:
		return Summer
	case 3, 4, 5:
		return Autumn
	case 6, 7, 8:
		return Winter
	default:
		return Spring
	}
}

// InDaylight reports whether hour lies in [start, end].
func InDaylight(hour, start, end int) bool {
	return hour >= start && hour <= end
}
