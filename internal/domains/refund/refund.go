// Package refund is the single place refund and realized-revenue figures are derived.
//
// Nothing here reads a clock: the cancellation instant is always an argument.
package refund

import (
	"time"

	"innkeep/shared/constant"
)

const day = constant.HoursInDay * time.Hour

type tier struct {
	minDays    int
	percentage int
}

// Evaluated in order, first match wins.
var tiers = []tier{
	{minDays: constant.DaysInWeek, percentage: 100},
	{minDays: 3, percentage: 75},
	{minDays: 1, percentage: 50},
}

type Result struct {
	DaysUntilCheckIn int   `json:"days_until_check_in"`
	Percentage       int   `json:"percentage"`
	Amount           int64 `json:"amount"`
	Deducted         int64 `json:"deducted"`
}

// Compute returns the refund owed when a reservation worth totalCost minor units
// is cancelled at cancelledAt for a stay starting at checkInAt.
func Compute(cancelledAt, checkInAt time.Time, totalCost int64) Result {
	days := DaysUntil(cancelledAt, checkInAt)
	pct := Percentage(days)
	amount := percentOf(totalCost, pct)

	return Result{
		DaysUntilCheckIn: days,
		Percentage:       pct,
		Amount:           amount,
		Deducted:         totalCost - amount,
	}
}

// DaysUntil is ceil((checkInAt - from) / 24h). It is zero or negative once check-in has passed.
func DaysUntil(from, checkInAt time.Time) int {
	diff := checkInAt.Sub(from)

	days := diff / day
	if diff%day > 0 {
		days++
	}

	return int(days)
}

func Percentage(daysUntilCheckIn int) int {
	for _, t := range tiers {
		if daysUntilCheckIn >= t.minDays {
			return t.percentage
		}
	}

	return 0
}

// percentOf is total*pct/100 rounded half to even.
func percentOf(total int64, pct int) int64 {
	num := total * int64(pct)
	quo, rem := num/constant.PercentFull, num%constant.PercentFull

	switch {
	case 2*rem > constant.PercentFull:
		quo++
	case 2*rem == constant.PercentFull && quo%2 != 0:
		quo++
	}

	return quo
}

// CheckInInstant is the moment a stay on date begins, at hour o'clock in loc.
func CheckInInstant(date time.Time, hour int, loc *time.Location) time.Time {
	year, month, d := date.Date()

	return time.Date(year, month, d, hour, 0, 0, 0, loc)
}

type Outcome int

const (
	// Unsettled reservations have not been paid and earn nothing yet.
	Unsettled Outcome = iota
	Settled
	Cancelled
)

// Realized is the revenue a reservation contributes: the full cost once settled,
// the retained part after a cancellation, nothing while unpaid.
func Realized(outcome Outcome, totalCost, refunded int64) int64 {
	switch outcome {
	case Settled:
		return totalCost
	case Cancelled:
		return totalCost - refunded
	default:
		return 0
	}
}
