package service

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultDebtLimit is the debt at or above which new checkouts are refused.
const DefaultDebtLimit = 500.0

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(roundCents(v), 'f', 2, 64)
}

// DaysBorrowed counts whole calendar days from rentDate to now as seen in loc.
// Time of day is discarded on both ends; a rent date in the future counts as zero.
func DaysBorrowed(rentDate, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	days := int(civilDate(now.In(loc)).Sub(civilDate(rentDate.In(loc))) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// civilDate pins the calendar date to UTC midnight so DST shifts cannot skew the day count.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AmountDue is the per-day fee times the days borrowed.
func AmountDue(dayFee float64, days int) float64 {
	return roundCents(dayFee * float64(days))
}

// Settlement is a member's balance after money changes hands.
// Refund is the overpayment to hand back; it is reported, never stored.
type Settlement struct {
	Debt   float64
	Refund float64
	Notice Notice
}

// SettleReturn adds the rental charge to the member's debt and subtracts what was tendered.
func SettleReturn(debt, amountDue, tendered, limit float64) Settlement {
	raw := roundCents(debt + amountDue - tendered)
	switch {
	case raw < 0:
		return Settlement{
			Debt:   0,
			Refund: -raw,
			Notice: Info("Debt Cleared. Please return the remaining amount to the member i.e. " + FormatMoney(-raw)),
		}
	case raw == 0:
		return Settlement{Notice: Success("Debt Cleared")}
	case raw >= limit:
		return Settlement{
			Debt: raw,
			Notice: Danger(fmt.Sprintf(
				"Member has a debt of more than %g. Please clear the debt to rent a book. Total Outstanding Debt: %s",
				limit, FormatMoney(raw))),
		}
	default:
		return Settlement{Debt: raw, Notice: Warning("Amount Due: " + FormatMoney(raw))}
	}
}

// ApplyPayment offsets debt with an ad-hoc payment, clamping the debt at zero.
func ApplyPayment(debt, amount float64) Settlement {
	remaining := roundCents(debt - amount)
	switch {
	case remaining < 0:
		return Settlement{
			Debt:   0,
			Refund: -remaining,
			Notice: Info("Debt Cleared. Please return the remaining amount to the member i.e. " + FormatMoney(-remaining)),
		}
	case remaining == 0:
		return Settlement{Notice: Success("Debt Cleared")}
	default:
		return Settlement{Debt: remaining, Notice: Success("Amount Added. Outstanding Debt: " + FormatMoney(remaining))}
	}
}
