// Package loyalty holds the pure accounting rules of the points program:
// the birthday discount window, reward tiers, and the per-payment redemption
// decision. Everything here is side-effect free — persistence and orchestration
// live in the service layer.
package loyalty

import "time"

// InBirthdayWindow reports whether purchase falls inside the recurring annual
// discount window around birthday.
//
// The window is [occurrence − windowDays, occurrence + postWindowDays], both
// ends inclusive, where occurrence is this year's calendar date of the
// birthday. A Feb 29 birthday observes Feb 28 in non-leap years. When the
// purchase date is already past this year's occurrence (plus the post grace
// period) the window rolls forward to next year's occurrence, which makes
// late-December purchases match early-January birthdays.
func InBirthdayWindow(purchase, birthday time.Time, windowDays, postWindowDays int) bool {
	p := dateOnly(purchase)

	occ := occurrenceInYear(birthday, p.Year())
	if p.After(occ.AddDate(0, 0, postWindowDays)) {
		occ = occurrenceInYear(birthday, p.Year()+1)
	}

	start := occ.AddDate(0, 0, -windowDays)
	end := occ.AddDate(0, 0, postWindowDays)
	return !p.Before(start) && !p.After(end)
}

// occurrenceInYear returns the birthday's calendar date in the given year,
// substituting Feb 28 for Feb 29 when the year is not a leap year.
func occurrenceInYear(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
