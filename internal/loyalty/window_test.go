package loyalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInBirthdayWindow_AroundOccurrence(t *testing.T) {
	bday := date(1990, 6, 15)

	cases := []struct {
		name     string
		purchase time.Time
		want     bool
	}{
		{"on the birthday itself", date(2026, 6, 15), true},
		{"one day before", date(2026, 6, 14), true},
		{"window start, 7 days before", date(2026, 6, 8), true},
		{"8 days before, outside", date(2026, 6, 7), false},
		{"day after with no post window", date(2026, 6, 16), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InBirthdayWindow(tc.purchase, bday, 7, 0))
		})
	}
}

func TestInBirthdayWindow_PostWindow(t *testing.T) {
	bday := date(1990, 6, 15)

	assert.True(t, InBirthdayWindow(date(2026, 6, 16), bday, 7, 2))
	assert.True(t, InBirthdayWindow(date(2026, 6, 17), bday, 7, 2))
	assert.False(t, InBirthdayWindow(date(2026, 6, 18), bday, 7, 2))
}

func TestInBirthdayWindow_YearWraparound(t *testing.T) {
	// Early-January birthday: late-December purchases fall in next year's window.
	bday := date(1985, 1, 3)

	assert.True(t, InBirthdayWindow(date(2026, 12, 27), bday, 7, 0))
	assert.True(t, InBirthdayWindow(date(2026, 12, 31), bday, 7, 0))
	assert.False(t, InBirthdayWindow(date(2026, 12, 26), bday, 7, 0))
	assert.True(t, InBirthdayWindow(date(2027, 1, 3), bday, 7, 0))
	assert.False(t, InBirthdayWindow(date(2027, 1, 4), bday, 7, 0))
}

func TestInBirthdayWindow_LeapDayBirthday(t *testing.T) {
	bday := date(1992, 2, 29)

	// Non-leap year: Feb 29 is observed on Feb 28.
	assert.True(t, InBirthdayWindow(date(2025, 2, 28), bday, 7, 0))
	assert.True(t, InBirthdayWindow(date(2025, 2, 21), bday, 7, 0))
	assert.False(t, InBirthdayWindow(date(2025, 3, 1), bday, 7, 0))

	// Leap year: the real date applies.
	assert.True(t, InBirthdayWindow(date(2028, 2, 29), bday, 7, 0))
	assert.True(t, InBirthdayWindow(date(2028, 2, 22), bday, 7, 0))
}

func TestInBirthdayWindow_IgnoresTimeOfDay(t *testing.T) {
	bday := date(1990, 6, 15)
	lateNight := time.Date(2026, 6, 15, 23, 59, 59, 0, time.UTC)
	assert.True(t, InBirthdayWindow(lateNight, bday, 7, 0))
}
