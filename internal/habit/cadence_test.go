package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2024-01-01 is a Monday.
var (
	monday   = date(2024, time.January, 1)
	tuesday  = date(2024, time.January, 2)
	friday   = date(2024, time.January, 5)
	saturday = date(2024, time.January, 6)
	sunday   = date(2024, time.January, 7)
)

func strPtr(s string) *string { return &s }

func TestDailyAlwaysDue(t *testing.T) {
	p := ParsePolicy("daily", nil)
	for d := monday; d.Before(monday.AddDate(0, 0, 14)); d = d.AddDate(0, 0, 1) {
		assert.True(t, p.DueOn(d), "daily must be due on %s", d.Weekday())
	}
}

func TestWeekdaysAndWeekends(t *testing.T) {
	weekdays := ParsePolicy("weekdays", nil)
	weekends := ParsePolicy("weekends", nil)
	for d := monday; d.Before(monday.AddDate(0, 0, 7)); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		assert.Equal(t, wd >= time.Monday && wd <= time.Friday, weekdays.DueOn(d))
		assert.Equal(t, wd == time.Saturday || wd == time.Sunday, weekends.DueOn(d))
	}
}

func TestWeeklyDefaultsToMonday(t *testing.T) {
	p := ParsePolicy("weekly", nil)
	assert.Equal(t, KindWeekly, p.Kind)
	assert.True(t, p.DueOn(monday))
	assert.False(t, p.DueOn(tuesday))

	// Explicit day override: 0 = Sunday.
	p = ParsePolicy("weekly", strPtr(`{"dayOfWeek":0}`))
	assert.True(t, p.DueOn(sunday))
	assert.False(t, p.DueOn(monday))

	// Broken config falls back to Monday.
	p = ParsePolicy("weekly", strPtr(`{dayOfWeek:}`))
	assert.True(t, p.DueOn(monday))
	assert.False(t, p.DueOn(sunday))
}

func TestThreePerWeekPreset(t *testing.T) {
	p := ParsePolicy("3x_week", nil)
	assert.True(t, p.DueOn(monday))
	assert.False(t, p.DueOn(tuesday))
	assert.True(t, p.DueOn(date(2024, time.January, 3))) // Wednesday
	assert.True(t, p.DueOn(friday))
	assert.False(t, p.DueOn(saturday))

	// Explicit day-set override replaces the Mon/Wed/Fri preset.
	p = ParsePolicy("3x_week", strPtr(`{"days":[2,4,6]}`))
	assert.False(t, p.DueOn(monday))
	assert.True(t, p.DueOn(tuesday))
	assert.True(t, p.DueOn(saturday))
}

func TestCustomDaySet(t *testing.T) {
	p := ParsePolicy("custom", strPtr(`{"days":[0,6]}`))
	assert.True(t, p.DueOn(saturday))
	assert.True(t, p.DueOn(sunday))
	assert.False(t, p.DueOn(tuesday))
}

// Empty or unusable custom config fails open: the habit shows every day
// rather than vanishing. Regression-pins documented behavior.
func TestCustomFailsOpen(t *testing.T) {
	for _, cfg := range []*string{nil, strPtr(""), strPtr(`{"days":[]}`), strPtr(`not json`)} {
		p := ParsePolicy("custom", cfg)
		assert.Equal(t, KindCustom, p.Kind)
		for d := monday; d.Before(monday.AddDate(0, 0, 7)); d = d.AddDate(0, 0, 1) {
			assert.True(t, p.DueOn(d))
		}
	}
}

func TestUnrecognizedFrequencyIsObservableButDue(t *testing.T) {
	p := ParsePolicy("fortnightly", nil)
	assert.Equal(t, KindUnrecognized, p.Kind)
	assert.True(t, p.DueOn(tuesday))
}

func TestEmptyFrequencyMeansDaily(t *testing.T) {
	p := ParsePolicy("", nil)
	assert.Equal(t, KindDaily, p.Kind)
}

func TestWeekdaysHabitScenario(t *testing.T) {
	p := ParsePolicy("weekdays", nil)
	assert.False(t, p.DueOn(saturday))
	assert.True(t, p.DueOn(tuesday))
}
