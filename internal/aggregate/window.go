package aggregate

import "time"

// referenceTimezone fixes the wall clock used for daily bucket boundaries.
const referenceTimezone = "Europe/Madrid"

// HourWindow returns the UTC hour bucket containing instant: [floor, floor+1h).
func HourWindow(instant time.Time) (from, to time.Time) {
	from = instant.UTC().Truncate(time.Hour)
	return from, from.Add(time.Hour)
}

// DayWindow returns the UTC range covering the reference-timezone calendar day
// containing instant, start inclusive and end exclusive at the next local
// midnight. Around daylight-saving transitions the range spans 23 or 25 hours.
// The returned date identifies the local calendar day (midnight UTC of that
// date, used as the daily bucket key).
func (e *Engine) DayWindow(instant time.Time) (from, to, date time.Time) {
	local := instant.In(e.loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	end := start.AddDate(0, 0, 1)
	date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start.UTC(), end.UTC(), date
}
