package models

import "time"

// DateLayout is the canonical calendar-date representation used end-to-end.
// Anything that does not parse with this layout is rejected at the edge.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical date string in UTC.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// WeeklyWindow is one contiguous availability interval in a doctor's
// recurring weekly pattern. Multiple windows on the same weekday represent
// split shifts (e.g. morning and evening with a break between).
type WeeklyWindow struct {
	ID         string `bson:"id" json:"id"`
	ResourceID string `bson:"resource_id" json:"resource_id"`
	DayOfWeek  int    `bson:"day_of_week" json:"day_of_week"` // 0 (Sunday) .. 6 (Saturday)
	Start      int    `bson:"start" json:"start"`             // minutes from midnight (e.g. 540 for 9:00)
	End        int    `bson:"end" json:"end"`                 // minutes from midnight
	Active     bool   `bson:"active" json:"active"`
}

// DateOverride is a date-specific availability window. When one or more
// active overrides exist for a (resource, date) pair they fully replace the
// weekly pattern for that date; there is no merging.
type DateOverride struct {
	ID         string `bson:"id" json:"id"`
	ResourceID string `bson:"resource_id" json:"resource_id"`
	Date       string `bson:"date" json:"date"` // "2006-01-02"
	Start      int    `bson:"start" json:"start"`
	End        int    `bson:"end" json:"end"`
	Active     bool   `bson:"active" json:"active"`
}
