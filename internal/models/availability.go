package models

import "time"

// Weekday names accepted by the availability and enrollment schemas.
var weekdayOrdinals = map[string]int{
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
	"Sunday":    7,
}

// ValidDay reports whether day is one of Monday..Sunday.
func ValidDay(day string) bool {
	_, ok := weekdayOrdinals[day]
	return ok
}

// WeekdayOrdinal returns the 1-based Monday-first position of day, or 0 for
// unknown values. Listings sort by this ordinal, never alphabetically.
func WeekdayOrdinal(day string) int {
	return weekdayOrdinals[day]
}

// AvailabilitySlot is a recurring weekly teaching window. A teacher may hold
// several windows on the same day; (teacher, day, start) identifies one.
type AvailabilitySlot struct {
	TeacherID string    `db:"teacher_id" json:"-"`
	DayOfWeek string    `db:"day_of_week" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// AddAvailabilityRequest upserts a single slot for the teacher.
type AddAvailabilityRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// SetAvailabilityRequest replaces the teacher's whole weekly schedule.
type SetAvailabilityRequest struct {
	Email        string                 `json:"email" validate:"required,email"`
	Availability []AvailabilitySlotSpec `json:"availability" validate:"required,min=1,dive"`
}

// AvailabilitySlotSpec is one incoming slot of a set-availability payload.
type AvailabilitySlotSpec struct {
	DayOfWeek   string `json:"dayOfWeek" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	IsAvailable bool   `json:"isAvailable"`
}

// GetAvailabilityRequest fetches a teacher's schedule by email.
type GetAvailabilityRequest struct {
	Email string `json:"email" validate:"required,email"`
}
