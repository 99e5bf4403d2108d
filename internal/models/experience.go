package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of experience dates.
const DateLayout = "2006-01-02"

// ErrEndBeforeStart is returned when an experience ends before it starts.
var ErrEndBeforeStart = errors.New("endDate must not be before startDate")

// Experience is a position held at a company.
type Experience struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Company     string    `json:"company" validate:"required,max=200"`
	Role        string    `json:"role" validate:"required,max=200"`
	Location    string    `json:"location" validate:"max=120"`
	StartDate   string    `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     *string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Current     bool      `json:"current"`
	Description string    `json:"description" validate:"max=5000"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize drops the end date of a current position and checks date order.
func (e *Experience) Normalize() error {
	if e.Current {
		e.EndDate = nil
		return nil
	}
	if e.EndDate == nil {
		return nil
	}
	start, err := time.Parse(DateLayout, e.StartDate)
	if err != nil {
		return fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse(DateLayout, *e.EndDate)
	if err != nil {
		return fmt.Errorf("endDate: %w", err)
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// PrepareForAPI fills the derived Duration field. Open-ended positions are
// measured up to now.
func (e *Experience) PrepareForAPI(now time.Time) {
	start, err := time.Parse(DateLayout, e.StartDate)
	if err != nil {
		e.Duration = ""
		return
	}
	end := now
	if !e.Current && e.EndDate != nil {
		if parsed, err := time.Parse(DateLayout, *e.EndDate); err == nil {
			end = parsed
		}
	}
	e.Duration = FormatDuration(start, end)
}

// MonthsBetween counts the whole calendar months from start to end.
func MonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// FormatDuration renders the span between start and end as "1 yr 2 mos".
func FormatDuration(start, end time.Time) string {
	months := MonthsBetween(start, end)
	if months == 0 {
		return "Less than a month"
	}

	years, rem := months/12, months%12
	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "yr", "yrs"))
	}
	if rem > 0 {
		parts = append(parts, plural(rem, "mo", "mos"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
