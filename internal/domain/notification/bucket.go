package notification

import (
	"github.com/opsboard/backend/internal/domain/project"
	"github.com/opsboard/backend/internal/domain/shared"
)

// Bucket is the date-control display mode for a project
type Bucket string

const (
	// BucketCompleted shows no date controls
	BucketCompleted Bucket = "completed"
	// BucketSingleDay shows only the project's single day
	BucketSingleDay Bucket = "single_day"
	// BucketPastEndDate shows only the end date
	BucketPastEndDate Bucket = "past_end_date"
	// BucketOpen shows the today/yesterday toggle
	BucketOpen Bucket = "open"
)

// String returns the string representation
func (b Bucket) String() string {
	return string(b)
}

// SelectBucket picks the display bucket for a project on the given day.
// Absent dates impose no constraint.
func SelectBucket(status project.Status, start, end *shared.Date, today shared.Date) Bucket {
	if status == project.StatusCompleted {
		return BucketCompleted
	}
	if end == nil {
		return BucketOpen
	}
	if start != nil && *start == *end {
		return BucketSingleDay
	}
	if today.After(*end) {
		return BucketPastEndDate
	}
	return BucketOpen
}

// BucketFor is SelectBucket applied to a project
func BucketFor(p *project.Project, today shared.Date) Bucket {
	return SelectBucket(p.Status, p.StartDate, p.EndDate, today)
}

// LogDates returns the dates offered for logging work in the given bucket
func LogDates(bucket Bucket, start, end *shared.Date, today shared.Date) []shared.Date {
	switch bucket {
	case BucketSingleDay:
		if start != nil {
			return []shared.Date{*start}
		}
	case BucketPastEndDate:
		if end != nil {
			return []shared.Date{*end}
		}
	case BucketOpen:
		dates := []shared.Date{today}
		yesterday := today.AddDays(-1)
		if start == nil || !yesterday.Before(*start) {
			dates = append(dates, yesterday)
		}
		return dates
	}
	return nil
}

// CanLogOn reports whether day is one of the offered log dates
func CanLogOn(p *project.Project, day, today shared.Date) bool {
	for _, d := range LogDates(BucketFor(p, today), p.StartDate, p.EndDate, today) {
		if d == day {
			return true
		}
	}
	return false
}
