package notification

// Policy holds the thresholds used when deriving notifications
type Policy struct {
	// GracePeriodDays is how long an unpaid item may stay unpaid before it is overdue.
	GracePeriodDays int
	// MissingLogWindowDays bounds how far back missing logs are reported; 0 means since start.
	MissingLogWindowDays int
	// SkipWeekends excludes Saturdays and Sundays from missing log checks.
	SkipWeekends bool
}

// DefaultPolicy returns the default derivation policy
func DefaultPolicy() Policy {
	return Policy{
		GracePeriodDays:      30,
		MissingLogWindowDays: 14,
		SkipWeekends:         false,
	}
}
