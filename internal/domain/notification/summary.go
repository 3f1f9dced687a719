package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PortfolioSummary is the cross-project rollup served by the dashboard
type PortfolioSummary struct {
	Totals             Totals    `json:"totals"`
	ProjectCount       int       `json:"project_count"`
	ProjectsWithAlerts int       `json:"projects_with_alerts"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// BuildSummary aggregates per-project totals. Projects absent from perProject
// count toward ProjectCount with zero totals.
func BuildSummary(projectCount int, perProject map[uuid.UUID]Totals, at time.Time) PortfolioSummary {
	all := make([]Totals, 0, len(perProject))
	withAlerts := 0
	for _, t := range perProject {
		all = append(all, t)
		if !t.IsZero() {
			withAlerts++
		}
	}
	return PortfolioSummary{
		Totals:             Aggregate(all...),
		ProjectCount:       projectCount,
		ProjectsWithAlerts: withAlerts,
		GeneratedAt:        at,
	}
}

// SummaryCache holds the last computed portfolio summary
type SummaryCache interface {
	// Get returns the cached summary, or nil on a miss
	Get(ctx context.Context) (*PortfolioSummary, error)

	// Set stores the summary
	Set(ctx context.Context, summary *PortfolioSummary) error

	// Invalidate drops the cached summary
	Invalidate(ctx context.Context) error
}
