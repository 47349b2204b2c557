package metrics

import (
	"github.com/finboard/finboard/pkg/models/domain"
	"github.com/finboard/finboard/pkg/transform"
)

// BuildEngagement tallies engagement events for one subject by event
// type. Just another grouped count over the transform primitives.
func BuildEngagement(events []domain.Record, subjectID, typeField string) domain.EngagementSummary {
	summary := domain.EngagementSummary{SubjectID: subjectID}
	for _, g := range transform.GroupBy(events, typeField) {
		summary.Events = append(summary.Events, domain.Bucket{
			Label: g.Key,
			Count: len(g.Records),
		})
		summary.Total += len(g.Records)
	}
	return summary
}
