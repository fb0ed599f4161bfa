package report

import (
	"time"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

// Report is the full damage summary assembled from a cleaned dataset.
// LeadEventType is the type with the highest total damage; the temporal
// and geographic sections drill into it.
type Report struct {
	GeneratedAt   time.Time `json:"generated_at"`
	RecordCount   int       `json:"record_count"`
	EventTypes    int       `json:"event_types"`
	LeadEventType string    `json:"lead_event_type,omitempty"`

	TopByMetric   map[string][]TypeTotal `json:"top_by_metric"`
	DamageByState map[string]float64     `json:"damage_by_state"`

	FrequencyByYear map[int]int    `json:"frequency_by_year,omitempty"`
	CountByState    map[string]int `json:"count_by_state,omitempty"`
}

// Build aggregates records into a Report with the top topN event types
// per metric.
func Build(records []domain.StormRecord, topN int) Report {
	rep := Report{
		GeneratedAt: clock.Now().UTC(),
		RecordCount: len(records),
		TopByMetric: make(map[string][]TypeTotal),
	}

	types := make(map[string]struct{})
	for i := range records {
		types[records[i].EventType] = struct{}{}
	}
	rep.EventTypes = len(types)

	for _, metric := range Metrics() {
		rep.TopByMetric[metric.String()] = TopN(records, metric, topN)
	}
	rep.DamageByState = DamageByState(records, MetricTotalDamage)

	if lead := TopN(records, MetricTotalDamage, 1); len(lead) > 0 {
		rep.LeadEventType = lead[0].EventType
		rep.FrequencyByYear = EventFrequencyByYear(records, rep.LeadEventType)
		rep.CountByState = EventCountByState(records, rep.LeadEventType)
	}
	return rep
}
