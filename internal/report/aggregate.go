// Package report aggregates cleaned storm records into the summaries a
// severe-weather damage report is built from: top event types per metric,
// damage totals per state, and per-year frequency counts.
package report

import (
	"sort"
	"strings"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

// TypeTotal is one row of a ranked aggregation: an event type and its
// summed metric value.
type TypeTotal struct {
	EventType string  `json:"event_type"`
	Value     float64 `json:"value"`
}

// TopN sums the metric per event type and returns the n largest totals,
// ordered by value descending. Ties break on event type ascending so the
// ranking is stable across runs. n larger than the number of distinct
// types returns all of them; n <= 0 returns nil.
func TopN(records []domain.StormRecord, metric Metric, n int) []TypeTotal {
	if n <= 0 {
		return nil
	}

	sums := make(map[string]float64)
	for i := range records {
		sums[records[i].EventType] += metric.Value(&records[i])
	}

	totals := make([]TypeTotal, 0, len(sums))
	for eventType, value := range sums {
		totals = append(totals, TypeTotal{EventType: eventType, Value: value})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Value != totals[j].Value {
			return totals[i].Value > totals[j].Value
		}
		return totals[i].EventType < totals[j].EventType
	})

	if n < len(totals) {
		totals = totals[:n]
	}
	return totals
}

// DamageByState sums the metric per state across the 50 US states.
// Records whose state code is a territory, district, or marine zone are
// skipped. States with no records are absent from the result.
func DamageByState(records []domain.StormRecord, metric Metric) map[string]float64 {
	byState := make(map[string]float64)
	for i := range records {
		state := records[i].State
		if !domain.IsState(state) {
			continue
		}
		byState[state] += metric.Value(&records[i])
	}
	return byState
}

// EventFrequencyByYear counts occurrences of one event type per year.
// The result covers every year between the earliest and latest dated
// record in the input, so years with zero occurrences appear explicitly.
// Records with no parseable date are ignored. An input with no dated
// records at all yields an empty map.
func EventFrequencyByYear(records []domain.StormRecord, eventType string) map[int]int {
	minYear, maxYear := 0, 0
	for i := range records {
		if records[i].BeginDate.IsZero() {
			continue
		}
		year := records[i].BeginDate.Year()
		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}

	byYear := make(map[int]int)
	if minYear == 0 {
		return byYear
	}
	for year := minYear; year <= maxYear; year++ {
		byYear[year] = 0
	}
	for i := range records {
		if records[i].BeginDate.IsZero() {
			continue
		}
		if strings.EqualFold(records[i].EventType, eventType) {
			byYear[records[i].BeginDate.Year()]++
		}
	}
	return byYear
}

// EventCountByState counts occurrences of one event type per state,
// restricted to the 50 US states.
func EventCountByState(records []domain.StormRecord, eventType string) map[string]int {
	byState := make(map[string]int)
	for i := range records {
		if !strings.EqualFold(records[i].EventType, eventType) {
			continue
		}
		if !domain.IsState(records[i].State) {
			continue
		}
		byState[records[i].State]++
	}
	return byState
}
