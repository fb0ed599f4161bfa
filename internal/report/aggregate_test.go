package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []domain.StormRecord {
	return []domain.StormRecord{
		{EventType: "TORNADO", State: "TX", BeginDate: date(1995, 5, 1), Injuries: 20, Fatalities: 3, PropertyDamage: 1_000_000, TotalDamage: 1_000_000},
		{EventType: "TORNADO", State: "OK", BeginDate: date(1997, 5, 3), Injuries: 15, Fatalities: 2, PropertyDamage: 500_000, TotalDamage: 500_000},
		{EventType: "FLOOD", State: "TX", BeginDate: date(1996, 6, 8), Injuries: 5, PropertyDamage: 2_000_000, CropDamage: 400_000, TotalDamage: 2_400_000},
		{EventType: "HEAT", State: "IL", BeginDate: date(1995, 7, 12), Injuries: 40, Fatalities: 30, TotalDamage: 0},
		{EventType: "FLOOD", State: "PR", BeginDate: date(1996, 9, 1), PropertyDamage: 900_000, TotalDamage: 900_000},
	}
}

func TestTopN(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name   string
		metric Metric
		n      int
		want   []TypeTotal
	}{
		{
			name:   "total damage descending",
			metric: MetricTotalDamage,
			n:      3,
			want: []TypeTotal{
				{EventType: "FLOOD", Value: 3_300_000},
				{EventType: "TORNADO", Value: 1_500_000},
				{EventType: "HEAT", Value: 0},
			},
		},
		{
			name:   "injuries truncated to n",
			metric: MetricInjuries,
			n:      1,
			want:   []TypeTotal{{EventType: "HEAT", Value: 40}},
		},
		{
			name:   "n larger than distinct types returns all",
			metric: MetricFatalities,
			n:      10,
			want: []TypeTotal{
				{EventType: "HEAT", Value: 30},
				{EventType: "TORNADO", Value: 5},
				{EventType: "FLOOD", Value: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopN(records, tt.metric, tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TopN mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopN_TieBreaksOnEventType(t *testing.T) {
	records := []domain.StormRecord{
		{EventType: "HAIL", Injuries: 5},
		{EventType: "AVALANCHE", Injuries: 5},
		{EventType: "BLIZZARD", Injuries: 5},
	}

	got := TopN(records, MetricInjuries, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "AVALANCHE", got[0].EventType)
	assert.Equal(t, "BLIZZARD", got[1].EventType)
	assert.Equal(t, "HAIL", got[2].EventType)
}

func TestTopN_NonPositiveN(t *testing.T) {
	assert.Nil(t, TopN(sampleRecords(), MetricInjuries, 0))
	assert.Nil(t, TopN(sampleRecords(), MetricInjuries, -1))
}

func TestDamageByState(t *testing.T) {
	got := DamageByState(sampleRecords(), MetricTotalDamage)

	assert.Equal(t, map[string]float64{
		"TX": 3_400_000,
		"OK": 500_000,
		"IL": 0,
	}, got, "territory records must not appear")
}

func TestEventFrequencyByYear(t *testing.T) {
	got := EventFrequencyByYear(sampleRecords(), "TORNADO")

	// Range spans the whole dataset, not just the chosen type, so
	// gap years show up as zeros.
	assert.Equal(t, map[int]int{
		1995: 1,
		1996: 0,
		1997: 1,
	}, got)
}

func TestEventFrequencyByYear_SkipsUndated(t *testing.T) {
	records := []domain.StormRecord{
		{EventType: "TORNADO", BeginDate: date(2000, 1, 1)},
		{EventType: "TORNADO"}, // no parseable date
	}

	got := EventFrequencyByYear(records, "tornado")
	assert.Equal(t, map[int]int{2000: 1}, got)
}

func TestEventFrequencyByYear_NoDatedRecords(t *testing.T) {
	got := EventFrequencyByYear([]domain.StormRecord{{EventType: "HAIL"}}, "HAIL")
	assert.Empty(t, got)
}

func TestEventCountByState(t *testing.T) {
	got := EventCountByState(sampleRecords(), "flood")

	assert.Equal(t, map[string]int{"TX": 1}, got)
}

func TestMetricValue(t *testing.T) {
	rec := domain.StormRecord{
		Injuries:       1,
		Fatalities:     2,
		PropertyDamage: 3,
		CropDamage:     4,
		TotalDamage:    7,
	}

	assert.Equal(t, 1.0, MetricInjuries.Value(&rec))
	assert.Equal(t, 2.0, MetricFatalities.Value(&rec))
	assert.Equal(t, 3.0, MetricPropertyDamage.Value(&rec))
	assert.Equal(t, 4.0, MetricCropDamage.Value(&rec))
	assert.Equal(t, 7.0, MetricTotalDamage.Value(&rec))
}

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics() {
		got, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMetric("severity")
	assert.ErrorContains(t, err, "unknown metric")
}
