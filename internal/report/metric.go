package report

import (
	"fmt"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

// Metric selects which cleaned-record field an aggregation sums.
type Metric int

const (
	MetricInjuries Metric = iota
	MetricFatalities
	MetricPropertyDamage
	MetricCropDamage
	MetricTotalDamage
)

var metricNames = map[Metric]string{
	MetricInjuries:       "injuries",
	MetricFatalities:     "fatalities",
	MetricPropertyDamage: "property_damage",
	MetricCropDamage:     "crop_damage",
	MetricTotalDamage:    "total_damage",
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// ParseMetric maps a wire or CLI name to its Metric. Unknown names error
// so callers can reject bad input before aggregating.
func ParseMetric(name string) (Metric, error) {
	for m, n := range metricNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// Value extracts the metric's field from a cleaned record.
func (m Metric) Value(rec *domain.StormRecord) float64 {
	switch m {
	case MetricInjuries:
		return rec.Injuries
	case MetricFatalities:
		return rec.Fatalities
	case MetricPropertyDamage:
		return rec.PropertyDamage
	case MetricCropDamage:
		return rec.CropDamage
	case MetricTotalDamage:
		return rec.TotalDamage
	default:
		return 0
	}
}

// Metrics returns every defined metric in declaration order.
func Metrics() []Metric {
	return []Metric{
		MetricInjuries,
		MetricFatalities,
		MetricPropertyDamage,
		MetricCropDamage,
		MetricTotalDamage,
	}
}
