package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	vocab := testVocabulary(t)
	begin := time.Date(1999, time.May, 3, 0, 0, 0, 0, time.UTC)

	t.Run("mapped record", func(t *testing.T) {
		rec, ok := Clean(RawRecord{
			EventType:         "TORNADO F4",
			State:             "ok",
			BeginDate:         begin,
			Injuries:          583,
			Fatalities:        36,
			PropertyMagnitude: 1.6,
			PropertyUnit:      "B",
			CropMagnitude:     2.5,
			CropUnit:          "M",
		}, vocab)

		require.True(t, ok)
		assert.Equal(t, "TORNADO", rec.EventType)
		assert.Equal(t, "OK", rec.State)
		assert.Equal(t, begin, rec.BeginDate)
		assert.Equal(t, 583.0, rec.Injuries)
		assert.Equal(t, 36.0, rec.Fatalities)
		assert.Equal(t, 1.6e9, rec.PropertyDamage)
		assert.Equal(t, 2.5e6, rec.CropDamage)
		assert.Equal(t, rec.PropertyDamage+rec.CropDamage, rec.TotalDamage)
	})

	t.Run("unmapped label dropped", func(t *testing.T) {
		_, ok := Clean(RawRecord{EventType: "APACHE COUNTY", State: "AZ"}, vocab)
		assert.False(t, ok)
	})

	t.Run("malformed units resolve to zero exponent", func(t *testing.T) {
		rec, ok := Clean(RawRecord{
			EventType:         "TSTM WIND",
			State:             "TX",
			PropertyMagnitude: 25,
			PropertyUnit:      "+",
			CropMagnitude:     0,
			CropUnit:          "?",
		}, vocab)

		require.True(t, ok)
		assert.Equal(t, 25.0, rec.PropertyDamage)
		assert.Equal(t, 0.0, rec.CropDamage)
		assert.Equal(t, 25.0, rec.TotalDamage)
	})

	t.Run("damages never negative", func(t *testing.T) {
		rec, ok := Clean(RawRecord{
			EventType:         "HEAT WAVE",
			State:             "IL",
			PropertyMagnitude: -3,
			PropertyUnit:      "K",
		}, vocab)

		require.True(t, ok)
		assert.GreaterOrEqual(t, rec.PropertyDamage, 0.0)
		assert.GreaterOrEqual(t, rec.CropDamage, 0.0)
		assert.Equal(t, rec.PropertyDamage+rec.CropDamage, rec.TotalDamage)
	})
}

func TestRecordID(t *testing.T) {
	rec := StormRecord{
		EventType:      "THUNDERSTORM WIND",
		State:          "TX",
		BeginDate:      time.Date(1995, time.June, 1, 0, 0, 0, 0, time.UTC),
		PropertyDamage: 25000,
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, RecordID(rec), RecordID(rec))
	})

	t.Run("label prefix", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(RecordID(rec), "thunderstorm-wind-"))
	})

	t.Run("different inputs differ", func(t *testing.T) {
		other := rec
		other.PropertyDamage = 26000
		assert.NotEqual(t, RecordID(rec), RecordID(other))
	})

	t.Run("punctuated label", func(t *testing.T) {
		hurricane := StormRecord{EventType: "HURRICANE/TYPHOON", State: "FL"}
		assert.True(t, strings.HasPrefix(RecordID(hurricane), "hurricane-typhoon-"))
	})

	t.Run("empty label", func(t *testing.T) {
		assert.NotEmpty(t, RecordID(StormRecord{}))
	})
}

func TestIsState(t *testing.T) {
	assert.True(t, IsState("TX"))
	assert.True(t, IsState("AK"))
	assert.True(t, IsState("HI"))
	assert.False(t, IsState("DC"))
	assert.False(t, IsState("PR"))
	assert.False(t, IsState("GU"))
	assert.False(t, IsState("AM"), "marine zone is not a state")
	assert.False(t, IsState("XX"))
	assert.False(t, IsState(""))
}
