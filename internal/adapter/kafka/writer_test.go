package kafka

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-damage-report/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	rec := domain.StormRecord{
		EventType:      "THUNDERSTORM WIND",
		State:          "TX",
		BeginDate:      time.Date(1999, 5, 3, 0, 0, 0, 0, time.UTC),
		Injuries:       4,
		PropertyDamage: 25_000,
		TotalDamage:    25_000,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(msg.Key), "thunderstorm-wind-"))
	assert.Equal(t, string(msg.Key), string(mustKey(t, rec)), "key must be deterministic")

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "THUNDERSTORM WIND", string(msg.Headers[0].Value))
	assert.Equal(t, "state", msg.Headers[1].Key)
	assert.Equal(t, "TX", string(msg.Headers[1].Value))

	var decoded domain.StormRecord
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, rec, decoded)
}

func mustKey(t *testing.T, rec domain.StormRecord) []byte {
	t.Helper()
	return []byte(domain.RecordID(rec))
}
