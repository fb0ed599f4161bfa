package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// RawRecord is one row of the bulk storm events CSV, restricted to the
// columns the analysis uses. It is immutable input: cleaning derives a new
// StormRecord rather than rewriting fields in place.
type RawRecord struct {
	EventType         string    // free-text EVTYPE label
	State             string    // two-letter code, may be a non-state region
	BeginDate         time.Time // zero when the source date was unparseable
	Injuries          float64
	Fatalities        float64
	PropertyMagnitude float64
	PropertyUnit      string // exponent indicator, see ResolveDamage
	CropMagnitude     float64
	CropUnit          string
}

// StormRecord is the cleaned, analysis-ready form: the event type is a
// canonical vocabulary label and the damage fields are resolved dollar
// amounts.
type StormRecord struct {
	EventType      string    `json:"event_type"`
	State          string    `json:"state"`
	BeginDate      time.Time `json:"begin_date"`
	Injuries       float64   `json:"injuries"`
	Fatalities     float64   `json:"fatalities"`
	PropertyDamage float64   `json:"property_damage"`
	CropDamage     float64   `json:"crop_damage"`
	TotalDamage    float64   `json:"total_damage"`
}

// Clean derives a StormRecord from a raw row: the label is normalized
// against the vocabulary and both damage figures are resolved to absolute
// amounts. Returns false when the raw label maps to no vocabulary entry,
// in which case the record is dropped from the clean set.
func Clean(raw RawRecord, vocab *Vocabulary) (StormRecord, bool) {
	label, ok := vocab.Normalize(raw.EventType)
	if !ok {
		return StormRecord{}, false
	}

	property := ResolveDamage(raw.PropertyMagnitude, raw.PropertyUnit)
	crop := ResolveDamage(raw.CropMagnitude, raw.CropUnit)

	return StormRecord{
		EventType:      label,
		State:          strings.ToUpper(strings.TrimSpace(raw.State)),
		BeginDate:      raw.BeginDate,
		Injuries:       raw.Injuries,
		Fatalities:     raw.Fatalities,
		PropertyDamage: property,
		CropDamage:     crop,
		TotalDamage:    property + crop,
	}, true
}

// RecordID produces a deterministic ID from the record's key fields.
// Reprocessing the same raw row yields the same ID, so downstream consumers
// of the export topic can upsert idempotently.
func RecordID(rec StormRecord) string {
	input := fmt.Sprintf("%s|%s|%s|%g|%g|%g|%g",
		rec.EventType, rec.State, rec.BeginDate.UTC().Format(time.RFC3339),
		rec.Injuries, rec.Fatalities, rec.PropertyDamage, rec.CropDamage)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if prefix := idPrefix(rec.EventType); prefix != "" {
		return prefix + "-" + short
	}
	return short
}

// idPrefix lowercases a canonical label and collapses non-alphanumeric runs
// into single dashes, e.g. "THUNDERSTORM WIND" -> "thunderstorm-wind".
func idPrefix(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
