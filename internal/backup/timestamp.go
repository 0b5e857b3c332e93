package backup

import (
	"encoding/json"
	"time"
)

// TimestampKind discriminates the encodings a transaction date may arrive in
// inside a backup artifact.
type TimestampKind int

const (
	// KindUnknown covers missing, null, or unparseable dates. The value
	// resolves to the restore time.
	KindUnknown TimestampKind = iota
	// KindSeconds is the {seconds, nanoseconds} object emitted when a
	// store-native timestamp leaks into an artifact unconverted.
	KindSeconds
	// KindISO is an ISO-8601 string, the canonical artifact encoding.
	KindISO
)

// Timestamp is a tagged union over the three date encodings a backup may
// carry. Decoding is total: every JSON value maps to exactly one kind and
// never produces an error, so a malformed date can never fail a restore
// on its own.
type Timestamp struct {
	Kind  TimestampKind
	value time.Time
}

// NewTimestamp returns an ISO-kind timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Kind: KindISO, value: t}
}

// secondsPair mirrors the JSON shape of a serialized store-native timestamp.
type secondsPair struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
}

// UnmarshalJSON decodes any JSON value into the union. It never returns an
// error: inputs that match neither known encoding become KindUnknown.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var pair secondsPair
	if err := json.Unmarshal(b, &pair); err == nil && pair.Seconds != nil {
		t.Kind = KindSeconds
		t.value = time.Unix(*pair.Seconds, pair.Nanoseconds).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			t.Kind = KindISO
			t.value = parsed.UTC()
			return nil
		}
	}

	t.Kind = KindUnknown
	t.value = time.Time{}
	return nil
}

// MarshalJSON always emits the canonical ISO-8601 string so artifacts stay
// plain-text portable regardless of how the date arrived.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value.UTC().Format(time.RFC3339Nano))
}

// Resolve returns the canonical instant for the timestamp. Unknown dates
// resolve to the given fallback (the restore time). Resolution is
// deterministic and total.
func (t Timestamp) Resolve(fallback time.Time) time.Time {
	if t.Kind == KindUnknown {
		return fallback
	}
	return t.value
}
