package attendance

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is the closed set of attendance outcomes. Anything else is carried
// through storage untouched but contributes to no aggregation bucket.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// Record is one attendance entry tying a person, a date and a status together.
type Record struct {
	ID          string    `json:"id,omitempty"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName,omitempty"`
	Class       string    `json:"class,omitempty"`
	Date        Date      `json:"date"`
	Status      Status    `json:"status"`
	Time        string    `json:"time,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
	Confidence  *int      `json:"recognitionConfidence,omitempty"`
	Method      string    `json:"recognitionMethod,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Date is a calendar date that tolerates the store's timestamp polymorphism:
// the wire value may be a plain "YYYY-MM-DD" string, an RFC3339 timestamp, or
// a native timestamp object ({seconds,nanoseconds} or Firestore's
// {_seconds,_nanoseconds}). All forms denoting the same calendar day normalize
// to the same Date. The zero value marks an unparseable or absent date.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate normalizes any accepted wire form of a date. This is the single
// type-sniffing point; everything past ingestion works with time.Time.
func ParseDate(raw json.RawMessage) Date {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Date{}
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Date{}
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return NewDate(t)
			}
		}
		return Date{}
	}

	if trimmed[0] == '{' {
		var obj struct {
			Seconds   *int64 `json:"seconds"`
			USeconds  *int64 `json:"_seconds"`
			Nanos     int64  `json:"nanoseconds"`
			UNanos    int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Date{}
		}
		secs := obj.Seconds
		if secs == nil {
			secs = obj.USeconds
		}
		if secs == nil {
			return Date{}
		}
		return NewDate(time.Unix(*secs, obj.Nanos+obj.UNanos))
	}

	// Bare epoch-seconds number, seen in some exports.
	if secs, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return NewDate(time.Unix(secs, 0))
	}
	return Date{}
}

func (d *Date) UnmarshalJSON(raw []byte) error {
	// Malformed dates degrade to the zero Date rather than failing the whole
	// record; the record still counts toward status totals.
	*d = ParseDate(raw)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// MonthKey returns the aggregation bucket label, e.g. "Nov 2025".
func (d Date) MonthKey() string {
	return d.Format("Jan 2006")
}
