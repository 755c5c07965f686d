// Package transform maps Smartlead webhook events onto Notion database rows.
package transform

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// FieldType is the Notion property type of a row field.
type FieldType string

const (
	FieldTypeTitle    FieldType = "title"
	FieldTypeRichText FieldType = "rich_text"
	FieldTypeDate     FieldType = "date"
	FieldTypeEmail    FieldType = "email"
	FieldTypeURL      FieldType = "url"
)

// Field is one named, typed property of a destination row.
type Field struct {
	Name  string    `json:"name"`
	Type  FieldType `json:"type"`
	Value string    `json:"value"`
}

// FieldRecord is the ordered property list of one row.
// The first entry is always the Event ID title.
type FieldRecord []Field

// FieldCount is the number of fields BuildFields always produces.
const FieldCount = 14

// EventID returns the title value of the record.
func (r FieldRecord) EventID() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Value
}

const (
	dateTimeLayout = "2006-01-02T15:04:05"
	microLayout    = ".000000"
	offsetLayout   = "-07:00"
)

// parseLayouts are tried in order; offset-less forms are kept naive.
var parseLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999-0700", false},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", true},
}

var idReplacer = strings.NewReplacer(" ", "_", ".", "_")

var compactReplacer = strings.NewReplacer("-", "", ":", "", "T", "")

// GenerateEventID derives the row identity {campaign}_{email}_{compactTimestamp}.
// The timestamp is cut to its first 19 characters and stripped of '-', ':'
// and 'T'; spaces and dots in the result become underscores.
func GenerateEventID(ev Event) string {
	campaign := ev.String("campaign", "unknown")
	email := lookup(ev.Recipient(), "email", "unknown")
	ts := ev.String("timestamp", "")

	if r := []rune(ts); len(r) > 19 {
		ts = string(r[:19])
	}
	ts = compactReplacer.Replace(ts)

	return idReplacer.Replace(campaign + "_" + email + "_" + ts)
}

// Transformer builds destination rows from events.
type Transformer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTransformer creates a Transformer that reports unparsable timestamps to logger.
func NewTransformer(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		logger: logger,
		now:    time.Now,
	}
}

// FormatTimestamp normalises an ISO-8601 string. A trailing Z is treated as
// +00:00. When the input cannot be parsed the failure is logged and the
// current UTC time is returned instead.
func (t *Transformer) FormatTimestamp(raw string) string {
	s := strings.TrimSpace(raw)
	for _, p := range parseLayouts {
		parsed, err := time.Parse(p.layout, s)
		if err != nil {
			continue
		}
		return isoFormat(parsed, p.naive)
	}

	t.logger.Error("error parsing timestamp, using current time",
		zap.String("timestamp", raw))
	return isoFormat(t.now().UTC(), false)
}

// isoFormat renders YYYY-MM-DDTHH:MM:SS, then microseconds when non-zero,
// then the UTC offset unless naive.
func isoFormat(ts time.Time, naive bool) string {
	layout := dateTimeLayout
	if ts.Nanosecond()/int(time.Microsecond) != 0 {
		layout += microLayout
	}
	if !naive {
		layout += offsetLayout
	}
	return ts.Format(layout)
}

// BuildFields maps ev onto the fixed FieldCount-entry row layout. Missing
// source values become empty strings.
func (t *Transformer) BuildFields(ev Event) FieldRecord {
	recipient := ev.Recipient()
	message := ev.Message()

	return FieldRecord{
		{Name: "Event ID", Type: FieldTypeTitle, Value: GenerateEventID(ev)},
		{Name: "Event Type", Type: FieldTypeRichText, Value: ev.String("event", "")},
		{Name: "Timestamp", Type: FieldTypeDate, Value: t.FormatTimestamp(ev.String("timestamp", ""))},
		{Name: "Campaign", Type: FieldTypeRichText, Value: ev.String("campaign", "")},
		{Name: "Email", Type: FieldTypeEmail, Value: lookup(recipient, "email", "")},
		{Name: "First Name", Type: FieldTypeRichText, Value: lookup(recipient, "first_name", "")},
		{Name: "Last Name", Type: FieldTypeRichText, Value: lookup(recipient, "last_name", "")},
		{Name: "Company", Type: FieldTypeRichText, Value: lookup(recipient, "company", "")},
		{Name: "City", Type: FieldTypeRichText, Value: lookup(recipient, "city", "")},
		{Name: "Address", Type: FieldTypeRichText, Value: lookup(recipient, "address1", "")},
		{Name: "Neighborhood", Type: FieldTypeRichText, Value: lookup(recipient, "neighborhood", "")},
		{Name: "From", Type: FieldTypeRichText, Value: lookup(message, "from", "")},
		{Name: "Subject", Type: FieldTypeRichText, Value: lookup(message, "subject", "")},
		{Name: "Link", Type: FieldTypeURL, Value: lookup(message, "link", "")},
	}
}
