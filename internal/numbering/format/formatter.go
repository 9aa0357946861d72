package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateNone     = "NONE"
	DateYYYYMMDD = "YYYYMMDD"
	DateYYYYMM   = "YYYYMM"
	DateYYYY     = "YYYY"
)

var dateLayouts = map[string]string{
	DateYYYYMMDD: "20060102",
	DateYYYYMM:   "200601",
	DateYYYY:     "2006",
}

// Pattern describes how a document number is laid out.
type Pattern struct {
	Prefix         string
	DateFormat     string
	Separator      string
	SequenceLength int
}

// ValidDateFormat reports whether value is a supported date component.
func ValidDateFormat(value string) bool {
	if value == DateNone || value == "" {
		return true
	}
	_, ok := dateLayouts[value]
	return ok
}

// DateComponent renders the date part of a number, or "" for NONE.
func DateComponent(dateFormat string, at time.Time) string {
	layout, ok := dateLayouts[strings.ToUpper(strings.TrimSpace(dateFormat))]
	if !ok {
		return ""
	}
	return at.Format(layout)
}

// Number formats a document number as prefix, date component, separator and
// zero-padded sequence. The separator is only written when a date component
// is present. at must already be in the business timezone.
func Number(p Pattern, at time.Time, seq int64) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("invalid sequence: %d", seq)
	}
	if p.SequenceLength < 0 {
		return "", fmt.Errorf("invalid sequence length: %d", p.SequenceLength)
	}
	if !ValidDateFormat(p.DateFormat) {
		return "", fmt.Errorf("unsupported date format %q", p.DateFormat)
	}

	var b strings.Builder
	b.WriteString(p.Prefix)
	if date := DateComponent(p.DateFormat, at); date != "" {
		b.WriteString(date)
		b.WriteString(p.Separator)
	}
	fmt.Fprintf(&b, "%0*d", p.SequenceLength, seq)
	return b.String(), nil
}
