package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/internal/core"
)

// Column codecs shared with the Postgres adapter. Amounts and percentages are
// stored as decimal text so no precision is lost in either engine.

func ParseAmount(column, s string) (core.Money, error) {
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("column %s: %w", column, err)
	}
	return m, nil
}

func ParsePercentColumn(column, s string) (core.Percent, error) {
	p, err := core.ParsePercent(s)
	if err != nil {
		return core.Percent{}, fmt.Errorf("column %s: %w", column, err)
	}
	return p, nil
}

// ParseDateColumn treats an empty value as the zero date.
func ParseDateColumn(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// FormatTime and ParseTime store timestamps as RFC 3339, empty when zero.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func EncodeAttachments(a []core.Attachment) (string, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(b), nil
}

func DecodeAttachments(s string) ([]core.Attachment, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var out []core.Attachment
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	return out, nil
}
