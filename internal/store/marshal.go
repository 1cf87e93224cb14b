package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tillware/tillsync/internal/record"
)

// Timestamps are stored as RFC 3339 TEXT with nanosecond precision so the
// created_at index sorts lexicographically in chronological order.
const timeFormat = time.RFC3339Nano

func marshalTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// marshalNullableTime converts an optional timestamp for storage.
func marshalNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: marshalTime(*t), Valid: true}
}

func unmarshalNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := unmarshalTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// marshalLineItems converts line items to JSON TEXT for storage.
// Decimal prices serialize as JSON strings, so no precision is lost.
func marshalLineItems(items []record.LineItem) (string, error) {
	if items == nil {
		items = []record.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal line items: %w", err)
	}
	return string(data), nil
}

func unmarshalLineItems(data string) ([]record.LineItem, error) {
	if data == "" || data == "[]" {
		return []record.LineItem{}, nil
	}
	var items []record.LineItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("unmarshal line items: %w", err)
	}
	return items, nil
}

// marshalPayload converts a settings payload to JSON TEXT for storage.
// The payload is opaque to the store; it is persisted and returned verbatim.
func marshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

func unmarshalPayload(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return map[string]any{}, nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return payload, nil
}
