package ozon

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Envelope is a normalized platform response. The platform wraps "the same"
// list payload in several different shapes depending on account and API
// version; extraction tolerates all known ones and an unknown shape yields
// an empty item list, never an error.
type Envelope struct {
	// Raw is the full response body, kept for typed decoding of
	// non-list responses.
	Raw []byte
	// Items is the extracted item list, empty when the shape is unknown.
	Items []json.RawMessage
	// LastID is the pagination cursor, when present.
	LastID string
	// Total is the reported total item count, when present.
	Total int
}

// ParseEnvelope normalizes a response body. Known shapes: bare array,
// {result: []}, {result:{items: []}}, {items: []}, {result:{result: []}}.
func ParseEnvelope(body []byte) *Envelope {
	env := &Envelope{Raw: append([]byte(nil), body...)}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return env
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			env.Items = items
		}
		return env
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return env
	}
	env.LastID = decodeCursor(top["last_id"])
	env.Total = decodeCount(top["total"])

	if items, ok := decodeArray(top["items"]); ok {
		env.Items = items
		return env
	}

	result, ok := top["result"]
	if !ok {
		return env
	}
	if items, ok := decodeArray(result); ok {
		env.Items = items
		return env
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(result, &inner); err != nil {
		return env
	}
	if env.LastID == "" {
		env.LastID = decodeCursor(inner["last_id"])
	}
	if env.Total == 0 {
		env.Total = decodeCount(inner["total"])
	}
	if items, ok := decodeArray(inner["items"]); ok {
		env.Items = items
		return env
	}
	if items, ok := decodeArray(inner["result"]); ok {
		env.Items = items
	}
	return env
}

// DecodeItems unmarshals every envelope item into T, skipping items that
// fail to decode.
func DecodeItems[T any](env *Envelope) []T {
	out := make([]T, 0, len(env.Items))
	for _, raw := range env.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// decodeCursor accepts both string and numeric cursors.
func decodeCursor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func decodeCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed
		}
	}
	return 0
}
