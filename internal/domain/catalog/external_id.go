package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExternalID is a numeric identifier received from the remote platform.
// Remote payloads carry the same identifier as a JSON number in some API
// versions and as a string in others, so all coercion happens here instead
// of at the call sites.
type ExternalID struct {
	value int64
	valid bool
}

// ParseExternalID coerces a raw JSON value into an ExternalID. Strings,
// integral numbers and json.Number are accepted; empty strings, non-finite
// or fractional numbers and anything else are invalid.
func ParseExternalID(raw any) ExternalID {
	switch v := raw.(type) {
	case nil:
		return ExternalID{}
	case int64:
		return ExternalID{value: v, valid: true}
	case int:
		return ExternalID{value: int64(v), valid: true}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return ExternalID{}
		}
		return ExternalID{value: int64(v), valid: true}
	case json.Number:
		return parseExternalIDString(v.String())
	case string:
		return parseExternalIDString(v)
	default:
		return ExternalID{}
	}
}

// ParseExternalIDJSON coerces a raw JSON message into an ExternalID.
func ParseExternalIDJSON(raw json.RawMessage) ExternalID {
	if len(raw) == 0 {
		return ExternalID{}
	}
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return ExternalID{}
	}
	return ParseExternalID(v)
}

func parseExternalIDString(s string) ExternalID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ExternalID{}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ExternalID{}
	}
	return ExternalID{value: n, valid: true}
}

// Valid reports whether the identifier parsed successfully.
func (id ExternalID) Valid() bool {
	return id.valid
}

// Int64 returns the numeric value; zero when invalid.
func (id ExternalID) Int64() int64 {
	if !id.valid {
		return 0
	}
	return id.value
}

// String returns the decimal representation; empty when invalid.
func (id ExternalID) String() string {
	if !id.valid {
		return ""
	}
	return strconv.FormatInt(id.value, 10)
}
