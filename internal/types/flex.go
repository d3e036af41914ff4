package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString is a scalar that can be unmarshaled from either a JSON string
// or a JSON number. Sales records submitted by different clients mix the two,
// so values are kept verbatim and parsed only where a number is needed.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	// Anything else (true, nested structures) is kept as raw text so a
	// malformed record can still be stored and skipped on aggregation.
	*f = FlexString(data)
	return nil
}

// String returns the raw value.
func (f FlexString) String() string {
	return string(f)
}

// Float64 parses the value as a float.
func (f FlexString) Float64() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(f)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses the value as an integer, accepting float-formatted whole numbers.
func (f FlexString) Int() (int, bool) {
	s := strings.TrimSpace(string(f))
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}
