package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a lenient numeric input. It accepts JSON numbers, numeric strings
// (with "." or "," as decimal separator) and null. Anything unparsable reads as zero.
type Number struct {
	raw string
}

// NewNumber wraps a raw textual value, e.g. a form field.
func NewNumber(raw string) Number { return Number{raw: strings.TrimSpace(raw)} }

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.raw = strings.TrimSpace(s)
		return nil
	}
	n.raw = string(data)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Decimal())
}

// IsSet reports whether any value was supplied.
func (n Number) IsSet() bool { return n.raw != "" }

// Decimal parses the value, zero when absent or invalid.
func (n Number) Decimal() decimal.Decimal {
	if n.raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(n.raw, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Int parses the value as an integer, truncating fractions. Zero when absent or invalid.
func (n Number) Int() int {
	if i, err := strconv.Atoi(n.raw); err == nil {
		return i
	}
	return int(n.Decimal().IntPart())
}
