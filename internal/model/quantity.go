package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is a numeric form value that may be blank. Blank and unparseable
// values read as zero; the raw text is preserved so a blank field stays blank.
type Quantity string

// Q formats a float as a Quantity.
func Q(v float64) Quantity {
	return Quantity(strconv.FormatFloat(v, 'f', -1, 64))
}

// Float parses the quantity, returning 0 when it is blank, not a number, or
// not finite.
func (q Quantity) Float() float64 {
	v, _ := q.parse()
	return v
}

// IsSet reports whether the quantity holds a parseable finite number.
func (q Quantity) IsSet() bool {
	_, ok := q.parse()
	return ok
}

func (q Quantity) parse() (float64, bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}
