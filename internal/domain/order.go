package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString is a string field that also accepts a JSON number on the wire.
// The Upshop API is inconsistent about quoting identifiers and quantities,
// so every identifier-like field is decoded through this type.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
// Parameters:
//   - data: raw JSON value (string, number, or null).
//
// Returns:
//   - error: non-nil if the value is neither a string, a number, nor null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the trimmed string value.
func (f FlexString) String() string {
	return strings.TrimSpace(string(f))
}

// Int returns the value as an integer, or def when the value is empty or
// not numeric. Mirrors the downstream contract of coercing bad numeric
// fields to zero instead of failing the record.
func (f FlexString) Int(def int) int {
	s := f.String()
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some feeds send quantities as "12.0".
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return def
		}
		return int(fl)
	}
	return n
}

// OrderLine is one approved order line as returned by the export job.
// Immutable once received; one line maps to exactly one detail row, and
// lines sharing (vendor, order) share one header row.
type OrderLine struct {
	CaseOrderNumber  FlexString `json:"case_order_number"`
	VendorNumber     FlexString `json:"vendor_number"`
	StoreNumber      FlexString `json:"store_number"`
	ApprovalDate     string     `json:"approval_date"`
	EffectiveDate    string     `json:"effective_date"`
	DepartmentNumber FlexString `json:"department_number"`
	SKU              FlexString `json:"sku"`
	Description      string     `json:"description"`
	OrderQuantity    FlexString `json:"order_quantity"`
}

// DedupKey returns the header deduplication key: vendor identifier
// concatenated with the order identifier. At most one header row is
// written per distinct key within a run.
func (l *OrderLine) DedupKey() string {
	return l.VendorNumber.String() + l.CaseOrderNumber.String()
}
