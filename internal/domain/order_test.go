package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexString
	}{
		{"quoted string", `"12345"`, "12345"},
		{"number", `12345`, "12345"},
		{"float number", `12.0`, "12.0"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlexStringInt(t *testing.T) {
	assert.Equal(t, 42, FlexString("42").Int(0))
	assert.Equal(t, 42, FlexString(" 42 ").Int(0))
	assert.Equal(t, 12, FlexString("12.0").Int(0))
	assert.Equal(t, 0, FlexString("").Int(0))
	assert.Equal(t, 7, FlexString("").Int(7))
	assert.Equal(t, 0, FlexString("abc").Int(0))
}

func TestOrderLineDecode(t *testing.T) {
	payload := `{
		"case_order_number": 100045,
		"vendor_number": "778",
		"store_number": 12,
		"approval_date": "2026-02-10",
		"effective_date": "2026-02-12",
		"department_number": "4",
		"sku": 889900,
		"description": "CASE APPLES",
		"order_quantity": "6"
	}`

	var line OrderLine
	require.NoError(t, json.Unmarshal([]byte(payload), &line))

	assert.Equal(t, "100045", line.CaseOrderNumber.String())
	assert.Equal(t, "778", line.VendorNumber.String())
	assert.Equal(t, "889900", line.SKU.String())
	assert.Equal(t, 6, line.OrderQuantity.Int(0))
	assert.Equal(t, "778100045", line.DedupKey())
}

func TestNewReceivingHeader(t *testing.T) {
	line := &OrderLine{
		CaseOrderNumber: "100045",
		VendorNumber:    "778",
		StoreNumber:     "12",
		ApprovalDate:    "2026-02-10",
		EffectiveDate:   "2026-02-12",
	}

	h := NewReceivingHeader(line, "ACME PRODUCE")

	// The transaction number carries the order number as a placeholder for
	// the downstream generator.
	assert.Equal(t, "100045", h.TransactionNumber)
	assert.Equal(t, "100045", h.OrderNumber)
	assert.Equal(t, "778", h.VendorNumber)
	assert.Equal(t, "ACME PRODUCE", h.VendorName)
	assert.Equal(t, "0012", h.StoreNumber)
	assert.Equal(t, "2026-02-10", h.ApprovalDate)
	assert.Equal(t, "2026-02-10", h.BatchDate)
	assert.Equal(t, "2026-02-12", h.EffectiveDate)
	assert.Equal(t, "2026-02-12", h.ReceiveDate)
	assert.Equal(t, "2026-02-12", h.PostDate)

	assert.Equal(t, HeaderOperatorID, h.OperatorID)
	assert.Equal(t, HeaderBatchSource, h.BatchSource)
	assert.Equal(t, HeaderBatchSource, h.BatchOrigin)
	assert.Equal(t, HeaderTerminal, h.Terminal)
	assert.Equal(t, HeaderStatusOpen, h.Status)
	assert.Equal(t, HeaderTypeOrder, h.BatchType)
	assert.Equal(t, HeaderRegister, h.Register)
	assert.Equal(t, HeaderCashier, h.Cashier)
	assert.Equal(t, HeaderDescription, h.Description)
	assert.Equal(t, "TMP_REC_BAT", ReceivingHeader{}.TableName())
}

func TestNewReceivingDetail(t *testing.T) {
	line := &OrderLine{
		CaseOrderNumber:  "100045",
		DepartmentNumber: "4",
		SKU:              "889900",
		Description:      " CASE APPLES ",
		OrderQuantity:    "6",
		ApprovalDate:     "2026-02-10",
	}

	d := NewReceivingDetail(line, 3)

	assert.Equal(t, 100045, d.TransactionNumber)
	assert.Equal(t, 3, d.LineNumber)
	assert.Equal(t, "889900", d.SKU)
	assert.Equal(t, 4, d.DepartmentNumber)
	assert.Equal(t, float64(6), d.CaseQuantity)
	assert.Equal(t, float64(6), d.CasesOnOrder)
	assert.Equal(t, "CASE APPLES", d.Description)
	assert.Equal(t, DetailFunctionCode, d.FunctionCode)
	assert.Equal(t, DetailModeItem, d.Mode)
	assert.Equal(t, DetailFormatCase, d.Format)
	assert.Equal(t, DetailCaseIndicator, d.CaseIndicator)
	assert.Equal(t, "2026-02-10", d.BatchDate)
	assert.Equal(t, "TMP_REC_DTL", ReceivingDetail{}.TableName())
}

func TestNewReceivingDetailCoercesBadNumbers(t *testing.T) {
	line := &OrderLine{
		CaseOrderNumber:  "not-a-number",
		DepartmentNumber: "",
		SKU:              "889900",
		OrderQuantity:    "n/a",
	}

	d := NewReceivingDetail(line, 1)

	assert.Equal(t, 0, d.TransactionNumber)
	assert.Equal(t, 0, d.DepartmentNumber)
	assert.Equal(t, float64(0), d.CaseQuantity)
	assert.Equal(t, float64(0), d.CasesOnOrder)
}
