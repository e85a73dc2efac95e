package domain

import "strings"

// Fixed values required by the SMS receiving batch consumer. These are part
// of a versioned integration contract with the downstream batch process and
// must not be changed without coordinating an SMS-side update.
const (
	HeaderOperatorID    = 88454
	HeaderBatchSource   = 121609
	HeaderTerminal      = "901"
	HeaderStatusOpen    = "OPEN"
	HeaderTypeOrder     = "ORDER"
	HeaderRegister      = 1
	HeaderCashier       = 757
	HeaderDescription   = "Upshop Order"
	DetailFunctionCode  = 3510
	DetailModeItem      = "ITEM"
	DetailFormatCase    = "CASE"
	DetailCaseIndicator = "C"
)

// ReceivingHeader is one row of the TMP_REC_BAT staging table: the batch
// header for a received purchase order. Column names are the SMS F-numbers;
// they are the contract, not a naming choice.
//
// F1032 carries the order number as a transaction-number placeholder that
// the SMS batch generator overwrites downstream.
type ReceivingHeader struct {
	TransactionNumber string `gorm:"column:F1032"`
	VendorNumber      string `gorm:"column:F27"`
	BatchDate         string `gorm:"column:F76"`
	OrderNumber       string `gorm:"column:F91"`
	ApprovalDate      string `gorm:"column:F253"`
	EffectiveDate     string `gorm:"column:F254"`
	VendorName        string `gorm:"column:F334"`
	OperatorID        int    `gorm:"column:F352"`
	BatchSource       int    `gorm:"column:F1035"`
	BatchOrigin       int    `gorm:"column:F1036"`
	StoreNumber       string `gorm:"column:F1056"`
	Terminal          string `gorm:"column:F1057"`
	Status            string `gorm:"column:F1067"`
	BatchType         string `gorm:"column:F1068"`
	Register          int    `gorm:"column:F1101"`
	Cashier           int    `gorm:"column:F1126"`
	Description       string `gorm:"column:F1127"`
	ReceiveDate       string `gorm:"column:F1246"`
	PostDate          string `gorm:"column:F1653"`
}

// TableName returns the staging table name for GORM mapping.
func (ReceivingHeader) TableName() string {
	return "TMP_REC_BAT"
}

// NewReceivingHeader maps one order line onto the header column contract.
// Parameters:
//   - line: source order line (first occurrence of its dedup key).
//   - vendorName: resolved vendor display name, may be empty.
//
// Returns:
//   - *ReceivingHeader: populated header row.
func NewReceivingHeader(line *OrderLine, vendorName string) *ReceivingHeader {
	order := line.CaseOrderNumber.String()
	return &ReceivingHeader{
		TransactionNumber: order,
		VendorNumber:      line.VendorNumber.String(),
		BatchDate:         line.ApprovalDate,
		OrderNumber:       order,
		ApprovalDate:      line.ApprovalDate,
		EffectiveDate:     line.EffectiveDate,
		VendorName:        vendorName,
		OperatorID:        HeaderOperatorID,
		BatchSource:       HeaderBatchSource,
		BatchOrigin:       HeaderBatchSource,
		StoreNumber:       "00" + line.StoreNumber.String(),
		Terminal:          HeaderTerminal,
		Status:            HeaderStatusOpen,
		BatchType:         HeaderTypeOrder,
		Register:          HeaderRegister,
		Cashier:           HeaderCashier,
		Description:       HeaderDescription,
		ReceiveDate:       line.EffectiveDate,
		PostDate:          line.EffectiveDate,
	}
}

// ReceivingDetail is one row of the TMP_REC_DTL staging table: a single
// line item of a received purchase order.
type ReceivingDetail struct {
	TransactionNumber int     `gorm:"column:F1032"`
	LineNumber        int     `gorm:"column:F1101"`
	SKU               string  `gorm:"column:F01"`
	DepartmentNumber  int     `gorm:"column:F03"`
	CaseQuantity      float64 `gorm:"column:F1003"`
	Description       string  `gorm:"column:F1041"`
	FunctionCode      int     `gorm:"column:F1063"`
	Mode              string  `gorm:"column:F1067"`
	Format            string  `gorm:"column:F1184"`
	CaseIndicator     string  `gorm:"column:F1887"`
	CasesOnOrder      float64 `gorm:"column:F75"`
	BatchDate         string  `gorm:"column:F76"`
}

// TableName returns the staging table name for GORM mapping.
func (ReceivingDetail) TableName() string {
	return "TMP_REC_DTL"
}

// NewReceivingDetail maps one order line onto the detail column contract.
// Missing or non-numeric quantity and department values default to 0.
// Parameters:
//   - line: source order line.
//   - lineNumber: position in the result set, global across the run.
//
// Returns:
//   - *ReceivingDetail: populated detail row.
func NewReceivingDetail(line *OrderLine, lineNumber int) *ReceivingDetail {
	qty := float64(line.OrderQuantity.Int(0))
	return &ReceivingDetail{
		TransactionNumber: line.CaseOrderNumber.Int(0),
		LineNumber:        lineNumber,
		SKU:               line.SKU.String(),
		DepartmentNumber:  line.DepartmentNumber.Int(0),
		CaseQuantity:      qty,
		Description:       strings.TrimSpace(line.Description),
		FunctionCode:      DetailFunctionCode,
		Mode:              DetailModeItem,
		Format:            DetailFormatCase,
		CaseIndicator:     DetailCaseIndicator,
		CasesOnOrder:      qty,
		BatchDate:         line.ApprovalDate,
	}
}
