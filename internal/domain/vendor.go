package domain

// Vendor is the slice of the SMS VENDOR_TAB table this tool reads: the
// vendor number and display name used to enrich header rows.
type Vendor struct {
	Number string `gorm:"column:F27"`
	Name   string `gorm:"column:F334"`
}

// TableName returns the SMS vendor table name for GORM mapping.
func (Vendor) TableName() string {
	return "VENDOR_TAB"
}
