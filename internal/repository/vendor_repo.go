package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// VendorRepository resolves vendor display names from VENDOR_TAB.
type VendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new VendorRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *VendorRepository: repository instance bound to db.
func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// VendorName returns the display name for a vendor number, trimmed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - vendorNumber: vendor identifier (F27).
//
// Returns:
//   - string: vendor name, empty when no row matched.
//   - error: non-nil only when the query itself failed.
func (r *VendorRepository) VendorName(ctx context.Context, vendorNumber string) (string, error) {
	var name sql.NullString
	err := r.db.WithContext(ctx).
		Raw(`SELECT F334 FROM VENDOR_TAB WHERE F27 = ?`, vendorNumber).
		Row().
		Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name.String), nil
}
