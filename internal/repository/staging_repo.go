package repository

import (
	"context"

	"github.com/storeops/smsimport/internal/domain"
	"gorm.io/gorm"
)

// StagingRepository writes header and detail rows into the SMS staging
// tables. Each insert runs in its own transaction and commits immediately;
// one record's failure must not roll back the others.
type StagingRepository struct {
	db *gorm.DB
}

// NewStagingRepository creates a new StagingRepository.
// Parameters:
//   - db: GORM database handle used for inserts.
//
// Returns:
//   - *StagingRepository: repository instance bound to db.
func NewStagingRepository(db *gorm.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

// Ping validates target-store connectivity with a trivial round trip.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - error: *ConnectivityError when the store is unreachable.
func (r *StagingRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.WithContext(ctx).Raw(`SELECT 1`).Row().Scan(&one); err != nil {
		return &ConnectivityError{Err: err}
	}
	return nil
}

// InsertHeader writes one TMP_REC_BAT row and commits.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - header: populated header row.
//
// Returns:
//   - int64: affected row count, expected 1.
//   - error: *InsertError when the write fails.
func (r *StagingRepository) InsertHeader(ctx context.Context, header *domain.ReceivingHeader) (int64, error) {
	tx := r.db.WithContext(ctx).Create(header)
	if tx.Error != nil {
		return 0, &InsertError{Table: domain.ReceivingHeader{}.TableName(), Err: tx.Error}
	}
	return tx.RowsAffected, nil
}

// InsertDetail writes one TMP_REC_DTL row and commits. A detail row without
// an item identifier is rejected before touching the database.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - detail: populated detail row.
//
// Returns:
//   - int64: affected row count, expected 1.
//   - error: *ValidationError when the SKU is empty, *InsertError when the
//     write fails.
func (r *StagingRepository) InsertDetail(ctx context.Context, detail *domain.ReceivingDetail) (int64, error) {
	if detail.SKU == "" {
		return 0, &ValidationError{Reason: "sku is empty"}
	}
	tx := r.db.WithContext(ctx).Create(detail)
	if tx.Error != nil {
		return 0, &InsertError{Table: domain.ReceivingDetail{}.TableName(), Err: tx.Error}
	}
	return tx.RowsAffected, nil
}
