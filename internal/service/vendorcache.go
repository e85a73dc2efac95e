package service

import (
	"context"

	"github.com/storeops/smsimport/internal/logger"
)

// VendorLookup resolves a vendor number to a display name from the target
// store.
type VendorLookup interface {
	VendorName(ctx context.Context, vendorNumber string) (string, error)
}

// VendorCache memoizes vendor-name lookups for the duration of one run: at
// most one downstream query per distinct vendor number. An empty string is
// a valid cached "not found" result. The cache has a single owner (the
// orchestrator) and is not safe for concurrent mutation.
type VendorCache struct {
	lookup  VendorLookup
	entries map[string]string
}

// NewVendorCache creates an empty cache over the given lookup.
func NewVendorCache(lookup VendorLookup) *VendorCache {
	return &VendorCache{
		lookup:  lookup,
		entries: make(map[string]string),
	}
}

// Resolve returns the vendor name for a vendor number, querying the store
// only on the first occurrence. A failed lookup is cached as empty and
// logged as a warning; it never aborts the run.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - vendorNumber: vendor identifier.
//
// Returns:
//   - string: vendor display name, possibly empty.
func (c *VendorCache) Resolve(ctx context.Context, vendorNumber string) string {
	if name, ok := c.entries[vendorNumber]; ok {
		return name
	}

	name, err := c.lookup.VendorName(ctx, vendorNumber)
	if err != nil {
		logger.FromContext(ctx).
			WithField(logger.FieldVendor, vendorNumber).
			WithError(err).
			Warn("Vendor lookup failed, caching empty name")
		name = ""
	}

	c.entries[vendorNumber] = name
	return name
}

// Len returns the number of cached vendor numbers.
func (c *VendorCache) Len() int {
	return len(c.entries)
}
