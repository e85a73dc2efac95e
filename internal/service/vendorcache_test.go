package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeVendorLookup struct {
	names   map[string]string
	failing map[string]bool
	queries int
}

func (f *fakeVendorLookup) VendorName(_ context.Context, vendorNumber string) (string, error) {
	f.queries++
	if f.failing[vendorNumber] {
		return "", fmt.Errorf("connection reset")
	}
	return f.names[vendorNumber], nil
}

func TestVendorCacheResolvesOncePerKey(t *testing.T) {
	lookup := &fakeVendorLookup{names: map[string]string{"778": "ACME PRODUCE"}}
	cache := NewVendorCache(lookup)

	ctx := context.Background()
	assert.Equal(t, "ACME PRODUCE", cache.Resolve(ctx, "778"))
	assert.Equal(t, "ACME PRODUCE", cache.Resolve(ctx, "778"))
	assert.Equal(t, "ACME PRODUCE", cache.Resolve(ctx, "778"))

	assert.Equal(t, 1, lookup.queries)
	assert.Equal(t, 1, cache.Len())
}

func TestVendorCacheCachesNotFound(t *testing.T) {
	lookup := &fakeVendorLookup{names: map[string]string{}}
	cache := NewVendorCache(lookup)

	ctx := context.Background()
	assert.Equal(t, "", cache.Resolve(ctx, "999"))
	assert.Equal(t, "", cache.Resolve(ctx, "999"))

	// The empty "not found" result is a valid cache entry.
	assert.Equal(t, 1, lookup.queries)
}

func TestVendorCacheCachesLookupFailureAsEmpty(t *testing.T) {
	lookup := &fakeVendorLookup{failing: map[string]bool{"778": true}}
	cache := NewVendorCache(lookup)

	ctx := context.Background()
	assert.Equal(t, "", cache.Resolve(ctx, "778"))
	assert.Equal(t, "", cache.Resolve(ctx, "778"))

	// A failed lookup is warned about and cached, never retried in-run.
	assert.Equal(t, 1, lookup.queries)
}

func TestVendorCacheDistinctKeys(t *testing.T) {
	lookup := &fakeVendorLookup{names: map[string]string{"1": "A", "2": "B"}}
	cache := NewVendorCache(lookup)

	ctx := context.Background()
	assert.Equal(t, "A", cache.Resolve(ctx, "1"))
	assert.Equal(t, "B", cache.Resolve(ctx, "2"))
	assert.Equal(t, "A", cache.Resolve(ctx, "1"))

	assert.Equal(t, 2, lookup.queries)
	assert.Equal(t, 2, cache.Len())
}
