package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard field names used across the import pipeline so log lines stay
// greppable and aggregatable.
const (
	// FieldRunID identifies one import run end to end
	FieldRunID = "run_id"

	// FieldJobID is the Upshop export job identifier
	FieldJobID = "job_id"

	// FieldOrder is the case order number
	FieldOrder = "order"

	// FieldVendor is the vendor number
	FieldVendor = "vendor"

	// FieldSKU is the item identifier
	FieldSKU = "sku"

	// FieldLine is the detail line number
	FieldLine = "line"

	// FieldStore is the store number scoping the run
	FieldStore = "store"

	// FieldStatus is the remote job status token
	FieldStatus = "status"

	// FieldEndpoint is the remote API endpoint of a failed call
	FieldEndpoint = "endpoint"

	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"
)
