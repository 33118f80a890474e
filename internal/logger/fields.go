package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldUserID is the owning user of the descriptors being processed
	FieldUserID = "user_id"

	// FieldSourceID is the tasting/review source record ID
	FieldSourceID = "source_id"

	// FieldWheelType is the wheel type being generated
	FieldWheelType = "wheel_type"

	// FieldScopeType is the aggregation scope being generated
	FieldScopeType = "scope_type"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldTokens is the AI token usage for a request
	FieldTokens = "tokens"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldMethod is the extraction method that produced a result
	FieldMethod = "method"

	// FieldSize is the response body size in bytes
	FieldSize = "size"
)
