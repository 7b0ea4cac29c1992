package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEndpoint   = "endpoint"
	FieldTimeRange  = "time_range"
	FieldMerchant   = "merchant"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldCount      = "count"
	FieldFallback   = "fallback"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentAPI     = "api"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentWeb     = "web"
	ComponentCache   = "cache"
	ComponentConfig  = "config"
)

// Operations defines standard operation names
const (
	OpFetch      = "fetch"
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpLoad       = "load"
	OpRefresh    = "refresh"
	OpRender     = "render"
	OpDisconnect = "disconnect"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)
