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
	FieldUserID     = "user_id"
	FieldAccountID  = "account_id"
	FieldFolderID   = "folder_id"
	FieldError      = "error"
	FieldOperation  = "operation"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStore      = "store"
	ComponentInsights   = "insights"
	ComponentClassifier = "classifier"
	ComponentTrace      = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpList     = "list"
	OpAnalyze  = "analyze"
	OpTrain    = "train"
	OpPredict  = "predict"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
