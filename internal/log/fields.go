package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldResource   = "resource"
	FieldKind       = "kind"
	FieldMovementID = "movement_id"
	FieldUserID     = "user_id"
	FieldConcept    = "concept"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldPage       = "page"
	FieldLimit      = "limit"
	FieldCount      = "count"
	FieldStatusCode = "status_code"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldDuration   = "duration_ms"
	FieldSheetsRef  = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentMovements = "movements"
	ComponentSession   = "session"
	ComponentCache     = "cache"
	ComponentReport    = "report"
	ComponentExport    = "export"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpReset    = "reset"
	OpBalance  = "balance"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpExport   = "export"
	OpValidate = "validate"
)
