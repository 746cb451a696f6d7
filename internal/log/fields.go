package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldSubsystem   = "subsystem"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldTxID        = "transaction_id"
	FieldTxType      = "type"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldDate        = "date"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldFormat      = "format"
	FieldStore       = "store"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentLedger  = "ledger"
	ComponentSummary = "summary"
	ComponentStorage = "storage"
	ComponentReport  = "report"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpAddTx        = "add_transaction"
	OpDeleteTx     = "delete_transaction"
	OpUpsertBudget = "upsert_budget"
	OpSaveBudgets  = "save_budgets"
	OpExport       = "export"
	OpMigrate      = "migrate"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)
