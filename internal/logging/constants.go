package logging

// Standardized field names for structured logging.
// Keep these stable: dashboards filter reconciliation health on them.
const (
	FieldProvider      = "provider"
	FieldUserID        = "user_id"
	FieldAccountID     = "account_id"
	FieldStrategy      = "strategy"
	FieldMode          = "mode"
	FieldMatcher       = "matcher"
	FieldReason        = "reason"
	FieldFailureClass  = "failure_class"
	FieldSide          = "side"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldStore         = "store"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
)
