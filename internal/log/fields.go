package log

// Field names shared across components so records stay greppable.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldGroupID     = "group_id"
	FieldEventID     = "event_id"
	FieldExpenseID   = "expense_id"
	FieldMemberID    = "member_id"
	FieldDate        = "date"
	FieldWindow      = "window"
	FieldMonths      = "months"
	FieldEventCount  = "event_count"
	FieldDropped     = "dropped"
	FieldAmountCents = "amount_cents"
	FieldSheetsRef   = "sheets_ref"
)

// Component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentCalendar  = "calendar"
	ComponentCatalog   = "catalog"
	ComponentGroup     = "group"
	ComponentExpense   = "expense"
	ComponentSaved     = "saved"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentScheduler = "scheduler"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)

// Operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpJoin     = "join"
	OpToggle   = "toggle"
	OpBin      = "bin"
	OpExpand   = "expand"
	OpRefresh  = "refresh"
	OpSync     = "sync"
	OpPublish  = "publish"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// Fields is an attribute builder for records that span several concerns.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithComponent(component string) Fields {
	f[FieldComponent] = component
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) WithRequestID(id string) Fields {
	f[FieldRequestID] = id
	return f
}

func (f Fields) WithClientIP(ip string) Fields {
	f[FieldClientIP] = ip
	return f
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f Fields) WithGroup(groupID string) Fields {
	f[FieldGroupID] = groupID
	return f
}

func (f Fields) WithExpense(expenseID string, amountCents int64) Fields {
	f[FieldExpenseID] = expenseID
	f[FieldAmountCents] = amountCents
	return f
}

func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields into slog's alternating key/value form.
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
