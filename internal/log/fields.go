package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldPath        = "path"
	FieldLine        = "line"
	FieldText        = "text"
	FieldRecords     = "records"
	FieldRows        = "rows"
	FieldErrors      = "errors"
	FieldWarnings    = "warnings"
	FieldAverage     = "average_consumption"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldNeedsToSave = "needs_to_save"
	FieldIsSaving    = "is_saving"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLoader  = "loader"
	ComponentReport  = "report"
	ComponentService = "service"
	ComponentWatcher = "watcher"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpCompare = "compare"
	OpExport  = "export"
	OpAnalyze = "analyze"
	OpWatch   = "watch"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRunID adds run ID field
func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithLine adds the line number and raw text of an input line
func (f LogFields) WithLine(line int, text string) LogFields {
	f[FieldLine] = line
	f[FieldText] = text
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
