package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // safe to show to API callers
	Fields    map[string]string // field-level validation messages (optional)
	Err       error             // internal cause, for logs
}
