package errors

// Machine-readable error codes written to clients in the "error" field.
const (
	CodeInvalidOperation        = "InvalidOperation"
	CodeInvalidIdentifierFormat = "InvalidIdentifierFormat"
	CodeEmptyBatch              = "EmptyBatch"
	CodeBatchTooLarge           = "BatchTooLarge"
	CodeCollectionNotFound      = "CollectionNotFound"
	CodeOwnershipViolation      = "OwnershipViolation"
	CodeNoMatchingItems         = "NoMatchingItems"
	CodeSourceObjectUnavailable = "SourceObjectUnavailable"
	CodeDestinationUploadFailed = "DestinationUploadFailed"
	CodeRecordCommitFailed      = "RecordCommitFailed"
	CodeUnauthenticated         = "Unauthenticated"
	CodeInvalidRequestBody      = "InvalidRequestBody"
	CodeInternal                = "Internal"
)

// Error is the application error carried from service code up to handlers.
// Handlers serialize Code, Message and Details into the response body and
// use StatusCode for the HTTP status. Err holds the underlying cause and
// is never sent to clients.
type Error struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code, message string, statusCode int) *Error {
	return &Error{Code: code, Message: message, StatusCode: statusCode}
}

// WithDetail attaches a structured detail field, e.g. the offending id.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error without exposing it to clients.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
