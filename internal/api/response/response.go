// Package response defines the JSON envelope every endpoint returns: a
// success flag plus either data or an error tag with a human-readable message.
package response

// Error tags are stable identifiers clients can switch on; messages are for
// humans and may change.
const (
	TagValidation         = "VALIDATION_ERROR"
	TagDuplicateUser      = "DUPLICATE_USER"
	TagInvalidCredentials = "INVALID_CREDENTIALS"
	TagUnauthorized       = "UNAUTHORIZED"
	TagForbidden          = "FORBIDDEN"
	TagNotFound           = "NOT_FOUND"
	TagMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	TagInternal           = "INTERNAL_ERROR"
)

// Envelope is the canonical response body.
type Envelope struct {
	Success       bool   `json:"success"`
	Authenticated *bool  `json:"authenticated,omitempty"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
	Message       string `json:"message,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Msg returns a successful envelope carrying only a message.
func Msg(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Err builds a failure envelope with a stable tag and message.
func Err(tag, message string) Envelope {
	return Envelope{Success: false, Error: tag, Message: message}
}

// Checked reports the optional-auth probe result, with data only when a
// verified identity is present.
func Checked(authenticated bool, data any) Envelope {
	return Envelope{Success: true, Authenticated: &authenticated, Data: data}
}
