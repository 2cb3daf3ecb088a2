package middleware

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
)
