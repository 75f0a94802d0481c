package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeTransport represents network and HTTP transport errors
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeBlocked represents bot-detection responses (403/404 on APIs, WAF pages)
	ErrorTypeBlocked ErrorType = "blocked"
	// ErrorTypeDecode represents payload decoding errors
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeIdentity represents records that cannot be assigned a stable id
	ErrorTypeIdentity ErrorType = "identity"
	// ErrorTypeTemplate represents URL template learning or validation errors
	ErrorTypeTemplate ErrorType = "template"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents a pipeline-specific error
type PipelineError struct {
	Type     ErrorType
	Exchange string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Exchange, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Exchange, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *PipelineError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeTransport:
		return true
	case ErrorTypeRateLimit:
		return false
	default:
		return false
	}
}

// IsBlocked reports whether err is a bot-detection error, which triggers
// the browser-rendered fallback instead of advancing to the next strategy.
func IsBlocked(err error) bool {
	pe, ok := err.(*PipelineError)
	return ok && pe.Type == ErrorTypeBlocked
}

// New creates a new PipelineError
func New(errType ErrorType, exchange, message string, err error) *PipelineError {
	return &PipelineError{
		Type:     errType,
		Exchange: exchange,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewTransport creates a new transport error
func NewTransport(exchange, message string, err error) *PipelineError {
	return New(ErrorTypeTransport, exchange, message, err)
}

// NewBlocked creates a new bot-detection error
func NewBlocked(exchange string, statusCode int) *PipelineError {
	message := fmt.Sprintf("blocked with status %d", statusCode)
	return New(ErrorTypeBlocked, exchange, message, nil)
}

// NewDecode creates a new decode error
func NewDecode(exchange, message string, err error) *PipelineError {
	return New(ErrorTypeDecode, exchange, message, err)
}

// NewIdentity creates a new identity error
func NewIdentity(exchange, message string) *PipelineError {
	return New(ErrorTypeIdentity, exchange, message, nil)
}

// NewTemplate creates a new template error
func NewTemplate(exchange, message string, err error) *PipelineError {
	return New(ErrorTypeTemplate, exchange, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(exchange string, duration time.Duration) *PipelineError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, exchange, message, nil)
}

// NewCache creates a new cache error
func NewCache(exchange, message string, err error) *PipelineError {
	return New(ErrorTypeCache, exchange, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(exchange, message string, err error) *PipelineError {
	return New(ErrorTypePublisher, exchange, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}
