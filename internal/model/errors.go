package model

import (
	"errors"
	"fmt"
)

const (
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeSpotFetchFailed    = "SPOT_FETCH_FAILED"
	CodeChainFetchFailed   = "CHAIN_FETCH_FAILED"
	CodeOHLCFetchFailed    = "OHLC_FETCH_FAILED"
	CodeInvalidParameter   = "INVALID_PARAMETER"
)

// CodedError is a typed error used for stable mapping to notices and HTTP statuses.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

// NewError builds a CodedError.
func NewError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// InvalidParameter is shorthand for a CodeInvalidParameter error.
func InvalidParameter(format string, args ...any) error {
	return &CodedError{Code: CodeInvalidParameter, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var coded *CodedError
	if !errors.As(err, &coded) {
		return false
	}
	return coded.Code == code
}
