package usecase

import (
	"errors"
	"fmt"
)

// API境界に返す型付きエラー。Fieldはどの入力が悪いか。
type HTTPError struct {
	Status  int
	Field   string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Field, e.Message)
}

func NewHTTPError(status int, field string, message string) error {
	return &HTTPError{
		Status:  status,
		Field:   field,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
