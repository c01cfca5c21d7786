package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can pick a status code.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindUploadFailed       Kind = "upload_failed"
	KindPersistenceFailed  Kind = "persistence_failed"
	KindCatalogUnavailable Kind = "catalog_unavailable"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its kind.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrUploadFailed       = &Error{Kind: KindUploadFailed}
	ErrPersistenceFailed  = &Error{Kind: KindPersistenceFailed}
	ErrCatalogUnavailable = &Error{Kind: KindCatalogUnavailable}
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// MissingField reports an absent required input. Field names follow the
// request vocabulary: "title", "description", "media", "media-pair", "thumbnail".
func MissingField(field string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: field + " is missing"}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func UploadFailed(message string, err error) *Error {
	return &Error{Kind: KindUploadFailed, Message: message, Err: err}
}

func PersistenceFailed(message string, err error) *Error {
	return &Error{Kind: KindPersistenceFailed, Message: message, Err: err}
}

func CatalogUnavailable(err error) *Error {
	return &Error{
		Kind:    KindCatalogUnavailable,
		Message: "there is a problem while fetching videos, please try again later",
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to its response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show a client. Wrapped causes stay in the logs.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
