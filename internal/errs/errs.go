// Package errs holds the error taxonomy shared by services and handlers.
//
// Services return *Error values (possibly wrapped); handlers turn them into
// HTTP responses through KindOf / Status.
package errs

import (
  "errors"
  "fmt"
  "net/http"
)

type Kind string

const (
  KindValidation         Kind = "VALIDATION_ERROR"
  KindNotFound           Kind = "NOT_FOUND"
  KindUnauthorized       Kind = "UNAUTHORIZED"
  KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
  KindInternal           Kind = "INTERNAL"
)

// FieldErrors maps a request field to its human readable problems.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
  fe[field] = append(fe[field], msg)
}

type Error struct {
  Kind    Kind
  Message string
  Fields  FieldErrors
  cause   error
}

func (e *Error) Error() string {
  if e.cause != nil {
    return fmt.Sprintf("%s: %v", e.Message, e.cause)
  }
  return e.Message
}

func (e *Error) Unwrap() error {
  return e.cause
}

func Validation(msg string) *Error {
  return &Error{Kind: KindValidation, Message: msg}
}

func ValidationFields(fields FieldErrors) *Error {
  return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func Field(field, msg string) *Error {
  fe := FieldErrors{}
  fe.Add(field, msg)
  return ValidationFields(fe)
}

func NotFound(msg string) *Error {
  return &Error{Kind: KindNotFound, Message: msg}
}

func Unauthorized(msg string) *Error {
  return &Error{Kind: KindUnauthorized, Message: msg}
}

func ServiceUnavailable(msg string, cause error) *Error {
  return &Error{Kind: KindServiceUnavailable, Message: msg, cause: cause}
}

func Internal(msg string, cause error) *Error {
  return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf reports the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
  var e *Error
  if errors.As(err, &e) {
    return e.Kind
  }
  return KindInternal
}

// Status maps a Kind onto an HTTP status. Gateway outages are reported as
// 400 to clients; there is no distinct 5xx for them.
func Status(k Kind) int {
  switch k {
  case KindValidation, KindServiceUnavailable:
    return http.StatusBadRequest
  case KindNotFound:
    return http.StatusNotFound
  case KindUnauthorized:
    return http.StatusUnauthorized
  default:
    return http.StatusInternalServerError
  }
}

// StatusOf is Status of KindOf(err).
func StatusOf(err error) int {
  return Status(KindOf(err))
}
