// Package apperror holds the typed errors returned by services and stores
// and their mapping onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// EntityNotFound is returned when a record with the given ID does not exist.
type EntityNotFound struct {
	Entity string
	ID     string
}

func (e EntityNotFound) Error() string {
	return fmt.Sprintf("No '%v' found for Id: '%v'", e.Entity, e.ID)
}

// EntityAlreadyExists is returned when a write would duplicate an existing record.
type EntityAlreadyExists struct {
	Entity string
	ID     string
}

func (e EntityAlreadyExists) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%v already exists", e.Entity)
	}

	return fmt.Sprintf("%v '%v' already exists", e.Entity, e.ID)
}

// InvalidParam is used when an invalid query or path parameter is passed.
type InvalidParam struct {
	Param []string
}

func (e InvalidParam) Error() string {
	if len(e.Param) > 1 {
		return "Incorrect value for parameters: " + strings.Join(e.Param, ", ")
	} else if len(e.Param) == 1 {
		return "Incorrect value for parameter: " + e.Param[0]
	}

	return "This request has invalid parameters"
}

// Conflict is returned when an operation is refused because of the state of other records.
type Conflict struct {
	Reason string
}

func (e Conflict) Error() string {
	return e.Reason
}

// Unauthorized is returned for missing, invalid or revoked credentials.
type Unauthorized struct {
	Reason string
}

func (e Unauthorized) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}

	return e.Reason
}

// Forbidden is returned when the caller is authenticated but not allowed.
type Forbidden struct {
	Reason string
}

func (e Forbidden) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}

	return e.Reason
}

// DB wraps errors encountered when executing database operations.
type DB struct {
	Err error
}

func (e DB) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return "DB Error"
}

func (e DB) Unwrap() error {
	return e.Err
}

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// StatusCode maps err onto an HTTP status code. Unknown errors are 500.
func StatusCode(err error) int {
	var (
		sc        StatusCoder
		notFound  EntityNotFound
		exists    EntityAlreadyExists
		invalid   InvalidParam
		conflict  Conflict
		unauth    Unauthorized
		forbidden Forbidden
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &sc):
		return sc.StatusCode()
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &exists), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
