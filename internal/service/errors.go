package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_erp/internal/store"
)

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field problem found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// fieldErrors accumulates problems; Err is nil while the list is empty.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

func (fe fieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// fromStore lifts store sentinels into service sentinels.
func fromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, store.ErrConstraint):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}

// checkRef records a field error when the row behind a reference is missing
// or belongs to another user. Other lookup errors are returned as is.
func checkRef(fe *fieldErrors, field, kind string, userID uint, owner func() (uint, error)) error {
	id, err := owner()
	switch {
	case errors.Is(err, store.ErrNotFound):
		fe.add(field, "unknown "+kind)
	case err != nil:
		return err
	case id != userID:
		fe.add(field, "must reference one of your "+kind+"s")
	}
	return nil
}
