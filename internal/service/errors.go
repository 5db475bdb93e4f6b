package service

import (
	"errors"
	"fmt"
	"strings"

	"go-warung-pos/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrPersistence       = errors.New("persistence failure")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// ValidationError rejects bad input before anything is written.
type ValidationError struct {
	Field   string
	Message string
	Err     error // optional cause, e.g. ErrInsufficientStock
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) Unwrap() error        { return e.Err }

// PersistenceError wraps a store failure. Any multi-step write that returns
// one has been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string        { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) Unwrap() error        { return e.Err }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// storeErr classifies a repository error. Validation errors raised inside a
// transaction closure pass through unchanged.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

var tagMessages = map[string]string{
	"required": "wajib diisi",
	"notblank": "wajib diisi",
	"gt":       "harus lebih besar dari %s",
	"gte":      "minimal %s",
	"min":      "minimal %s",
	"max":      "maksimal %s",
	"oneof":    "harus salah satu dari: %s",
	"datetime": "format tanggal harus YYYY-MM-DD",
}

// validate runs struct tags and reports the first failure.
func validate(req any) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	field := first.FailedField
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	msg, ok := tagMessages[first.Tag]
	if !ok {
		return invalid(field, "gagal validasi '%s'", first.Tag)
	}
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, first.Value)
	}
	return &ValidationError{Field: field, Message: msg}
}
