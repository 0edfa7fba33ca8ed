package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrGenerationInProgress  = errors.New("chart generation already in progress")
	ErrGenerationSuperseded  = errors.New("chart generation superseded by a newer attempt")
	ErrChartGenerationFailed = errors.New("chart generation failed")
)

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

// ValidationError ошибка входных данных, отдаётся клиенту как 400
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return "Missing required fields: " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

func NewMissingFieldsError(fields []string) error {
	return &ValidationError{Fields: fields}
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// UpstreamError сбой конкретного шага пайплайна при обращении к внешнему сервису
type UpstreamError struct {
	Step GenerationStep
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(step GenerationStep, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Step: step, Err: err}
}

// FailedStep возвращает шаг, на котором упал пайплайн
func FailedStep(err error) (GenerationStep, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Step, true
	}
	return "", false
}

// UpstreamSchemaError внешний сервис ответил, но не в ожидаемом формате
type UpstreamSchemaError struct {
	Service string
	Reason  string
}

func (e *UpstreamSchemaError) Error() string {
	return fmt.Sprintf("%s returned unexpected payload: %s", e.Service, e.Reason)
}

func IsUpstreamSchemaError(err error) bool {
	var schemaErr *UpstreamSchemaError
	return errors.As(err, &schemaErr)
}
