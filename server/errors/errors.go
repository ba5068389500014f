// Package errors определяет ошибки приложения с HTTP статусом.
// Ошибки валидации (ValidationError) прерывают прогон целиком до начала
// анализа: некорректная конфигурация обесценивает каждую следующую оценку,
// частичный результат не возвращается.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError ошибка приложения с HTTP статусом и контекстом
type AppError struct {
	Code    int    `json:"status_code"`     // HTTP статус код
	Message string `json:"message"`         // Сообщение для пользователя
	Err     error  `json:"-"`               // Внутренняя ошибка для логов, не сериализуется
	Field   string `json:"field,omitempty"` // Поле, вызвавшее ошибку валидации
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode возвращает HTTP статус код ошибки
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage возвращает сообщение для пользователя
func (e *AppError) UserMessage() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field: %s)", e.Message, e.Field)
	}
	return e.Message
}

// WithField привязывает ошибку к конкретному полю конфигурации или записи
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// NewValidationError создает ошибку 400 Bad Request.
// Используется для fail-fast проверок: запись без ID, веса с суммой != 1.0,
// неотсортированная таблица категорий.
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError создает ошибку 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

// NewConflictError создает ошибку 409 Conflict
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

// NewInternalError создает ошибку 500 Internal Server Error.
// Пользователь видит общее сообщение, детали уходят только в логи.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "внутренняя ошибка сервера",
		Err:     errors.Join(errors.New(message), err),
	}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}
