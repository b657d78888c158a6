// Package apperrors описывает таксономию доменных ошибок маркетплейса.
//
// Каждая ошибка несёт вид (Kind), человеко-читаемое сообщение для клиента,
// исходную причину и стек вызовов в момент создания. Вид ошибки сохраняется
// при оборачивании через fmt.Errorf("%s: %w", op, err), поэтому HTTP-слой
// может определить статус ответа независимо от глубины вложенности.
package apperrors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind — вид доменной ошибки.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindInvalidRole        Kind = "INVALID_ROLE"
	KindDuplicate          Kind = "DUPLICATE"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindConflict           Kind = "CONFLICT"
	KindGateway            Kind = "GATEWAY_ERROR"
	KindValidation         Kind = "VALIDATION_ERROR"
)

// AppError — ошибка бизнес-уровня.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New создаёт ошибку заданного вида. err может быть nil.
func New(kind Kind, message string, err error) *AppError {
	var stack []byte
	if err != nil {
		var ge *goerrors.Error
		if errors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func NotFound(message string) *AppError { return New(KindNotFound, message, nil) }

func Unauthenticated(message string) *AppError { return New(KindUnauthenticated, message, nil) }

func Unauthorized(message string) *AppError { return New(KindUnauthorized, message, nil) }

func InvalidRole(message string) *AppError { return New(KindInvalidRole, message, nil) }

func Duplicate(message string) *AppError { return New(KindDuplicate, message, nil) }

func InvalidTransition(message string) *AppError { return New(KindInvalidTransition, message, nil) }

func PreconditionFailed(message string) *AppError { return New(KindPreconditionFailed, message, nil) }

func Conflict(message string) *AppError { return New(KindConflict, message, nil) }

func Validation(message string) *AppError { return New(KindValidation, message, nil) }

// Gateway оборачивает сбой внешнего платёжного шлюза.
func Gateway(message string, err error) *AppError { return New(KindGateway, message, err) }

// As извлекает *AppError из цепочки ошибок.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает вид ошибки или пустую строку для необработанных ошибок.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// Is сообщает, относится ли ошибка к указанному виду.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
