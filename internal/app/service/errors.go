package service

import (
	"errors"
	"fmt"
)

// Ошибки уровня движка. Обработчики переводят их в HTTP-статусы,
// до общего 500 ошибки валидации доходить не должны
var (
	ErrNotFound        = errors.New("объект не найден")
	ErrInvalidArgument = errors.New("некорректный запрос")
	ErrUnauthorized    = errors.New("пользователь не авторизован")
	ErrForbidden       = errors.New("доступ запрещён")
	ErrConflict        = errors.New("конфликт данных")
)

// FieldError привязывает ошибку валидации к конкретному полю формы
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidArgument
}
