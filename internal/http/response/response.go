// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов служебных эндпоинтов.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// StatusOK — значение статуса для успешного ответа.
const StatusOK = "OK"

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// MissingFields возвращает имена полей, не прошедших проверку required.
// Для ошибок, не являющихся ошибками валидации, возвращает nil.
func MissingFields(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	var fields []string
	for _, e := range errs {
		if e.ActualTag() == "required" {
			fields = append(fields, strings.ToLower(e.Field()))
		}
	}
	return fields
}

// ValidationMessage собирает человеко‑читаемый текст из ошибок валидации.
func ValidationMessage(errs validator.ValidationErrors) string {
	var msgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
