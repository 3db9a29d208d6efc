package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationDetail ошибка одного поля
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках используем имена из json тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет структуру по тегам validate
// Возвращает nil или список ошибок по полям
func Validate(s interface{}) []ValidationDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ValidationDetail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		if e.Kind() == reflect.String {
			return "минимальная длина " + e.Param()
		}
		return "минимальное значение " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "максимальная длина " + e.Param()
		}
		return "максимальное значение " + e.Param()
	case "oneof":
		return "допустимые значения: " + e.Param()
	case "datetime":
		return "ожидается формат " + e.Param()
	default:
		return "некорректное значение"
	}
}
