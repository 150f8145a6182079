package service

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	dataImageRe = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp|svg\+xml);base64,[A-Za-z0-9+/]+={0,2}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем имена полей из json-тегов
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return isImageRef(fl.Field().String())
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return isHTTPURL(fl.Field().String())
	})
	return v
}

// isHTTPURL проверяет абсолютный http(s) URL с хостом.
func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isImageRef принимает http(s) URL или изображение в data URI (base64).
func isImageRef(s string) bool {
	return isHTTPURL(s) || dataImageRe.MatchString(s)
}

// validateStruct превращает ошибки validator в *ValidationError по первому полю.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: "invalid input"}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "is too long"
	case "httpurl":
		return "must be a valid URL"
	case "imageref":
		return "must be a valid URL or base64 image"
	default:
		return "is invalid"
	}
}

// trimPtr обрезает пробелы; пустую строку превращает в nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
