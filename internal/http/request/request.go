// Package request содержит общие шаги разбора входящих запросов: валидатор
// с именами полей из json-тегов и чтение параметров строки запроса.
package request

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// NewValidator возвращает валидатор, который в ошибках называет поля
// так же, как они названы в JSON.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Query возвращает непустой параметр строки запроса.
func Query(r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	return v, v != ""
}

// OptionalQuery возвращает указатель на параметр или nil, если он не задан.
func OptionalQuery(r *http.Request, name string) *string {
	if v, ok := Query(r, name); ok {
		return &v
	}
	return nil
}
