package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	trans ut.Translator
	once  sync.Once
)

// InitValidator makes gin's validator report json field names with English
// messages. Safe to call more than once.
func InitValidator() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		locale := en.New()
		trans, _ = ut.New(locale, locale).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	})
}

// ParseValidationError maps a binding error to field -> message. Anything
// that is not a validation failure is reported against "body".
func ParseValidationError(err error) map[string]string {
	errMap := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errMap["body"] = "Request body must be a JSON object."
		return errMap
	}

	for _, e := range validationErrors {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i != -1 {
			ns = ns[i+1:]
		}
		if trans != nil {
			errMap[ns] = e.Translate(trans)
		} else {
			errMap[ns] = e.Error()
		}
	}
	return errMap
}
