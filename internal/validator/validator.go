// Package validator provides custom validation functions for Gin's binding
// engine and the domain checks applied before anything reaches the store.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"

	"cashmesh/internal/models"
)

var (
	trans    ut.Translator
	register sync.Once
)

// Register registers all custom validators and English error translations
// with the Gin binding engine. It is safe to call more than once.
func Register() {
	register.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		uni := ut.New(en.New())
		trans, _ = uni.GetTranslator("en")
		_ = entranslations.RegisterDefaultTranslations(v, trans)

		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("mailbox", validateMailbox)

		registerTranslation(v, "transaction_type", "{0} must be either income or expense")
		registerTranslation(v, "mailbox", "{0} must be a valid email address")
	})
}

// fieldName reports fields by the name the client used on the wire.
func fieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "-" {
		return ""
	}
	return name
}

// decimalValue lets numeric tags such as gt=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateMailbox(fl validator.FieldLevel) bool {
	return checkmail.ValidateFormat(fl.Field().String()) == nil
}

func registerTranslation(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// FieldErrors converts a binding error into per-field messages keyed by the
// JSON field name.
func FieldErrors(err error) map[string]string {
	details := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if trans != nil {
				details[fe.Field()] = fe.Translate(trans)
			} else {
				details[fe.Field()] = fe.Error()
			}
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		details[field] = fmt.Sprintf("%s must be of type %s", field, typeErr.Type)
		return details
	}

	details["body"] = err.Error()
	return details
}
