package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/sis-api/internal/models"
)

const gradeLevelTag = "grade_level"

var (
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

// New returns the shared validator configured with JSON field names, English messages and
// the custom school tags.
func New() *validator.Validate {
	once.Do(func() {
		locale := en.New()
		translator, _ = ut.New(locale, locale).GetTranslator("en")

		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = enTranslations.RegisterDefaultTranslations(validate, translator)

		_ = validate.RegisterValidation(gradeLevelTag, validGradeLevel)
		registerTranslation(gradeLevelTag, "{0} must name a grade between 7 and 12")
		registerTranslation("required", "{0} is required", true)
	})
	return validate
}

// Messages converts validator failures into field -> message pairs.
func Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	New()
	messages := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		messages[fe.Field()] = fe.Translate(translator)
	}
	return messages
}

func validGradeLevel(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	_, _, ok := models.BandForGradeLevel(raw)
	return ok
}

func registerTranslation(tag, text string, override ...bool) {
	replace := len(override) > 0 && override[0]
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, replace) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}
