package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates request payloads and renders human-readable messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English translations registered.
func New() (*Validator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("failed to find en translator")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates a payload struct. The returned error message contains the
// translated reason for every failed field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, fieldErr.Translate(v.trans))
	}

	return errors.New(strings.Join(messages, "; "))
}
