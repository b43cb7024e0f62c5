package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const tagRequiredForMySQL = "required_for_mysql"

// configValidator reports configuration errors as English messages that use
// the YAML key names.
type configValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newConfigValidator() (*configValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validateDatabaseForMySQL, Config{})

	for _, rule := range []struct {
		tag, text string
		validate  validator.Func
	}{
		{tag: "file", text: "{0} must be an existing and readable file", validate: isFileReadable},
		{tag: tagRequiredForMySQL, text: "{0} is required when storage.backend is mysql"},
	} {
		if rule.validate != nil {
			if err := validate.RegisterValidation(rule.tag, rule.validate); err != nil {
				return nil, fmt.Errorf("validate.RegisterValidation(%s) > %w", rule.tag, err)
			}
		}
		if err := validate.RegisterTranslation(rule.tag, trans, registerText(rule.tag, rule.text), translateNamespace(rule.tag)); err != nil {
			return nil, fmt.Errorf("validate.RegisterTranslation(%s) > %w", rule.tag, err)
		}
	}

	return &configValidator{validate: validate, trans: trans}, nil
}

// check validates a Config and joins every translated violation.
func (v *configValidator) check(cfg any) error {
	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fe.Translate(v.trans))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
}

func registerText(tag, text string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}
}

// translateNamespace names the field by its full key, like outputs.report_template.
func translateNamespace(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		t, _ := trans.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}
}

// validateDatabaseForMySQL requires the connection settings only when progress
// is stored in MySQL.
func validateDatabaseForMySQL(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Storage.Backend != StorageBackendMySQL {
		return
	}
	for _, field := range []struct{ name, value string }{
		{name: "database.host", value: cfg.Database.Host},
		{name: "database.database", value: cfg.Database.Database},
		{name: "database.username", value: cfg.Database.Username},
	} {
		if field.value == "" {
			sl.ReportError(field.value, field.name, field.name, tagRequiredForMySQL, "")
		}
	}
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	// owner read bit
	return info.Mode().Perm()&0o400 != 0
}
