package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists the fields that block saving a source
type ValidationError struct {
	Fields []string // form paths like "name", "config.url", "secrets.api_key"
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names, which are also the form input names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the name and every required field of the source type are set.
// It returns *ValidationError for missing fields and a plain error for malformed sources.
func (s Source) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("unknown source type %q", s.Type)
	}
	if s.Config == nil || s.Config.SourceType() != s.Type {
		return fmt.Errorf("config does not match source type %s", s.Type)
	}
	if s.Secrets != nil && !secretsFit(s.Type, s.Secrets) {
		return fmt.Errorf("secrets do not match source type %s", s.Type)
	}

	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}

	fields, err := structFields("config", s.Config)
	if err != nil {
		return err
	}
	missing = append(missing, fields...)

	if s.Type.HasSecrets() {
		secrets := s.Secrets
		if secrets == nil {
			secrets = NewSecrets(s.Type)
		}
		fields, err := structFields("secrets", secrets)
		if err != nil {
			return err
		}
		missing = append(missing, fields...)
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// structFields runs struct validation and converts failures to prefixed field paths
func structFields(prefix string, v any) ([]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate %s: %w", prefix, err)
	}
	res := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// namespace is like "RSSConfig.url" or "PDFConfig.file.name", drop the struct name
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		res = append(res, prefix+"."+path)
	}
	return res, nil
}
