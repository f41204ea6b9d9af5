package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/dittoserve/pkg/static"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Both registrations use static names and valid funcs.
		_ = validate.RegisterValidation("ext", validateExt)
		_ = validate.RegisterValidation("segment", validateSegment)
		validate.RegisterStructValidation(validateStatic, StaticConfig{})
	})
	return validate
}

// Validate checks struct tags and cross-field rules on cfg. The returned
// error lists every violation, one per line, in the form
// "<namespace>: failed '<tag>' validation".
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed '%s' validation", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s=%s)", fe.Tag(), fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return errors.New(strings.Join(msgs, "\n"))
}

// validateExt accepts "*" or a dotted extension such as ".html".
func validateExt(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "*" {
		return true
	}
	return len(s) > 1 && strings.HasPrefix(s, ".") && !static.IsDangerous(s)
}

// validateSegment accepts a single path segment: a file name that cannot
// climb out of its directory.
func validateSegment(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && s != "." && !static.IsDangerous(s)
}

// validateStatic checks the extension tables, whose keys are not reachable
// through struct tags.
func validateStatic(sl validator.StructLevel) {
	c := sl.Current().Interface().(StaticConfig)

	for ext, typ := range c.ContentTypes {
		if strings.TrimSpace(ext) == "" || !strings.Contains(typ, "/") {
			sl.ReportError(c.ContentTypes, "ContentTypes", "content_types", "mimetype", ext)
		}
	}
	for ext := range c.ContentEncodings {
		if strings.TrimSpace(ext) == "" {
			sl.ReportError(c.ContentEncodings, "ContentEncodings", "content_encodings", "ext", ext)
		}
	}
}
