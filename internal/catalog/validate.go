package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/proforma/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("use", func(fl validator.FieldLevel) bool {
		return model.Use(fl.Field().String()).Valid()
	})
	return v
}

// ValidationError maps template field names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "catalog: invalid template: " + strings.Join(parts, "; ")
}

// Validate checks a template. It returns nil or a *ValidationError.
func Validate(t model.FloorPlateTemplate) error {
	fields := make(map[string]string)
	if strings.TrimSpace(t.Name) == "" {
		fields["name"] = "name is required"
	}

	err := validate.Struct(t)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = message(fe)
		}
	} else if err != nil {
		return err
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "use":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), useList())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func useList() string {
	names := make([]string, len(model.Uses))
	for i, u := range model.Uses {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}
