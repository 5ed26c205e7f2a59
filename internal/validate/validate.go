package validate

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oggyb/vidhub/internal/db"
	svcErr "github.com/oggyb/vidhub/internal/errors"
)

// validate is the shared validator instance. Field names in messages come
// from json tags.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(db.Categories, fl.Field().String())
	})
}

// Struct validates s and converts the first failure into an
// InvalidArgument error. Callers trim string fields first so that
// whitespace-only values fail "required".
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return svcErr.InvalidArgument(err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return svcErr.InvalidArgument(fmt.Sprintf("%s is required", fe.Field()))
	case "max":
		return svcErr.InvalidArgument(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "gt":
		return svcErr.InvalidArgument(fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
	case "category":
		return svcErr.InvalidArgument(fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(db.Categories, ", ")))
	default:
		return svcErr.InvalidArgument(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// Trim trims surrounding whitespace from each pointed-to string.
func Trim(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
