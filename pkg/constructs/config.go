package constructs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var validate = newValidator()

// newValidator reports fields by their configuration key rather than their Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeConfiguration decodes a construct's configuration into `out` (a pointer to a struct with
// `mapstructure` and `validate` tags) and validates it. Unknown keys are rejected, except `type` which
// every construct entry carries.
func DecodeConfiguration(id string, configuration map[string]any, out any) error {
	cfg := make(map[string]any, len(configuration))
	for k, v := range configuration {
		if k == "type" {
			continue
		}
		cfg[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrapf(err, "invalid configuration of construct '%s'", id)
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrapf(err, "could not validate construct '%s'", id)
		}
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = describeFieldError(fe)
		}
		return fmt.Errorf("invalid configuration of construct '%s': %s", id, strings.Join(msgs, "; "))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("'%s' must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("'%s' must be at most %s, got %v", field, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("'%s' failed '%s' validation", field, fe.Tag())
}
