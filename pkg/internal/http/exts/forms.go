package exts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validation.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if len(name) > 0 && name != "-" {
				return name
			}
		}
		return field.Name
	})
}

// FormErrors collects messages per form field, "__all__" holds the ones of the whole form.
type FormErrors map[string][]string

const NonFieldErrors = "__all__"

func (v FormErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v FormErrors) Has(field string) bool {
	return len(v[field]) > 0
}

func (v FormErrors) Empty() bool {
	return len(v) == 0
}

// AddError files a service error under its field. Errors that are not about a
// field are returned untouched so the caller can fail the request.
func (v FormErrors) AddError(err error) error {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		v.Add(fieldErr.Field, fieldErr.Message)
		return nil
	}
	return err
}

// BindForm parses the submitted form into out, trims its text fields and runs the
// validate tags over it. Fields tagged strip:"false" keep their whitespace.
func BindForm(c *fiber.Ctx, out any) (FormErrors, error) {
	if err := c.BodyParser(out); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	trimFields(out)
	return ValidateForm(out), nil
}

func ValidateForm(out any) FormErrors {
	errs := FormErrors{}
	if err := validation.Struct(out); err != nil {
		var items validator.ValidationErrors
		if errors.As(err, &items) {
			for _, item := range items {
				errs.Add(item.Field(), describeFieldError(item))
			}
		} else {
			errs.Add(NonFieldErrors, err.Error())
		}
	}
	return errs
}

// BindAndValidate is the JSON flavour used by the admin API, any violation fails the request.
func BindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if err := validation.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func trimFields(out any) {
	value := reflect.ValueOf(out)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return
	}
	value = value.Elem()
	for idx := 0; idx < value.NumField(); idx++ {
		field := value.Field(idx)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}
		if value.Type().Field(idx).Tag.Get("strip") == "false" {
			continue
		}
		field.SetString(strings.TrimSpace(field.String()))
	}
}

func describeFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", err.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", err.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn’t match."
	case "numeric", "number":
		return "Enter a whole number."
	default:
		return fmt.Sprintf("Ensure this value passes the %s rule.", err.Tag())
	}
}
