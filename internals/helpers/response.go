package helper

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator bersama; tag json dipakai sebagai nama field di pesan error.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidationErrorMap mengubah validator.ValidationErrors → map field → pesan.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

// ValidationError: balas 422 dengan detail per field.
func ValidationError(c *fiber.Ctx, err error) error {
	return JsonValidationError(c, ValidationErrorMap(err))
}

// BindAndValidate: BodyParser + validator dalam satu langkah.
// Return non-nil error sudah berupa response yang harus langsung dikembalikan handler.
func BindAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Requête invalide")
	}
	if err := Validator().Struct(dst); err != nil {
		return false, ValidationError(c, err)
	}
	return true, nil
}
