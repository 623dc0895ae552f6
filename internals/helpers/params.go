package helper

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/helpers/apperr"
)

// ParamUint membaca path param numerik (":id").
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.BadRequest(name + " invalide")
	}
	return uint(n), nil
}

// QueryUintPtr: query kosong → nil.
func QueryUintPtr(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.BadRequest(name + " invalide")
	}
	v := uint(n)
	return &v, nil
}

// ReqCtx: context standar dari Fiber (timeout dipasang middleware request-id).
func ReqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}
