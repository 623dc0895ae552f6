package helper

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// PickFile mengambil file multipart pertama yang ada dari daftar key (prioritas urut).
func PickFile(c *fiber.Ctx, keys ...string) *multipart.FileHeader {
	for _, k := range keys {
		if fh, err := c.FormFile(k); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}
