package helper

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func SendXLSX(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, MIMEXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// SendBlob men-stream isi storage ke client. inline=false → dipaksa unduh.
func SendBlob(c *fiber.Ctx, rc io.ReadCloser, contentType, filename string, inline bool) error {
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	disp := "attachment"
	if inline {
		disp = "inline"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, disp+`; filename="`+filename+`"`)
	return c.SendStream(rc)
}
