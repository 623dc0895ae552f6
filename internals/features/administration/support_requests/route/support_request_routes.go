package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/administration/support_requests/controller"
	"gabconcours_backend/internals/features/administration/support_requests/service"
)

func SupportPublicRoutes(pub fiber.Router, svc *service.Service) {
	ctl := controller.NewSupportRequestController(svc)
	pub.Post("/support", ctl.Create)
}

func SupportAdminRoutes(admin fiber.Router, svc *service.Service) {
	ctl := controller.NewSupportRequestController(svc)
	g := admin.Group("/support")
	g.Get("/", ctl.List)
	g.Patch("/:id/resolve", ctl.Resolve)
}
