package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/candidatures/documents/controller"
	"gabconcours_backend/internals/features/candidatures/documents/service"
)

// DocumentUserRoutes — candidat pemilik (atau admin).
func DocumentUserRoutes(r fiber.Router, svc *service.Service) {
	ctl := controller.NewDocumentController(svc)
	g := r.Group("/documents")
	g.Post("/", ctl.Upload)
	g.Get("/candidat/:nupcan", ctl.ListByCandidat)
	g.Get("/:id", ctl.Get)
	g.Get("/:id/download", ctl.Download)
	g.Post("/:id/replace", ctl.Replace)
}

// DocumentAdminRoutes — antrean validasi & keputusan.
func DocumentAdminRoutes(admin fiber.Router, svc *service.Service) {
	ctl := controller.NewDocumentController(svc)
	g := admin.Group("/documents")
	g.Get("/", ctl.List)
	g.Get("/stats", ctl.Stats)
	g.Post("/:id/decision", ctl.Decide)
	g.Put("/:id", ctl.UpdateMetadata)
}
