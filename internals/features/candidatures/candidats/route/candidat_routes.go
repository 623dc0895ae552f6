package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/candidatures/candidats/controller"
	"gabconcours_backend/internals/features/candidatures/candidats/service"
)

// CandidatPublicRoutes — pendaftaran & login tanpa token.
func CandidatPublicRoutes(pub, authGroup fiber.Router, svc *service.Service) {
	ctl := controller.NewCandidatController(svc)
	pub.Post("/candidats", ctl.Register)
	authGroup.Post("/candidat/login", ctl.Login)
}

// CandidatUserRoutes — token candidat (miliknya sendiri) atau admin.
func CandidatUserRoutes(r fiber.Router, svc *service.Service) {
	ctl := controller.NewCandidatController(svc)
	g := r.Group("/candidats")
	g.Get("/:nupcan", ctl.Get)
	g.Get("/:nupcan/candidature", ctl.Candidature)
	g.Get("/:nupcan/photo", ctl.Photo)
}

// CandidatAdminRoutes — statistik, daftar, export, koreksi kontak.
func CandidatAdminRoutes(admin fiber.Router, svc *service.Service) {
	ctl := controller.NewCandidatController(svc)
	g := admin.Group("/candidats")
	g.Get("/", ctl.Stats)
	g.Get("/list", ctl.List)
	g.Get("/export", ctl.Export)
	g.Put("/:nupcan", ctl.Update)
}
