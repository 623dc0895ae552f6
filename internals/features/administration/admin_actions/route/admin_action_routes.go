package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/admin_actions/controller"
	"gabconcours_backend/internals/features/administration/admin_actions/repository"
	"gabconcours_backend/internals/features/administration/admin_actions/service"
)

// AdminActionRoutes — read-only audit trail + catatan admin. Mount di grup admin.
func AdminActionRoutes(admin fiber.Router, db *gorm.DB, loc *time.Location, log zerolog.Logger) {
	svc := service.New(repository.New(db, loc), log)
	ctl := controller.NewAdminActionController(svc)

	g := admin.Group("/admin-actions")
	g.Get("/", ctl.List)
	g.Get("/stats", ctl.Stats)
	g.Get("/recent", ctl.Recent)
	g.Get("/export", ctl.Export)
	g.Get("/admin/:id", ctl.ByAdmin)
	g.Get("/candidat/:nupcan", ctl.ByCandidat)
	g.Post("/notes", ctl.AddNote)
}
