package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/notifications/dispatcher"
	"gabconcours_backend/internals/features/notifications/outbox/controller"
	"gabconcours_backend/internals/features/notifications/outbox/repository"
)

func OutboxAdminRoutes(admin fiber.Router, repo *repository.Repository, w *dispatcher.OutboxWorker) {
	ctl := controller.NewOutboxController(repo, w)
	g := admin.Group("/notifications/outbox")
	g.Get("/", ctl.List)
	g.Post("/sweep", ctl.Sweep)
	g.Post("/:id/requeue", ctl.Requeue)
}
