package details

import (
	"github.com/gofiber/fiber/v2"

	msgRoute "gabconcours_backend/internals/features/messaging/messages/route"
	outboxRoute "gabconcours_backend/internals/features/notifications/outbox/route"
)

func MessagingRoutes(r fiber.Router, s *Services) {
	msgRoute.MessageRoutes(r, s.Messages)
}

func NotificationAdminRoutes(admin fiber.Router, s *Services) {
	outboxRoute.OutboxAdminRoutes(admin, s.Outbox, s.OutboxWorker)
}
