package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/constants"
	"gabconcours_backend/internals/features/messaging/messages/controller"
	"gabconcours_backend/internals/features/messaging/messages/service"
	"gabconcours_backend/internals/middlewares/auth"
)

// MessageRoutes — r sudah melewati AuthJWT; bagian admin dijaga per-route.
func MessageRoutes(r fiber.Router, svc *service.Service) {
	ctl := controller.NewMessageController(svc)
	adminOnly := auth.RequireRole(constants.RoleErrorAdmin("la messagerie administrateur"), constants.AdminRoles...)
	candidatOnly := auth.RequireRole(constants.RoleErrorCandidat("l'envoi de messages"), constants.RoleCandidat)

	r.Get("/conversation/:nupcan", ctl.Conversation)
	r.Get("/unread-count", ctl.UnreadCount)
	r.Put("/:id/read", ctl.MarkRead)
	r.Post("/candidat/send", candidatOnly, ctl.Send)
	r.Post("/admin/reply", adminOnly, ctl.Reply)
	r.Get("/admin/conversations", adminOnly, ctl.Conversations)
}
