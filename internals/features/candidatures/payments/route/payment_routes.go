package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/candidatures/payments/controller"
	"gabconcours_backend/internals/features/candidatures/payments/service"
)

// PaymentPublicRoutes — webhook Midtrans (diverifikasi via signature).
func PaymentPublicRoutes(pub fiber.Router, svc *service.Service) {
	ctl := controller.NewPaymentController(svc)
	pub.Post("/paiements/midtrans/notification", ctl.MidtransWebhook)
}

func PaymentUserRoutes(r fiber.Router, svc *service.Service) {
	ctl := controller.NewPaymentController(svc)
	g := r.Group("/paiements")
	g.Post("/checkout", ctl.Checkout)
	g.Get("/candidat/:nupcan", ctl.ListByCandidat)
}

func PaymentAdminRoutes(admin fiber.Router, svc *service.Service) {
	ctl := controller.NewPaymentController(svc)
	g := admin.Group("/paiements")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/summary", ctl.Summary)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id/statut", ctl.UpdateStatus)
	g.Post("/:id/recu", ctl.SendReceipt)
}
