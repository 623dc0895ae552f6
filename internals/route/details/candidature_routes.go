package details

import (
	"github.com/gofiber/fiber/v2"

	candRoute "gabconcours_backend/internals/features/candidatures/candidats/route"
	docRoute "gabconcours_backend/internals/features/candidatures/documents/route"
	payRoute "gabconcours_backend/internals/features/candidatures/payments/route"
)

func CandidaturePublicRoutes(pub, authGroup fiber.Router, s *Services) {
	candRoute.CandidatPublicRoutes(pub, authGroup, s.Candidats)
	payRoute.PaymentPublicRoutes(pub, s.Payments)
}

func CandidatureUserRoutes(r fiber.Router, s *Services) {
	candRoute.CandidatUserRoutes(r, s.Candidats)
	docRoute.DocumentUserRoutes(r, s.Documents)
	payRoute.PaymentUserRoutes(r, s.Payments)
}

func CandidatureAdminRoutes(admin fiber.Router, s *Services) {
	candRoute.CandidatAdminRoutes(admin, s.Candidats)
	docRoute.DocumentAdminRoutes(admin, s.Documents)
	payRoute.PaymentAdminRoutes(admin, s.Payments)
}
