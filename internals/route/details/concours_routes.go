package details

import (
	"github.com/gofiber/fiber/v2"

	catRoute "gabconcours_backend/internals/features/concours/catalogue/route"
)

func ConcoursPublicRoutes(pub fiber.Router, s *Services) {
	catRoute.CataloguePublicRoutes(pub, s.DB)
}

func ConcoursAdminRoutes(admin fiber.Router, s *Services) {
	catRoute.CatalogueAdminRoutes(admin, s.DB)
}
