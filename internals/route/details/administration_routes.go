package details

import (
	"github.com/gofiber/fiber/v2"

	actionRoute "gabconcours_backend/internals/features/administration/admin_actions/route"
	adminRoute "gabconcours_backend/internals/features/administration/admins/route"
	supportRoute "gabconcours_backend/internals/features/administration/support_requests/route"
)

func AdministrationPublicRoutes(pub, authGroup fiber.Router, s *Services) {
	adminRoute.AdminAuthRoutes(authGroup, s.Admins)
	supportRoute.SupportPublicRoutes(pub, s.Support)
}

func AdministrationAdminRoutes(admin fiber.Router, s *Services) {
	adminRoute.AdminRoutes(admin, s.Admins)
	actionRoute.AdminActionRoutes(admin, s.DB, s.Loc, s.Log)
	supportRoute.SupportAdminRoutes(admin, s.Support)
}
