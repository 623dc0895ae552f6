package route

import (
	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/constants"
	"gabconcours_backend/internals/features/administration/admins/controller"
	"gabconcours_backend/internals/features/administration/admins/service"
	"gabconcours_backend/internals/middlewares/auth"
)

// AdminAuthRoutes — login tanpa token.
func AdminAuthRoutes(authGroup fiber.Router, svc *service.Service) {
	ctl := controller.NewAdminController(svc)
	authGroup.Post("/admin/login", ctl.Login)
}

// AdminRoutes — profil sendiri untuk semua admin; kelola akun khusus super_admin.
func AdminRoutes(admin fiber.Router, svc *service.Service) {
	ctl := controller.NewAdminController(svc)
	g := admin.Group("/admins")
	g.Get("/me", ctl.Me)
	g.Put("/me/password", ctl.ChangePassword)

	// per-route: Group("") ikut memasang middleware pada /me
	superOnly := auth.RequireRole(constants.RoleErrorSuperAdmin("la gestion des administrateurs"), constants.RoleSuperAdmin)
	g.Get("/", superOnly, ctl.List)
	g.Post("/", superOnly, ctl.Create)
}
