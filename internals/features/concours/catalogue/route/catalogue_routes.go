package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gabconcours_backend/internals/features/concours/catalogue/controller"
	"gabconcours_backend/internals/features/concours/catalogue/repository"
)

// CataloguePublicRoutes — read-only, tanpa login.
func CataloguePublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCatalogueController(repository.New(db))

	r.Get("/etablissements", ctl.ListEtablissements)
	r.Get("/etablissements/:id", ctl.GetEtablissement)

	r.Get("/concours", ctl.ListConcours)
	r.Get("/concours/:id", ctl.GetConcours)
	r.Get("/concours/:id/filieres", ctl.ListConcoursFilieres)

	r.Get("/filieres", ctl.ListFilieres)
	r.Get("/filieres/:id", ctl.GetFiliere)
	r.Get("/filieres/:id/matieres", ctl.ListFiliereMatieres)
	r.Get("/matieres", ctl.ListMatieres)
}

// CatalogueAdminRoutes — write, khusus admin.
func CatalogueAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCatalogueController(repository.New(db))

	r.Post("/etablissements", ctl.CreateEtablissement)
	r.Post("/concours", ctl.CreateConcours)
	r.Post("/concours/:id/filieres", ctl.AddConcoursFiliere)
	r.Delete("/concours/:id/filieres/:filiere_id", ctl.RemoveConcoursFiliere)

	r.Post("/filieres", ctl.CreateFiliere)
	r.Post("/filieres/:id/matieres", ctl.AddFiliereMatiere)
	r.Delete("/filieres/:id/matieres/:matiere_id", ctl.RemoveFiliereMatiere)
	r.Post("/matieres", ctl.CreateMatiere)
}
