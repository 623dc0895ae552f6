package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/concours/catalogue/dto"
	"gabconcours_backend/internals/features/concours/catalogue/model"
	"gabconcours_backend/internals/features/concours/catalogue/repository"
	helper "gabconcours_backend/internals/helpers"
)

type CatalogueController struct {
	Repo *repository.Repository
}

func NewCatalogueController(repo *repository.Repository) *CatalogueController {
	return &CatalogueController{Repo: repo}
}

/* =======================================================
   ETABLISSEMENTS
   ======================================================= */

func (ctl *CatalogueController) CreateEtablissement(c *fiber.Ctx) error {
	var req dto.CreateEtablissementRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	if err := ctl.Repo.CreateEtablissement(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Établissement créé", m)
}

func (ctl *CatalogueController) ListEtablissements(c *fiber.Ctx) error {
	rows, err := ctl.Repo.ListEtablissements(helper.ReqCtx(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

func (ctl *CatalogueController) GetEtablissement(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Repo.GetEtablissement(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", m)
}

/* =======================================================
   CONCOURS
   ======================================================= */

func (ctl *CatalogueController) CreateConcours(c *fiber.Ctx) error {
	var req dto.CreateConcoursRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	if err := ctl.Repo.CreateConcours(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Concours créé", m)
}

// ListConcours: publik hanya melihat yang aktif kecuali ?all=true dipakai admin.
func (ctl *CatalogueController) ListConcours(c *fiber.Ctx) error {
	etabID, err := helper.QueryUintPtr(c, "etablissement_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	activeOnly := !strings.EqualFold(c.Query("all"), "true")
	rows, err := ctl.Repo.ListConcours(helper.ReqCtx(c), activeOnly, etabID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

func (ctl *CatalogueController) GetConcours(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Repo.GetConcours(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	filieres, err := ctl.Repo.ListFilieresByConcours(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{"concours": m, "filieres": filieres})
}

/* =======================================================
   FILIERES & MATIERES
   ======================================================= */

func (ctl *CatalogueController) CreateFiliere(c *fiber.Ctx) error {
	var req dto.CreateFiliereRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := &model.FiliereModel{Nom: strings.TrimSpace(req.Nom), Description: req.Description}
	if err := ctl.Repo.CreateFiliere(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Filière créée", m)
}

func (ctl *CatalogueController) ListFilieres(c *fiber.Ctx) error {
	rows, err := ctl.Repo.ListFilieres(helper.ReqCtx(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

func (ctl *CatalogueController) GetFiliere(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Repo.GetFiliere(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	matieres, err := ctl.Repo.ListMatieresByFiliere(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{"filiere": m, "matieres": matieres})
}

func (ctl *CatalogueController) CreateMatiere(c *fiber.Ctx) error {
	var req dto.CreateMatiereRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := &model.MatiereModel{Nom: strings.TrimSpace(req.Nom), Duree: req.Duree}
	if err := ctl.Repo.CreateMatiere(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Matière créée", m)
}

func (ctl *CatalogueController) ListMatieres(c *fiber.Ctx) error {
	rows, err := ctl.Repo.ListMatieres(helper.ReqCtx(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

/* =======================================================
   RELATIONS
   ======================================================= */

// POST /concours/:id/filieres
func (ctl *CatalogueController) AddConcoursFiliere(c *fiber.Ctx) error {
	concoursID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AddConcoursFiliereRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := &model.ConcoursFiliereModel{
		ConcoursID:        concoursID,
		FiliereID:         req.FiliereID,
		PlacesDisponibles: req.PlacesDisponibles,
	}
	if err := ctl.Repo.AddFiliere(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Filière associée au concours", m)
}

func (ctl *CatalogueController) ListConcoursFilieres(c *fiber.Ctx) error {
	concoursID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Repo.ListFilieresByConcours(helper.ReqCtx(c), concoursID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// DELETE /concours/:id/filieres/:filiere_id
func (ctl *CatalogueController) RemoveConcoursFiliere(c *fiber.Ctx) error {
	concoursID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	filiereID, err := helper.ParamUint(c, "filiere_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ctl.Repo.RemoveFiliere(helper.ReqCtx(c), concoursID, filiereID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Association supprimée", nil)
}

// POST /filieres/:id/matieres
func (ctl *CatalogueController) AddFiliereMatiere(c *fiber.Ctx) error {
	filiereID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AddFiliereMatiereRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	obligatoire := true
	if req.Obligatoire != nil {
		obligatoire = *req.Obligatoire
	}
	m := &model.FiliereMatiereModel{
		FiliereID:   filiereID,
		MatiereID:   req.MatiereID,
		Coefficient: req.Coefficient,
		Obligatoire: obligatoire,
	}
	if err := ctl.Repo.AddMatiere(helper.ReqCtx(c), m); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Matière associée à la filière", m)
}

func (ctl *CatalogueController) ListFiliereMatieres(c *fiber.Ctx) error {
	filiereID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Repo.ListMatieresByFiliere(helper.ReqCtx(c), filiereID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

func (ctl *CatalogueController) RemoveFiliereMatiere(c *fiber.Ctx) error {
	filiereID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	matiereID, err := helper.ParamUint(c, "matiere_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ctl.Repo.RemoveMatiere(helper.ReqCtx(c), filiereID, matiereID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Association supprimée", nil)
}
