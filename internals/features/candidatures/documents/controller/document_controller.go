package controller

import (
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/features/candidatures/documents/dto"
	"gabconcours_backend/internals/features/candidatures/documents/model"
	"gabconcours_backend/internals/features/candidatures/documents/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
)

type DocumentController struct {
	Svc *service.Service
}

func NewDocumentController(svc *service.Service) *DocumentController {
	return &DocumentController{Svc: svc}
}

func canAccess(c *fiber.Ctx, nupcan string) bool {
	if auth.IsAdmin(c) {
		return true
	}
	own, ok := auth.Nupcan(c)
	return ok && own == nupcan
}

// loadOwned: dokumen hanya untuk admin atau pemiliknya.
func (ctl *DocumentController) loadOwned(c *fiber.Ctx) (*model.DocumentModel, error) {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return nil, err
	}
	doc, err := ctl.Svc.Get(helper.ReqCtx(c), id)
	if err != nil {
		return nil, err
	}
	if !canAccess(c, doc.Nupcan) {
		return nil, apperr.Forbidden("Accès refusé")
	}
	return doc, nil
}

/* =======================================================
   CANDIDAT (atau admin atas nama candidat)
   ======================================================= */

// POST /documents (multipart: nomdoc, type, file, concours_id?, nupcan? untuk admin)
func (ctl *DocumentController) Upload(c *fiber.Ctx) error {
	if !helper.IsMultipart(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Requête multipart attendue")
	}
	var req dto.UploadRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}

	nupcan, ok := auth.Nupcan(c)
	if auth.IsAdmin(c) {
		nupcan, ok = strings.TrimSpace(c.FormValue("nupcan")), true
	}
	if !ok || nupcan == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "nupcan requis")
	}

	doc, err := ctl.Svc.Upload(helper.ReqCtx(c), nupcan, req, helper.PickFile(c, "file"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Document envoyé", doc)
}

// GET /documents/candidat/:nupcan
func (ctl *DocumentController) ListByCandidat(c *fiber.Ctx) error {
	nupcan := strings.TrimSpace(c.Params("nupcan"))
	if !canAccess(c, nupcan) {
		return helper.JsonError(c, fiber.StatusForbidden, "Accès refusé")
	}
	rows, err := ctl.Svc.Repo.ListByNupcan(helper.ReqCtx(c), nupcan)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// GET /documents/:id
func (ctl *DocumentController) Get(c *fiber.Ctx) error {
	doc, err := ctl.loadOwned(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", doc)
}

// GET /documents/:id/download
func (ctl *DocumentController) Download(c *fiber.Ctx) error {
	doc, err := ctl.loadOwned(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rc, err := ctl.Svc.Open(helper.ReqCtx(c), doc)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.SendBlob(c, rc, doc.ContentType, path.Base(doc.NomFichier), c.QueryBool("inline", false))
}

// POST /documents/:id/replace (multipart: file, nomdoc?)
func (ctl *DocumentController) Replace(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	nupcan, ok := auth.Nupcan(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Réservé au candidat propriétaire")
	}
	doc, err := ctl.Svc.Replace(helper.ReqCtx(c), id, nupcan, helper.PickFile(c, "file"), c.FormValue("nomdoc"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Document remplacé, en attente de validation", doc)
}

/* =======================================================
   ADMIN
   ======================================================= */

// GET /documents?statut&nupcan&page&per_page
func (ctl *DocumentController) List(c *fiber.Ctx) error {
	statut := strings.TrimSpace(c.Query("statut"))
	if statut != "" && !model.IsValidStatut(statut) {
		return helper.JsonError(c, fiber.StatusBadRequest, "statut invalide")
	}
	p := helper.ParseFiber(c, "created_at", "asc", helper.AdminOpts)
	rows, total, err := ctl.Svc.Repo.List(helper.ReqCtx(c), dto.ListFilter{
		Statut: statut,
		Nupcan: strings.TrimSpace(c.Query("nupcan")),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /documents/stats
func (ctl *DocumentController) Stats(c *fiber.Ctx) error {
	counts, err := ctl.Svc.Repo.CountByStatut(helper.ReqCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("documents stats degraded")
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}, "degraded": true})
	}
	return c.JSON(fiber.Map{"success": true, "data": counts, "degraded": false})
}

// POST /documents/:id/decision {statut, commentaire}
func (ctl *DocumentController) Decide(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.DecideRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	doc, err := ctl.Svc.Decide(helper.ReqCtx(c), dto.Decision{
		DocumentID:  id,
		AdminID:     adminID,
		Statut:      req.Statut,
		Commentaire: req.Commentaire,
		IPAddress:   c.IP(),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	msg := "Document validé"
	if doc.Statut == model.StatutRejete {
		msg = "Document rejeté"
	}
	return helper.JsonUpdated(c, msg, doc)
}

// PUT /documents/:id
func (ctl *DocumentController) UpdateMetadata(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateMetadataRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	doc, err := ctl.Svc.UpdateMetadata(helper.ReqCtx(c), id, adminID, req, c.IP())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Document mis à jour", doc)
}
