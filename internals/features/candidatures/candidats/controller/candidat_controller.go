package controller

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/features/candidatures/candidats/dto"
	"gabconcours_backend/internals/features/candidatures/candidats/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
)

type CandidatController struct {
	Svc *service.Service
}

func NewCandidatController(svc *service.Service) *CandidatController {
	return &CandidatController{Svc: svc}
}

// canAccess: admin bebas, candidat hanya NUPCAN miliknya.
func canAccess(c *fiber.Ctx, nupcan string) bool {
	if auth.IsAdmin(c) {
		return true
	}
	own, ok := auth.Nupcan(c)
	return ok && own == nupcan
}

/* =======================================================
   PUBLIC
   ======================================================= */

// POST /candidats (JSON atau multipart, foto di "photo")
func (ctl *CandidatController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	var photo *multipart.FileHeader
	if helper.IsMultipart(c) {
		photo = helper.PickFile(c, "photo", "phtcan")
	}
	m, err := ctl.Svc.Register(helper.ReqCtx(c), req, photo)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Inscription enregistrée", m)
}

// POST /auth/candidat/login
func (ctl *CandidatController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := ctl.Svc.Login(helper.ReqCtx(c), req)
	if errors.Is(err, service.ErrBadCredentials) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "NUPCAN ou email incorrect")
	}
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Connexion réussie", res)
}

/* =======================================================
   CANDIDAT / ADMIN
   ======================================================= */

// GET /candidats/:nupcan
func (ctl *CandidatController) Get(c *fiber.Ctx) error {
	nupcan := strings.TrimSpace(c.Params("nupcan"))
	if !canAccess(c, nupcan) {
		return helper.JsonError(c, fiber.StatusForbidden, "Accès refusé")
	}
	m, err := ctl.Svc.Get(helper.ReqCtx(c), nupcan)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", m)
}

// GET /candidats/:nupcan/candidature
func (ctl *CandidatController) Candidature(c *fiber.Ctx) error {
	nupcan := strings.TrimSpace(c.Params("nupcan"))
	if !canAccess(c, nupcan) {
		return helper.JsonError(c, fiber.StatusForbidden, "Accès refusé")
	}
	st, err := ctl.Svc.Candidature(helper.ReqCtx(c), nupcan)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", st)
}

// GET /candidats/:nupcan/photo
func (ctl *CandidatController) Photo(c *fiber.Ctx) error {
	nupcan := strings.TrimSpace(c.Params("nupcan"))
	if !canAccess(c, nupcan) {
		return helper.JsonError(c, fiber.StatusForbidden, "Accès refusé")
	}
	ctx := helper.ReqCtx(c)
	m, err := ctl.Svc.Get(ctx, nupcan)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if m.Photo == "" {
		return helper.JsonError(c, fiber.StatusNotFound, "Aucune photo")
	}
	rc, err := ctl.Svc.Store.Open(ctx, m.Photo)
	if err != nil {
		return helper.JsonFromError(c, apperr.NotFound("Photo introuvable"))
	}
	return helper.SendBlob(c, rc, "image/webp", path.Base(m.Photo), true)
}

/* =======================================================
   ADMIN
   ======================================================= */

var candidatSortColumns = map[string]string{
	"created_at": "created_at",
	"nom":        "nomcan",
	"prenom":     "prncan",
	"nupcan":     "nupcan",
}

func (ctl *CandidatController) listFilter(c *fiber.Ctx) (dto.ListFilter, error) {
	concoursID, err := helper.QueryUintPtr(c, "concours_id")
	if err != nil {
		return dto.ListFilter{}, err
	}
	return dto.ListFilter{Q: c.Query("q"), ConcoursID: concoursID}, nil
}

// GET /candidats/list?q&concours_id&page&per_page
func (ctl *CandidatController) List(c *fiber.Ctx) error {
	f, err := ctl.listFilter(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	f.Limit, f.Offset = p.Limit(), p.Offset()
	if f.OrderBy, err = p.SafeOrderClause(candidatSortColumns, "created_at"); err != nil {
		return helper.JsonFromError(c, apperr.Server("sort candidats", err))
	}

	rows, total, err := ctl.Svc.Repo.List(helper.ReqCtx(c), f)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /candidats — statistik pendaftaran per bulan.
func (ctl *CandidatController) Stats(c *fiber.Ctx) error {
	st, err := ctl.Svc.Repo.StatsParMois(helper.ReqCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("candidats stats degraded")
		return c.JSON(fiber.Map{
			"success":  true,
			"data":     dto.Stats{ParMois: []dto.MonthStat{}},
			"degraded": true,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": st, "degraded": false})
}

// PUT /candidats/:nupcan
func (ctl *CandidatController) Update(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	var req dto.UpdateRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.Update(helper.ReqCtx(c), c.Params("nupcan"), adminID, c.IP(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Candidat mis à jour", m)
}

// GET /candidats/export → XLSX
func (ctl *CandidatController) Export(c *fiber.Ctx) error {
	f, err := ctl.listFilter(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	data, err := ctl.Svc.ExportXLSX(helper.ReqCtx(c), f)
	if err != nil {
		return helper.JsonFromError(c, apperr.Server("export candidats", err))
	}
	name := fmt.Sprintf("candidats-%s.xlsx", time.Now().In(ctl.Svc.Repo.Loc).Format("20060102-150405"))
	return helper.SendXLSX(c, name, data)
}
