package controller

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/features/administration/admin_actions/dto"
	"gabconcours_backend/internals/features/administration/admin_actions/model"
	"gabconcours_backend/internals/features/administration/admin_actions/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/dbtime"
	"gabconcours_backend/internals/middlewares/auth"
)

type AdminActionController struct {
	Svc *service.Service
}

func NewAdminActionController(svc *service.Service) *AdminActionController {
	return &AdminActionController{Svc: svc}
}

const maxLimit = 1000

// parseFilter: ?admin_id&action_type&candidat_nupcan&date_debut&date_fin&etablissement_id&limit
func (ctl *AdminActionController) parseFilter(c *fiber.Ctx) (dto.Filter, error) {
	var f dto.Filter
	var err error

	if f.AdminID, err = helper.QueryUintPtr(c, "admin_id"); err != nil {
		return f, err
	}
	if f.EtablissementID, err = helper.QueryUintPtr(c, "etablissement_id"); err != nil {
		return f, err
	}
	f.ActionType = strings.TrimSpace(c.Query("action_type"))
	if f.ActionType != "" && !model.IsValidActionType(f.ActionType) {
		return f, apperr.BadRequest("action_type invalide")
	}
	f.CandidatNupcan = strings.TrimSpace(c.Query("candidat_nupcan"))

	loc := ctl.Svc.Repo.Loc
	if f.DateDebut, err = dbtime.ParseDay(c.Query("date_debut"), loc); err != nil {
		return f, apperr.BadRequest(err.Error())
	}
	if f.DateFin, err = dbtime.ParseDay(c.Query("date_fin"), loc); err != nil {
		return f, apperr.BadRequest(err.Error())
	}
	if f.DateDebut != nil && f.DateFin != nil && f.DateFin.Before(*f.DateDebut) {
		return f, apperr.BadRequest("date_fin doit être postérieure à date_debut")
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, apperr.BadRequest("limit invalide")
		}
		if n > maxLimit {
			n = maxLimit
		}
		f.Limit = n
	}
	return f, nil
}

// GET /admin-actions
func (ctl *AdminActionController) List(c *fiber.Ctx) error {
	f, err := ctl.parseFilter(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Svc.Repo.QueryWithAdmin(helper.ReqCtx(c), f)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// GET /admin-actions/stats — dashboard: gagal query → payload kosong + degraded.
func (ctl *AdminActionController) Stats(c *fiber.Ctx) error {
	f, err := ctl.parseFilter(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	stats, err := ctl.Svc.Repo.Aggregate(helper.ReqCtx(c), f)
	if err != nil {
		log.Error().Err(err).Msg("admin-actions stats degraded")
		return c.JSON(fiber.Map{"success": true, "data": []dto.DailyStat{}, "degraded": true})
	}
	return c.JSON(fiber.Map{"success": true, "data": stats, "degraded": false})
}

// GET /admin-actions/recent?limit
func (ctl *AdminActionController) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := ctl.Svc.Repo.Recent(helper.ReqCtx(c), limit)
	if err != nil {
		log.Error().Err(err).Msg("admin-actions recent degraded")
		return c.JSON(fiber.Map{"success": true, "data": []dto.ActionResponse{}, "degraded": true})
	}
	return c.JSON(fiber.Map{"success": true, "data": rows, "degraded": false})
}

// GET /admin-actions/admin/:id
func (ctl *AdminActionController) ByAdmin(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Svc.Repo.FindByAdmin(helper.ReqCtx(c), id, c.QueryInt("limit", 0))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// GET /admin-actions/candidat/:nupcan
func (ctl *AdminActionController) ByCandidat(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Repo.FindByCandidat(helper.ReqCtx(c), c.Params("nupcan"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// GET /admin-actions/export → XLSX
func (ctl *AdminActionController) Export(c *fiber.Ctx) error {
	f, err := ctl.parseFilter(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	data, err := ctl.Svc.ExportXLSX(helper.ReqCtx(c), f)
	if err != nil {
		return helper.JsonFromError(c, apperr.Server("export admin_actions", err))
	}
	name := fmt.Sprintf("admin-actions-%s.xlsx", time.Now().In(ctl.Svc.Repo.Loc).Format("20060102-150405"))
	return helper.SendXLSX(c, name, data)
}

// POST /admin-actions/notes
func (ctl *AdminActionController) AddNote(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	var req dto.AddNoteRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.AddNote(helper.ReqCtx(c), adminID, req, c.IP())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Note ajoutée", m)
}
