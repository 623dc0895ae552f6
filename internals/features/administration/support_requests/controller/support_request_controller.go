package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/administration/support_requests/dto"
	"gabconcours_backend/internals/features/administration/support_requests/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/middlewares/auth"
)

type SupportRequestController struct {
	Svc *service.Service
}

func NewSupportRequestController(svc *service.Service) *SupportRequestController {
	return &SupportRequestController{Svc: svc}
}

// POST /support
func (ctl *SupportRequestController) Create(c *fiber.Ctx) error {
	var req dto.CreateRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.Create(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Demande envoyée", m)
}

// GET /support?statut&page&per_page
func (ctl *SupportRequestController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := ctl.Svc.List(helper.ReqCtx(c), dto.ListFilter{
		Statut: strings.TrimSpace(c.Query("statut")),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PATCH /support/:id/resolve
func (ctl *SupportRequestController) Resolve(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ResolveRequest
	if len(c.Body()) > 0 {
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
	}
	m, err := ctl.Svc.Resolve(helper.ReqCtx(c), id, adminID, req, c.IP())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Demande traitée", m)
}
