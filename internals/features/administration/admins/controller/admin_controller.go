package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/administration/admins/dto"
	"gabconcours_backend/internals/features/administration/admins/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/middlewares/auth"
)

type AdminController struct {
	Svc *service.Service
}

func NewAdminController(svc *service.Service) *AdminController {
	return &AdminController{Svc: svc}
}

// POST /auth/admin/login
func (ctl *AdminController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := ctl.Svc.Login(helper.ReqCtx(c), req)
	if errors.Is(err, service.ErrBadCredentials) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
	}
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Connexion réussie", res)
}

// GET /admins/me
func (ctl *AdminController) Me(c *fiber.Ctx) error {
	id, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	m, err := ctl.Svc.Get(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", m)
}

// PUT /admins/me/password
func (ctl *AdminController) ChangePassword(c *fiber.Ctx) error {
	id, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	var req dto.ChangePasswordRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	if err := ctl.Svc.ChangePassword(helper.ReqCtx(c), id, req); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Mot de passe modifié", nil)
}

// GET /admins?role&etablissement_id (super_admin)
func (ctl *AdminController) List(c *fiber.Ctx) error {
	etab, err := helper.QueryUintPtr(c, "etablissement_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Svc.List(helper.ReqCtx(c), dto.ListFilter{
		Role:            strings.TrimSpace(c.Query("role")),
		EtablissementID: etab,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// POST /admins (super_admin)
func (ctl *AdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.Create(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Administrateur créé, identifiants envoyés par email", m)
}
