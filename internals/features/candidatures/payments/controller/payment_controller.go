package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/features/candidatures/payments/dto"
	"gabconcours_backend/internals/features/candidatures/payments/model"
	"gabconcours_backend/internals/features/candidatures/payments/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
)

type PaymentController struct {
	Svc *service.Service
}

func NewPaymentController(svc *service.Service) *PaymentController {
	return &PaymentController{Svc: svc}
}

/* =======================================================
   CANDIDAT
   ======================================================= */

// GET /paiements/candidat/:nupcan
func (ctl *PaymentController) ListByCandidat(c *fiber.Ctx) error {
	nupcan := strings.TrimSpace(c.Params("nupcan"))
	if own, ok := auth.Nupcan(c); !auth.IsAdmin(c) && (!ok || own != nupcan) {
		return helper.JsonError(c, fiber.StatusForbidden, "Accès refusé")
	}
	rows, _, err := ctl.Svc.Repo.List(helper.ReqCtx(c), dto.ListFilter{Nupcan: nupcan})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// POST /paiements/checkout — Snap token untuk paiement carte.
func (ctl *PaymentController) Checkout(c *fiber.Ctx) error {
	nupcan, ok := auth.Nupcan(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Réservé aux candidats")
	}
	var req dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
	}
	res, err := ctl.Svc.Checkout(helper.ReqCtx(c), nupcan, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Transaction créée", res)
}

/* =======================================================
   WEBHOOK
   ======================================================= */

// POST /paiements/midtrans/notification
func (ctl *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload invalide")
	}
	p, err := ctl.Svc.HandleNotification(helper.ReqCtx(c), n)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
		}
		return helper.JsonFromError(c, err)
	}
	if p == nil {
		return c.JSON(fiber.Map{"status": "ignored", "reason": "payment not found"})
	}
	return c.JSON(fiber.Map{
		"status":             "ok",
		"payment_id":         p.ID,
		"statut":             p.Statut,
		"transaction_status": n.TransactionStatus,
	})
}

/* =======================================================
   ADMIN
   ======================================================= */

// POST /paiements
func (ctl *PaymentController) Create(c *fiber.Ctx) error {
	var req dto.CreateRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	p, err := ctl.Svc.Record(helper.ReqCtx(c), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Paiement enregistré", p)
}

var paymentSortColumns = map[string]string{
	"created_at": "created_at",
	"montant":    "montant",
	"paid_at":    "paid_at",
	"statut":     "statut",
}

// GET /paiements?nupcan&statut&concours_id&page&per_page&sort_by&order
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	statut := strings.TrimSpace(c.Query("statut"))
	switch statut {
	case "", model.StatutEnAttente, model.StatutValide, model.StatutEchoue:
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "statut invalide")
	}
	concoursID, err := helper.QueryUintPtr(c, "concours_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	order, err := p.SafeOrderClause(paymentSortColumns, "created_at")
	if err != nil {
		return helper.JsonFromError(c, apperr.Server("sort paiements", err))
	}
	rows, total, err := ctl.Svc.Repo.List(helper.ReqCtx(c), dto.ListFilter{
		Nupcan:     strings.TrimSpace(c.Query("nupcan")),
		Statut:     statut,
		ConcoursID: concoursID,
		Limit:      p.Limit(),
		Offset:     p.Offset(),
		OrderBy:    order,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /paiements/summary
func (ctl *PaymentController) Summary(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Repo.Summary(helper.ReqCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("paiements summary degraded")
		return c.JSON(fiber.Map{"success": true, "data": []dto.Summary{}, "degraded": true})
	}
	return c.JSON(fiber.Map{"success": true, "data": rows, "degraded": false})
}

// GET /paiements/:id
func (ctl *PaymentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p, err := ctl.Svc.Repo.Get(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", p)
}

// PATCH /paiements/:id/statut
func (ctl *PaymentController) UpdateStatus(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	p, err := ctl.Svc.AdminUpdateStatus(helper.ReqCtx(c), id, adminID, c.IP(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Statut du paiement mis à jour", p)
}

// POST /paiements/:id/recu (multipart, lampiran opsional di "file")
// Balasan = Result dispatcher; kegagalan email bukan error HTTP.
func (ctl *PaymentController) SendReceipt(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := ctl.Svc.SendReceipt(helper.ReqCtx(c), id, helper.PickFile(c, "file", "attachment"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return c.JSON(res)
}
