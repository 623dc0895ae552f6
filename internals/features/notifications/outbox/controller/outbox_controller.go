package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gabconcours_backend/internals/features/notifications/dispatcher"
	"gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/outbox/repository"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
)

type OutboxController struct {
	Repo   *repository.Repository
	Worker *dispatcher.OutboxWorker // nil → sweep manual tidak tersedia
}

func NewOutboxController(repo *repository.Repository, w *dispatcher.OutboxWorker) *OutboxController {
	return &OutboxController{Repo: repo, Worker: w}
}

// GET /notifications/outbox?status&page&per_page
func (ctl *OutboxController) List(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	switch status {
	case "", model.StatusPending, model.StatusSent, model.StatusFailed:
	default:
		return helper.JsonFromError(c, apperr.BadRequest("status invalide"))
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	rows, total, err := ctl.Repo.List(helper.ReqCtx(c), status, p.Limit(), p.Offset())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /notifications/outbox/:id/requeue
func (ctl *OutboxController) Requeue(c *fiber.Ctx) error {
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ctl.Repo.Requeue(helper.ReqCtx(c), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Repo.Get(helper.ReqCtx(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Notification replanifiée", m)
}

// POST /notifications/outbox/sweep
func (ctl *OutboxController) Sweep(c *fiber.Ctx) error {
	if ctl.Worker == nil {
		return helper.JsonFromError(c, apperr.Forbidden("Worker outbox inactif"))
	}
	n := ctl.Worker.Sweep(helper.ReqCtx(c))
	return helper.JsonOK(c, "Envoi déclenché", fiber.Map{"submitted": n})
}
