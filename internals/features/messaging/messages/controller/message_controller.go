package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"gabconcours_backend/internals/features/messaging/messages/dto"
	"gabconcours_backend/internals/features/messaging/messages/service"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
)

type MessageController struct {
	Svc *service.Service
}

func NewMessageController(svc *service.Service) *MessageController {
	return &MessageController{Svc: svc}
}

func reader(c *fiber.Ctx) (dto.Reader, bool) {
	if id, ok := auth.AdminID(c); ok && auth.IsAdmin(c) {
		return dto.Reader{AdminID: id}, true
	}
	if n, ok := auth.Nupcan(c); ok {
		return dto.Reader{Nupcan: n}, true
	}
	return dto.Reader{}, false
}

// since: RFC3339; kosong → seluruh thread.
func parseSince(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, apperr.BadRequest("since invalide (RFC3339 attendu)")
	}
	t = t.UTC()
	return &t, nil
}

// GET /messaging-realtime/conversation/:nupcan?since=
func (ctl *MessageController) Conversation(c *fiber.Ctx) error {
	r, ok := reader(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Non authentifié")
	}
	since, err := parseSince(c.Query("since"))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ctl.Svc.Conversation(helper.ReqCtx(c), r, c.Params("nupcan"), since)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// POST /messaging-realtime/candidat/send
func (ctl *MessageController) Send(c *fiber.Ctx) error {
	nupcan, ok := auth.Nupcan(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Réservé aux candidats")
	}
	var req dto.SendRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.SendFromCandidat(helper.ReqCtx(c), nupcan, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Message envoyé", m)
}

// POST /messaging-realtime/admin/reply
func (ctl *MessageController) Reply(c *fiber.Ctx) error {
	adminID, ok := auth.AdminID(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Administrateur non authentifié")
	}
	var req dto.ReplyRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.Reply(helper.ReqCtx(c), adminID, req, c.IP())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Réponse envoyée", m)
}

// PUT /messaging-realtime/:id/read
func (ctl *MessageController) MarkRead(c *fiber.Ctx) error {
	r, ok := reader(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Non authentifié")
	}
	id, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ctl.Svc.MarkRead(helper.ReqCtx(c), r, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Message marqué comme lu", m)
}

// GET /messaging-realtime/unread-count
func (ctl *MessageController) UnreadCount(c *fiber.Ctx) error {
	r, ok := reader(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Non authentifié")
	}
	n, err := ctl.Svc.UnreadCount(helper.ReqCtx(c), r)
	if err != nil {
		log.Error().Err(err).Msg("unread-count degraded")
		return c.JSON(fiber.Map{"success": true, "data": dto.UnreadCount{}, "degraded": true})
	}
	return helper.JsonOK(c, "", dto.UnreadCount{Count: n})
}

// GET /messaging-realtime/admin/conversations
func (ctl *MessageController) Conversations(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Conversations(helper.ReqCtx(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}
