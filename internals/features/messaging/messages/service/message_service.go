package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	actionDTO "gabconcours_backend/internals/features/administration/admin_actions/dto"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	actionRepo "gabconcours_backend/internals/features/administration/admin_actions/repository"
	candRepo "gabconcours_backend/internals/features/candidatures/candidats/repository"
	"gabconcours_backend/internals/features/messaging/messages/dto"
	"gabconcours_backend/internals/features/messaging/messages/model"
	"gabconcours_backend/internals/features/messaging/messages/repository"
	"gabconcours_backend/internals/helpers/apperr"
)

type Service struct {
	DB        *gorm.DB
	Repo      *repository.Repository
	Candidats *candRepo.Repository
	Audit     *actionRepo.Repository
	Log       zerolog.Logger

	Now func() time.Time
}

func New(db *gorm.DB, loc *time.Location, log zerolog.Logger) *Service {
	return &Service{
		DB:        db,
		Repo:      repository.New(db),
		Candidats: candRepo.New(db, loc),
		Audit:     actionRepo.New(db, loc),
		Log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) authorize(r dto.Reader, nupcan string) error {
	if r.IsAdmin() || r.Nupcan == nupcan {
		return nil
	}
	return apperr.Forbidden("Conversation d'un autre candidat")
}

// Conversation mengembalikan thread naik menurut waktu; since untuk polling.
func (s *Service) Conversation(ctx context.Context, r dto.Reader, nupcan string, since *time.Time) ([]model.MessageModel, error) {
	nupcan = strings.TrimSpace(nupcan)
	if err := s.authorize(r, nupcan); err != nil {
		return nil, err
	}
	if _, err := s.Candidats.GetByNupcan(ctx, nupcan); err != nil {
		return nil, err
	}
	return s.Repo.Conversation(ctx, dto.ConversationFilter{Nupcan: nupcan, Since: since})
}

func (s *Service) SendFromCandidat(ctx context.Context, nupcan string, req dto.SendRequest) (*model.MessageModel, error) {
	if _, err := s.Candidats.GetByNupcan(ctx, nupcan); err != nil {
		return nil, err
	}
	m := &model.MessageModel{
		Nupcan:     nupcan,
		Expediteur: model.ExpediteurCandidat,
		Sujet:      strings.TrimSpace(req.Sujet),
		Message:    strings.TrimSpace(req.Message),
		Statut:     model.StatutNonLu,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Reply: pesan admin + audit reponse_message dalam satu transaksi.
func (s *Service) Reply(ctx context.Context, adminID uint, req dto.ReplyRequest, ip string) (*model.MessageModel, error) {
	nupcan := strings.TrimSpace(req.Nupcan)
	if _, err := s.Candidats.GetByNupcan(ctx, nupcan); err != nil {
		return nil, err
	}
	m := &model.MessageModel{
		Nupcan:     nupcan,
		AdminID:    &adminID,
		Expediteur: model.ExpediteurAdmin,
		Sujet:      strings.TrimSpace(req.Sujet),
		Message:    strings.TrimSpace(req.Message),
		Statut:     model.StatutNonLu,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
		_, err := s.Audit.RecordTx(ctx, tx, actionDTO.Entry{
			AdminID:        adminID,
			ActionType:     actionModel.ActionReponseMessage,
			EntityType:     "message",
			EntityID:       &m.ID,
			CandidatNupcan: nupcan,
			Description:    "Réponse au candidat " + nupcan,
			Details:        map[string]any{"sujet": m.Sujet},
			IPAddress:      ip,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MarkRead hanya berlaku untuk pesan dari pihak lawan; pesan sendiri dikembalikan apa adanya.
func (s *Service) MarkRead(ctx context.Context, r dto.Reader, id uint) (*model.MessageModel, error) {
	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(r, m.Nupcan); err != nil {
		return nil, err
	}
	if m.Expediteur != r.Incoming() || m.Statut == model.StatutLu {
		return m, nil
	}
	if err := s.Repo.MarkRead(ctx, id, s.Now()); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) UnreadCount(ctx context.Context, r dto.Reader) (int64, error) {
	return s.Repo.CountUnread(ctx, r.Nupcan, r.Incoming())
}

func (s *Service) Conversations(ctx context.Context) ([]dto.Conversation, error) {
	return s.Repo.Conversations(ctx)
}
