package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	actionDTO "gabconcours_backend/internals/features/administration/admin_actions/dto"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	actionRepo "gabconcours_backend/internals/features/administration/admin_actions/repository"
	"gabconcours_backend/internals/features/administration/support_requests/dto"
	"gabconcours_backend/internals/features/administration/support_requests/model"
	"gabconcours_backend/internals/features/administration/support_requests/repository"
	"gabconcours_backend/internals/helpers/apperr"
)

type Service struct {
	DB    *gorm.DB
	Repo  *repository.Repository
	Audit *actionRepo.Repository
	Log   zerolog.Logger

	Now func() time.Time
}

func New(db *gorm.DB, loc *time.Location, log zerolog.Logger) *Service {
	return &Service{
		DB:    db,
		Repo:  repository.New(db),
		Audit: actionRepo.New(db, loc),
		Log:   log,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, req dto.CreateRequest) (*model.SupportRequestModel, error) {
	m := req.ToModel()
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.Log.Info().Uint("support_id", m.ID).Msg("support request received")
	return m, nil
}

func (s *Service) List(ctx context.Context, f dto.ListFilter) ([]model.SupportRequestModel, int64, error) {
	if f.Statut != "" && f.Statut != model.StatutOuvert && f.Statut != model.StatutTraite {
		return nil, 0, apperr.BadRequest("statut invalide")
	}
	return s.Repo.List(ctx, f)
}

// Resolve menandai demande traite + audit "autre" dalam satu transaksi.
// Demande yang sudah traite → Forbidden.
func (s *Service) Resolve(ctx context.Context, id, adminID uint, req dto.ResolveRequest, ip string) (*model.SupportRequestModel, error) {
	var out *model.SupportRequestModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		cur, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		ok, err := repo.Resolve(ctx, id, adminID, s.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Forbidden("Demande déjà traitée")
		}

		entry := actionDTO.Entry{
			AdminID:     adminID,
			ActionType:  actionModel.ActionAutre,
			EntityType:  "support_request",
			EntityID:    &cur.ID,
			Description: "Demande de support #" + strconv.FormatUint(uint64(cur.ID), 10) + " traitée",
			Details:     map[string]any{"sujet": cur.Sujet, "commentaire": req.Commentaire},
			IPAddress:   ip,
		}
		if cur.Nupcan != nil {
			entry.CandidatNupcan = *cur.Nupcan
		}
		if _, err := s.Audit.RecordTx(ctx, tx, entry); err != nil {
			return err
		}
		out, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
