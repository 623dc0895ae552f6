package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	actionDTO "gabconcours_backend/internals/features/administration/admin_actions/dto"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	actionRepo "gabconcours_backend/internals/features/administration/admin_actions/repository"
	candDTO "gabconcours_backend/internals/features/candidatures/candidats/dto"
	candRepo "gabconcours_backend/internals/features/candidatures/candidats/repository"
	"gabconcours_backend/internals/features/candidatures/candidature"
	"gabconcours_backend/internals/features/candidatures/documents/dto"
	"gabconcours_backend/internals/features/candidatures/documents/model"
	"gabconcours_backend/internals/features/candidatures/documents/repository"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/storage"
)

// Service menjalankan siklus hidup dokumen:
// en_attente → valide | rejete (admin), rejete → en_attente (penggantian oleh candidat).
type Service struct {
	DB        *gorm.DB
	Repo      *repository.Repository
	Candidats *candRepo.Repository
	Audit     *actionRepo.Repository
	Outbox    *outboxRepo.Repository
	Mail      *templates.Renderer
	Store     storage.Store
	Log       zerolog.Logger

	Now func() time.Time
}

func New(db *gorm.DB, loc *time.Location, store storage.Store, mail *templates.Renderer, log zerolog.Logger) *Service {
	return &Service{
		DB:        db,
		Repo:      repository.New(db),
		Candidats: candRepo.New(db, loc),
		Audit:     actionRepo.New(db, loc),
		Outbox:    outboxRepo.New(db),
		Mail:      mail,
		Store:     store,
		Log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func documentDir(nupcan string) string { return "documents/" + nupcan }

/* =======================================================
   UPLOAD
   ======================================================= */

func (s *Service) Upload(ctx context.Context, nupcan string, req dto.UploadRequest, fh *multipart.FileHeader) (*model.DocumentModel, error) {
	req.Normalize()
	if fh == nil {
		return nil, apperr.BadRequest("Fichier manquant")
	}
	cand, err := s.Candidats.GetByNupcan(ctx, nupcan)
	if err != nil {
		return nil, err
	}

	key, ct, err := storage.SaveDocument(ctx, s.Store, documentDir(cand.Nupcan), fh)
	if err != nil {
		return nil, err
	}

	concoursID := req.ConcoursID
	if concoursID == nil {
		concoursID = cand.ConcoursID
	}
	m := &model.DocumentModel{
		Nupcan:      cand.Nupcan,
		ConcoursID:  concoursID,
		NomDoc:      req.NomDoc,
		Type:        req.Type,
		NomFichier:  key,
		ContentType: ct,
		Statut:      model.StatutEnAttente,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		s.removeBlob(ctx, key, "upload rollback")
		return nil, err
	}
	return m, nil
}

/* =======================================================
   DECIDE (valide / rejete)
   ======================================================= */

// Decide menulis statut, audit, dan notifikasi dalam satu transaksi:
// gagal salah satunya → tidak ada yang tersimpan.
func (s *Service) Decide(ctx context.Context, d dto.Decision) (*model.DocumentModel, error) {
	if d.Statut != model.StatutValide && d.Statut != model.StatutRejete {
		return nil, apperr.BadRequest("statut doit être valide ou rejete")
	}
	if d.AdminID == 0 {
		return nil, apperr.BadRequest("admin_id requis")
	}
	comment := d.CommentaireText()
	if d.Rejected() && comment == "" {
		s.Log.Warn().Uint("document_id", d.DocumentID).Uint("admin_id", d.AdminID).
			Msg("document rejected without commentaire")
	}
	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}

	var out *model.DocumentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		if err := repo.UpdateFields(ctx, d.DocumentID, d.Fields); err != nil {
			return err
		}
		doc, err := repo.Get(ctx, d.DocumentID)
		if err != nil {
			return err
		}
		cand, err := s.Candidats.WithTx(tx).GetByNupcan(ctx, doc.Nupcan)
		if err != nil {
			return err
		}

		var before *candidature.Status
		if d.Statut == model.StatutValide {
			if before, err = candidature.Compute(ctx, tx, doc.Nupcan); err != nil {
				return err
			}
		}

		previous := doc.Statut
		if err := repo.ApplyDecision(ctx, doc.ID, d.Statut, commentPtr, d.AdminID, s.Now()); err != nil {
			return err
		}

		actionType := actionModel.ActionValidationDocument
		desc := "Validation du document « " + doc.NomDoc + " »"
		if d.Rejected() {
			actionType = actionModel.ActionRejetDocument
			desc = "Rejet du document « " + doc.NomDoc + " »"
		}
		if _, err := s.Audit.RecordTx(ctx, tx, actionDTO.Entry{
			AdminID:        d.AdminID,
			ActionType:     actionType,
			EntityType:     "document",
			EntityID:       &doc.ID,
			CandidatNupcan: doc.Nupcan,
			Description:    desc,
			Details: map[string]any{
				"ancien_statut":  previous,
				"nouveau_statut": d.Statut,
				"type":           doc.Type,
				"commentaire":    comment,
			},
			IPAddress: d.IPAddress,
		}); err != nil {
			return err
		}

		mc := candDTO.MailCandidat(*cand)
		md := templates.Document{NomDoc: doc.NomDoc, Type: doc.Type, Commentaire: comment}
		var email templates.Email
		if d.Rejected() {
			email, err = s.Mail.DocumentRejete(mc, md)
		} else {
			email, err = s.Mail.DocumentValide(mc, md)
		}
		if err != nil {
			return apperr.Server("render document email", err)
		}
		if _, err := s.Outbox.Enqueue(ctx, tx, email, nil); err != nil {
			return err
		}

		if before != nil && !before.Complete {
			after, err := candidature.Compute(ctx, tx, doc.Nupcan)
			if err != nil {
				return err
			}
			if after.Complete {
				email, err := s.Mail.CandidatureComplete(mc, after.Concours)
				if err != nil {
					return apperr.Server("render candidature email", err)
				}
				if _, err := s.Outbox.Enqueue(ctx, tx, email, nil); err != nil {
					return err
				}
			}
		}

		out, err = repo.Get(ctx, doc.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Uint("document_id", out.ID).Str("statut", out.Statut).Uint("admin_id", d.AdminID).Msg("document decided")
	return out, nil
}

/* =======================================================
   REPLACE (rejete → en_attente)
   ======================================================= */

// Replace: simpan berkas baru → update bersyarat (statut masih rejete) →
// pindahkan berkas lama ke trash. Berkas lama tidak pernah hilang sebelum
// berkas baru tercatat.
func (s *Service) Replace(ctx context.Context, id uint, nupcan string, fh *multipart.FileHeader, nomdoc string) (*model.DocumentModel, error) {
	if fh == nil {
		return nil, apperr.BadRequest("Fichier manquant")
	}
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Nupcan != nupcan {
		return nil, apperr.Forbidden("Ce document appartient à un autre candidat")
	}
	if doc.Statut != model.StatutRejete {
		return nil, apperr.Forbidden("Seul un document rejeté peut être remplacé")
	}

	key, ct, err := storage.SaveDocument(ctx, s.Store, documentDir(nupcan), fh)
	if err != nil {
		return nil, err
	}

	ok, err := s.Repo.ResetAfterReplace(ctx, doc.ID, nupcan, key, ct, nomdoc)
	if err != nil {
		s.removeBlob(ctx, key, "replace rollback")
		return nil, err
	}
	if !ok {
		// request lain lebih dulu mengganti / statut berubah
		s.removeBlob(ctx, key, "replace lost race")
		return nil, apperr.Forbidden("Seul un document rejeté peut être remplacé")
	}

	if trashKey, err := s.Store.MoveToTrash(ctx, doc.NomFichier); err != nil {
		s.Log.Warn().Err(err).Str("key", doc.NomFichier).Uint("document_id", doc.ID).
			Msg("old document file not moved to trash")
	} else {
		s.Log.Info().Str("from", doc.NomFichier).Str("to", trashKey).Msg("old document file trashed")
	}

	return s.Repo.Get(ctx, doc.ID)
}

/* =======================================================
   METADATA
   ======================================================= */

// UpdateMetadata: nomdoc/type/commentaire bebas. statut valide/rejete
// diteruskan ke Decide; en_attente hanya lewat Replace.
func (s *Service) UpdateMetadata(ctx context.Context, id, adminID uint, req dto.UpdateMetadataRequest, ip string) (*model.DocumentModel, error) {
	if req.Statut != nil {
		st := strings.TrimSpace(*req.Statut)
		if !model.IsValidStatut(st) {
			return nil, apperr.BadRequest("statut invalide")
		}
		if st == model.StatutEnAttente {
			return nil, apperr.Forbidden("Le statut en_attente est réservé au remplacement du document")
		}
	}
	if req.Statut != nil {
		return s.Decide(ctx, dto.Decision{
			DocumentID:  id,
			AdminID:     adminID,
			Statut:      strings.TrimSpace(*req.Statut),
			Commentaire: req.Commentaire,
			IPAddress:   ip,
			Fields:      req.Fields(),
		})
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateFields(ctx, id, req.Fields()); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

/* =======================================================
   READ
   ======================================================= */

func (s *Service) Get(ctx context.Context, id uint) (*model.DocumentModel, error) {
	return s.Repo.Get(ctx, id)
}

// Open: stream isi berkas dokumen.
func (s *Service) Open(ctx context.Context, doc *model.DocumentModel) (io.ReadCloser, error) {
	rc, err := s.Store.Open(ctx, doc.NomFichier)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.NotFound("Fichier introuvable")
		}
		return nil, apperr.Server("open document", err)
	}
	return rc, nil
}

func (s *Service) removeBlob(ctx context.Context, key, reason string) {
	if err := s.Store.Delete(ctx, key); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Str("reason", reason).Msg("blob not removed")
	}
}
