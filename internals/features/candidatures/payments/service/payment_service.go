package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	actionDTO "gabconcours_backend/internals/features/administration/admin_actions/dto"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	actionRepo "gabconcours_backend/internals/features/administration/admin_actions/repository"
	actionSvc "gabconcours_backend/internals/features/administration/admin_actions/service"
	candDTO "gabconcours_backend/internals/features/candidatures/candidats/dto"
	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	candRepo "gabconcours_backend/internals/features/candidatures/candidats/repository"
	"gabconcours_backend/internals/features/candidatures/candidature"
	"gabconcours_backend/internals/features/candidatures/payments/dto"
	"gabconcours_backend/internals/features/candidatures/payments/model"
	"gabconcours_backend/internals/features/candidatures/payments/repository"
	catRepo "gabconcours_backend/internals/features/concours/catalogue/repository"
	"gabconcours_backend/internals/features/notifications/dispatcher"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/storage"
)

type Service struct {
	DB         *gorm.DB
	Repo       *repository.Repository
	Candidats  *candRepo.Repository
	Catalogue  *catRepo.Repository
	Outbox     *outboxRepo.Repository
	Audit      *actionSvc.Service
	Mail       *templates.Renderer
	Dispatcher *dispatcher.Dispatcher
	Store      storage.Store
	Snap       SnapGateway // nil → checkout kartu tidak tersedia
	ServerKey  string
	Log        zerolog.Logger

	Now func() time.Time
}

func New(db *gorm.DB, loc *time.Location, store storage.Store, mail *templates.Renderer, d *dispatcher.Dispatcher, log zerolog.Logger) *Service {
	return &Service{
		DB:         db,
		Repo:       repository.New(db),
		Candidats:  candRepo.New(db, loc),
		Catalogue:  catRepo.New(db),
		Outbox:     outboxRepo.New(db),
		Audit:      actionSvc.New(actionRepo.New(db, loc), log),
		Mail:       mail,
		Dispatcher: d,
		Store:      store,
		Log:        log,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func mailPaiement(p model.PaymentModel) templates.Paiement {
	at := p.CreatedAt
	if p.PaidAt != nil {
		at = *p.PaidAt
	}
	return templates.Paiement{Montant: p.Montant, Methode: p.Methode, Reference: p.Reference, Date: at}
}

/* =======================================================
   RECORD / STATUS
   ======================================================= */

// Record mencatat paiement. Reference unik → Conflict.
// Paiement yang langsung valide ikut memicu email konfirmasi.
func (s *Service) Record(ctx context.Context, req dto.CreateRequest) (*model.PaymentModel, error) {
	if _, err := s.Candidats.GetByNupcan(ctx, req.Nupcan); err != nil {
		return nil, err
	}
	if _, err := s.Catalogue.GetConcours(ctx, req.ConcoursID); err != nil {
		return nil, err
	}
	m := req.ToModel()
	if m.Statut == model.StatutValide {
		now := s.Now()
		m.PaidAt = &now
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before *candidature.Status
		if m.Statut == model.StatutValide {
			var err error
			if before, err = candidature.Compute(ctx, tx, m.Nupcan); err != nil {
				return err
			}
		}
		if err := s.Repo.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
		if m.Statut == model.StatutValide {
			return s.onValidated(ctx, tx, *m, before)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus: transisi ke valide (sekali) mengantre email konfirmasi
// dan, bila dossier jadi lengkap, candidature_complete.
func (s *Service) UpdateStatus(ctx context.Context, id uint, req dto.UpdateStatusRequest) (*model.PaymentModel, error) {
	var out *model.PaymentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		becameValide := req.Statut == model.StatutValide && p.Statut != model.StatutValide

		var before *candidature.Status
		if becameValide {
			if before, err = candidature.Compute(ctx, tx, p.Nupcan); err != nil {
				return err
			}
		}
		if err := repo.UpdateStatus(ctx, id, req.Statut, req.Reference, s.Now()); err != nil {
			return err
		}
		if out, err = repo.Get(ctx, id); err != nil {
			return err
		}
		if becameValide {
			return s.onValidated(ctx, tx, *out, before)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Uint("payment_id", out.ID).Str("statut", out.Statut).Msg("payment status updated")
	return out, nil
}

// AdminUpdateStatus: UpdateStatus dari dashboard, dicatat sebagai aksi autre.
func (s *Service) AdminUpdateStatus(ctx context.Context, id, adminID uint, ip string, req dto.UpdateStatusRequest) (*model.PaymentModel, error) {
	p, err := s.UpdateStatus(ctx, id, req)
	if err != nil {
		return nil, err
	}
	details := map[string]any{"statut": p.Statut, "reference": p.Reference}
	s.Audit.RecordBestEffort(ctx, actionDTO.Entry{
		AdminID:        adminID,
		ActionType:     actionModel.ActionAutre,
		EntityType:     "paiement",
		EntityID:       &p.ID,
		CandidatNupcan: p.Nupcan,
		Description:    fmt.Sprintf("Statut du paiement %s → %s", p.Reference, p.Statut),
		Details:        details,
		IPAddress:      ip,
	})
	return p, nil
}

func (s *Service) onValidated(ctx context.Context, tx *gorm.DB, p model.PaymentModel, before *candidature.Status) error {
	cand, err := s.Candidats.WithTx(tx).GetByNupcan(ctx, p.Nupcan)
	if err != nil {
		return err
	}
	label := ""
	if cnc, err := s.Catalogue.GetConcours(ctx, p.ConcoursID); err == nil {
		label = cnc.Libelle
	}
	mc := candDTO.MailCandidat(*cand)
	email, err := s.Mail.PaiementConfirme(mc, mailPaiement(p), label)
	if err != nil {
		return apperr.Server("render paiement", err)
	}
	if _, err := s.Outbox.Enqueue(ctx, tx, email, nil); err != nil {
		return err
	}

	if before == nil || before.Complete {
		return nil
	}
	after, err := candidature.Compute(ctx, tx, p.Nupcan)
	if err != nil {
		return err
	}
	if !after.Complete {
		return nil
	}
	email, err = s.Mail.CandidatureComplete(mc, after.Concours)
	if err != nil {
		return apperr.Server("render candidature", err)
	}
	_, err = s.Outbox.Enqueue(ctx, tx, email, nil)
	return err
}

/* =======================================================
   MIDTRANS
   ======================================================= */

// Checkout membuat paiement carte en_attente + Snap token.
func (s *Service) Checkout(ctx context.Context, nupcan string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.Snap == nil {
		return nil, apperr.Forbidden("Paiement par carte indisponible")
	}
	cand, err := s.Candidats.GetByNupcan(ctx, nupcan)
	if err != nil {
		return nil, err
	}
	concoursID := req.ConcoursID
	if concoursID == nil {
		concoursID = cand.ConcoursID
	}
	if concoursID == nil {
		return nil, apperr.BadRequest("concours_id requis")
	}
	cnc, err := s.Catalogue.GetConcours(ctx, *concoursID)
	if err != nil {
		return nil, err
	}
	if cnc.FraisDossier <= 0 {
		return nil, apperr.BadRequest("Ce concours ne requiert pas de frais de dossier")
	}

	p := &model.PaymentModel{
		Nupcan:     cand.Nupcan,
		ConcoursID: cnc.ID,
		Montant:    cnc.FraisDossier,
		Methode:    model.MethodeCarte,
		Statut:     model.StatutEnAttente,
		Reference:  fmt.Sprintf("%s-%d", cand.Nupcan, s.Now().UnixNano()),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	snapReq, err := buildSnapRequest(*p, cnc.Libelle, customerOf(*cand))
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	resp, merr := s.Snap.CreateTransaction(snapReq)
	if merr != nil {
		// paiement dibiarkan en_attente → tandai echoue agar tidak menggantung
		_ = s.Repo.UpdateStatus(ctx, p.ID, model.StatutEchoue, nil, s.Now())
		return nil, apperr.Server("midtrans create transaction", merr)
	}
	if err := s.Repo.SetSnapToken(ctx, p.ID, resp.Token); err != nil {
		return nil, err
	}
	p.SnapToken = &resp.Token
	return &dto.CheckoutResponse{Payment: *p, SnapToken: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func customerOf(c candModel.CandidatModel) CustomerInput {
	return CustomerInput{FirstName: c.Prenom, LastName: c.Nom, Email: c.Email, Phone: c.Telephone}
}

// HandleNotification memproses webhook Snap. Signature salah → Forbidden.
// Order tak dikenal → (nil, nil) supaya Midtrans tidak retry terus.
func (s *Service) HandleNotification(ctx context.Context, n dto.MidtransNotification) (*model.PaymentModel, error) {
	if !SignatureValid(n, s.ServerKey) {
		return nil, apperr.Forbidden("invalid signature")
	}
	p, err := s.Repo.GetByReference(ctx, n.OrderID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			s.Log.Warn().Str("order_id", n.OrderID).Msg("midtrans notification for unknown order")
			return nil, nil
		}
		return nil, err
	}
	statut, ok := MapMidtransStatus(n.TransactionStatus, n.FraudStatus)
	if !ok || statut == p.Statut {
		return p, nil
	}
	return s.UpdateStatus(ctx, p.ID, dto.UpdateStatusRequest{Statut: statut})
}

/* =======================================================
   RECU
   ======================================================= */

// SendReceipt mengirim reçu langsung (bukan outbox) dan mengembalikan Result
// dispatcher apa adanya. Lampiran opsional disimpan dulu di storage.
func (s *Service) SendReceipt(ctx context.Context, paymentID uint, attachment *multipart.FileHeader) (dispatcher.Result, error) {
	p, err := s.Repo.Get(ctx, paymentID)
	if err != nil {
		return dispatcher.Result{}, err
	}
	if p.Statut != model.StatutValide {
		return dispatcher.Result{}, apperr.Forbidden("Reçu disponible uniquement pour un paiement validé")
	}
	cand, err := s.Candidats.GetByNupcan(ctx, p.Nupcan)
	if err != nil {
		return dispatcher.Result{}, err
	}

	var key string
	if attachment != nil {
		if key, _, err = storage.SaveDocument(ctx, s.Store, "recus/"+strings.TrimSpace(p.Nupcan), attachment); err != nil {
			return dispatcher.Result{}, err
		}
	}
	email, err := s.Mail.Recu(candDTO.MailCandidat(*cand), mailPaiement(*p), key != "")
	if err != nil {
		return dispatcher.Result{}, apperr.Server("render recu", err)
	}
	if key != "" {
		return s.Dispatcher.SendWithStoredAttachment(ctx, email, key), nil
	}
	return s.Dispatcher.Send(ctx, email), nil
}
