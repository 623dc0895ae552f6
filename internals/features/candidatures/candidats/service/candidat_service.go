package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	actionDTO "gabconcours_backend/internals/features/administration/admin_actions/dto"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	actionRepo "gabconcours_backend/internals/features/administration/admin_actions/repository"
	actionSvc "gabconcours_backend/internals/features/administration/admin_actions/service"
	"gabconcours_backend/internals/features/candidatures/candidats/dto"
	"gabconcours_backend/internals/features/candidatures/candidats/model"
	"gabconcours_backend/internals/features/candidatures/candidats/repository"
	"gabconcours_backend/internals/features/candidatures/candidature"
	catRepo "gabconcours_backend/internals/features/concours/catalogue/repository"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/constants"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/middlewares/auth"
)

const photoDir = "candidats/photos"

// ErrBadCredentials: NUPCAN/email tidak cocok. Controller menjawab 401.
var ErrBadCredentials = errors.New("identifiants invalides")

type Service struct {
	DB        *gorm.DB
	Repo      *repository.Repository
	Catalogue *catRepo.Repository
	Outbox    *outboxRepo.Repository
	Audit     *actionSvc.Service
	Mail      *templates.Renderer
	Store     storage.Store
	Log       zerolog.Logger

	JWTSecret string
	JWTTTL    time.Duration
}

func New(db *gorm.DB, loc *time.Location, store storage.Store, mail *templates.Renderer, log zerolog.Logger) *Service {
	return &Service{
		DB:        db,
		Repo:      repository.New(db, loc),
		Catalogue: catRepo.New(db),
		Outbox:    outboxRepo.New(db),
		Audit:     actionSvc.New(actionRepo.New(db, loc), log),
		Mail:      mail,
		Store:     store,
		Log:       log,
		JWTTTL:    12 * time.Hour,
	}
}

// NewNupcan: GABCON-<tahun>-<8 hex kapital>.
func NewNupcan(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("GABCON-%d-%s", now.Year(), strings.ToUpper(raw[:8]))
}

func (s *Service) concoursLabel(ctx context.Context, req dto.RegisterRequest) (string, error) {
	if req.ConcoursID == nil {
		if req.FiliereID != nil {
			return "", apperr.BadRequest("filiere_id exige concours_id")
		}
		return "", nil
	}
	cnc, err := s.Catalogue.GetConcours(ctx, *req.ConcoursID)
	if err != nil {
		return "", err
	}
	if !cnc.IsActive {
		return "", apperr.Forbidden("Les inscriptions à ce concours sont fermées")
	}
	if req.FiliereID != nil {
		ok, err := s.Catalogue.HasFiliere(ctx, cnc.ID, *req.FiliereID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", apperr.BadRequest("Filière non proposée pour ce concours")
		}
	}
	return cnc.Libelle, nil
}

// Register membuat candidat + email konfirmasi (outbox) dalam satu transaksi.
// Foto (opsional) disimpan lebih dulu dan dihapus lagi bila transaksi gagal.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest, photo *multipart.FileHeader) (*model.CandidatModel, error) {
	label, err := s.concoursLabel(ctx, req)
	if err != nil {
		return nil, err
	}

	var photoKey string
	if photo != nil {
		if photoKey, err = storage.SavePhoto(ctx, s.Store, photoDir, photo); err != nil {
			return nil, err
		}
	}

	var m *model.CandidatModel
	for attempt := 0; attempt < 3; attempt++ {
		m = req.ToModel(NewNupcan(time.Now()))
		m.Photo = photoKey
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.WithTx(tx).Create(ctx, m); err != nil {
				return err
			}
			email, err := s.Mail.Inscription(dto.MailCandidat(*m), label)
			if err != nil {
				return apperr.Server("render inscription", err)
			}
			_, err = s.Outbox.Enqueue(ctx, tx, email, nil)
			return err
		})
		// tabrakan NUPCAN → coba lagi dengan kode baru
		if err == nil || apperr.KindOf(err) != apperr.KindConflict {
			break
		}
	}
	if err != nil {
		if photoKey != "" {
			if derr := s.Store.Delete(ctx, photoKey); derr != nil {
				s.Log.Warn().Err(derr).Str("key", photoKey).Msg("orphan photo not removed")
			}
		}
		return nil, err
	}
	s.Log.Info().Str("nupcan", m.Nupcan).Msg("candidat registered")
	return m, nil
}

func (s *Service) Get(ctx context.Context, nupcan string) (*model.CandidatModel, error) {
	return s.Repo.GetByNupcan(ctx, nupcan)
}

func (s *Service) Candidature(ctx context.Context, nupcan string) (*candidature.Status, error) {
	return candidature.Compute(ctx, s.DB, nupcan)
}

// Update: koreksi kontak oleh admin; audit best-effort (autre).
func (s *Service) Update(ctx context.Context, nupcan string, adminID uint, ip string, req dto.UpdateRequest) (*model.CandidatModel, error) {
	fields := req.Fields()
	m, err := s.Repo.Update(ctx, nupcan, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return m, nil
	}
	s.Audit.RecordBestEffort(ctx, actionDTO.Entry{
		AdminID:        adminID,
		ActionType:     actionModel.ActionAutre,
		EntityType:     "candidat",
		EntityID:       &m.ID,
		CandidatNupcan: m.Nupcan,
		Description:    "Mise à jour du dossier candidat",
		Details:        fields,
		IPAddress:      ip,
	})
	return m, nil
}

func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	m, err := s.Repo.GetByNupcan(ctx, req.Nupcan)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !strings.EqualFold(m.Email, strings.TrimSpace(req.Email)) {
		return nil, ErrBadCredentials
	}
	token, exp, err := auth.IssueToken(s.JWTSecret, s.JWTTTL, m.Nupcan, constants.RoleCandidat, nil)
	if err != nil {
		return nil, apperr.Server("issue token", err)
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp, Candidat: *m}, nil
}

var exportHeader = []any{"NUPCAN", "Nom", "Prénom", "Email", "Téléphone", "Date de naissance", "Lieu de naissance", "Concours", "Inscrit le"}

func (s *Service) ExportXLSX(ctx context.Context, f dto.ListFilter) ([]byte, error) {
	f.Limit, f.Offset = 0, 0
	rows, _, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Candidats"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := file.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, m := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		var dtn, cnc any
		if m.DateNaissance != nil {
			dtn = m.DateNaissance.Format("2006-01-02")
		}
		if m.ConcoursID != nil {
			cnc = *m.ConcoursID
		}
		row := []any{
			m.Nupcan, m.Nom, m.Prenom, m.Email, m.Telephone, dtn, m.LieuNaissance, cnc,
			m.CreatedAt.In(s.Repo.Loc).Format(time.DateTime),
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "D", "D", 32)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
