package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/admins/dto"
	"gabconcours_backend/internals/features/administration/admins/model"
	"gabconcours_backend/internals/features/administration/admins/repository"
	outboxRepo "gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
)

// ErrBadCredentials: email/password salah. Controller menjawab 401.
var ErrBadCredentials = errors.New("identifiants invalides")

type Service struct {
	DB     *gorm.DB
	Repo   *repository.Repository
	Outbox *outboxRepo.Repository
	Mail   *templates.Renderer
	Log    zerolog.Logger

	JWTSecret string
	JWTTTL    time.Duration
	Now       func() time.Time
}

func New(db *gorm.DB, mail *templates.Renderer, log zerolog.Logger) *Service {
	return &Service{
		DB:     db,
		Repo:   repository.New(db),
		Outbox: outboxRepo.New(db),
		Mail:   mail,
		Log:    log,
		JWTTTL: 12 * time.Hour,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// GeneratePassword: 16 karakter base64url dari 12 byte acak.
func GeneratePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	a, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}

	token, exp, err := auth.IssueToken(s.JWTSecret, s.JWTTTL, strconv.FormatUint(uint64(a.ID), 10), a.Role, a.EtablissementID)
	if err != nil {
		return nil, apperr.Server("issue token", err)
	}
	now := s.Now()
	if err := s.Repo.TouchLastLogin(ctx, a.ID, now); err != nil {
		s.Log.Warn().Err(err).Uint("admin_id", a.ID).Msg("last_login_at not updated")
	} else {
		a.LastLoginAt = &now
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp, Admin: *a}, nil
}

// Create membuat akun admin dan mengantre email credentials dalam satu transaksi.
func (s *Service) Create(ctx context.Context, req dto.CreateRequest) (*model.AdminModel, error) {
	password := req.Password
	if password == "" {
		var err error
		if password, err = GeneratePassword(); err != nil {
			return nil, apperr.Server("generate password", err)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Server("hash password", err)
	}

	m := req.ToModel(string(hash))
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
		email, err := s.Mail.Credentials(dto.MailAdmin(*m), password)
		if err != nil {
			return apperr.Server("render credentials", err)
		}
		_, err = s.Outbox.Enqueue(ctx, tx, email, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Uint("admin_id", m.ID).Str("role", m.Role).Msg("admin created")
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.AdminModel, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f dto.ListFilter) ([]model.AdminModel, error) {
	return s.Repo.List(ctx, f)
}

func (s *Service) ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(req.CurrentPassword)) != nil {
		return apperr.Forbidden("Mot de passe actuel incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Server("hash password", err)
	}
	return s.Repo.UpdatePassword(ctx, id, string(hash))
}
