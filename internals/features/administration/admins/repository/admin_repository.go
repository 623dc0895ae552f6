package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/admins/dto"
	"gabconcours_backend/internals/features/administration/admins/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) WithTx(tx *gorm.DB) *Repository { return &Repository{DB: tx} }

func (r *Repository) Create(ctx context.Context, m *model.AdminModel) error {
	err := r.DB.WithContext(ctx).Create(m).Error
	return apperr.FromDB(err, "", "Email déjà utilisé par un administrateur")
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.AdminModel, error) {
	var m model.AdminModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Administrateur introuvable", "")
	}
	return &m, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*model.AdminModel, error) {
	var m model.AdminModel
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, apperr.FromDB(err, "Administrateur introuvable", "")
	}
	return &m, nil
}

func (r *Repository) List(ctx context.Context, f dto.ListFilter) ([]model.AdminModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.AdminModel{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.EtablissementID != nil {
		q = q.Where("etablissement_id = ?", *f.EtablissementID)
	}
	var rows []model.AdminModel
	if err := q.Order("nom ASC, prenom ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Server("list admins", err)
	}
	return rows, nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.AdminModel{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
	return apperr.FromDB(err, "", "")
}

func (r *Repository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&model.AdminModel{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return apperr.Server("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Administrateur introuvable")
	}
	return nil
}
