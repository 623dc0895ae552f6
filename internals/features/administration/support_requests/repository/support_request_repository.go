package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/support_requests/dto"
	"gabconcours_backend/internals/features/administration/support_requests/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) WithTx(tx *gorm.DB) *Repository { return &Repository{DB: tx} }

func (r *Repository) Create(ctx context.Context, m *model.SupportRequestModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "")
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.SupportRequestModel, error) {
	var m model.SupportRequestModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Demande introuvable", "")
	}
	return &m, nil
}

// List: terbaru dulu. Limit 0 → semua.
func (r *Repository) List(ctx context.Context, f dto.ListFilter) ([]model.SupportRequestModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.SupportRequestModel{})
	if f.Statut != "" {
		q = q.Where("statut = ?", f.Statut)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Server("count support_requests", err)
	}
	q = q.Order("created_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	rows := make([]model.SupportRequestModel, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, apperr.Server("list support_requests", err)
	}
	return rows, total, nil
}

// Resolve: ouvert → traite secara kondisional. false = sudah traite.
func (r *Repository) Resolve(ctx context.Context, id, adminID uint, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.SupportRequestModel{}).
		Where("id = ? AND statut = ?", id, model.StatutOuvert).
		Updates(map[string]any{"statut": model.StatutTraite, "traite_by": adminID, "traite_at": at})
	if res.Error != nil {
		return false, apperr.Server("resolve support_request", res.Error)
	}
	return res.RowsAffected == 1, nil
}
