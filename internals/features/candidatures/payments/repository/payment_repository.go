package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/candidatures/payments/dto"
	"gabconcours_backend/internals/features/candidatures/payments/model"
	"gabconcours_backend/internals/helpers/apperr"
)

const conflictReference = "Référence de paiement déjà utilisée"

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) WithTx(tx *gorm.DB) *Repository { return &Repository{DB: tx} }

func (r *Repository) Create(ctx context.Context, m *model.PaymentModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", conflictReference)
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.PaymentModel, error) {
	var m model.PaymentModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Paiement introuvable", "")
	}
	return &m, nil
}

func (r *Repository) GetByReference(ctx context.Context, ref string) (*model.PaymentModel, error) {
	var m model.PaymentModel
	if err := r.DB.WithContext(ctx).Where("reference = ?", strings.TrimSpace(ref)).First(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "Paiement introuvable", "")
	}
	return &m, nil
}

func (r *Repository) filtered(ctx context.Context, f dto.ListFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.PaymentModel{})
	if f.Nupcan != "" {
		q = q.Where("nupcan = ?", f.Nupcan)
	}
	if f.Statut != "" {
		q = q.Where("statut = ?", f.Statut)
	}
	if f.ConcoursID != nil {
		q = q.Where("concours_id = ?", *f.ConcoursID)
	}
	return q
}

func (r *Repository) List(ctx context.Context, f dto.ListFilter) ([]model.PaymentModel, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	order := "created_at DESC"
	if f.OrderBy != "" {
		order = f.OrderBy
	}
	q := r.filtered(ctx, f).Order(order + ", id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []model.PaymentModel
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	return out, total, nil
}

// UpdateStatus mengganti statut (dan reference bila ada). paid_at diisi saat valide.
func (r *Repository) UpdateStatus(ctx context.Context, id uint, statut string, reference *string, at time.Time) error {
	fields := map[string]any{"statut": statut}
	if reference != nil {
		fields["reference"] = strings.TrimSpace(*reference)
	}
	if statut == model.StatutValide {
		fields["paid_at"] = at
	}
	res := r.DB.WithContext(ctx).Model(&model.PaymentModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", conflictReference)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Paiement introuvable")
	}
	return nil
}

func (r *Repository) SetSnapToken(ctx context.Context, id uint, token string) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("id = ?", id).Update("snap_token", token).Error, "", "")
}

// Summary: jumlah & total montant per statut.
func (r *Repository) Summary(ctx context.Context) ([]dto.Summary, error) {
	var out []dto.Summary
	err := r.DB.WithContext(ctx).Model(&model.PaymentModel{}).
		Select("statut, COUNT(*) AS count, COALESCE(SUM(montant), 0) AS total").
		Group("statut").
		Order("statut ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Server("summary paiements", err)
	}
	return out, nil
}
