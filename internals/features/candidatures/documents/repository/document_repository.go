package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/candidatures/documents/dto"
	"gabconcours_backend/internals/features/candidatures/documents/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) WithTx(tx *gorm.DB) *Repository { return &Repository{DB: tx} }

func (r *Repository) Create(ctx context.Context, m *model.DocumentModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "")
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.DocumentModel, error) {
	var m model.DocumentModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Document introuvable", "")
	}
	return &m, nil
}

func (r *Repository) ListByNupcan(ctx context.Context, nupcan string) ([]model.DocumentModel, error) {
	var out []model.DocumentModel
	err := r.DB.WithContext(ctx).
		Where("nupcan = ?", strings.TrimSpace(nupcan)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, apperr.FromDB(err, "", "")
}

// List: antrean admin. Yang terlama dulu supaya diproses FIFO.
func (r *Repository) List(ctx context.Context, f dto.ListFilter) ([]model.DocumentModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.DocumentModel{})
	if f.Statut != "" {
		q = q.Where("statut = ?", f.Statut)
	}
	if f.Nupcan != "" {
		q = q.Where("nupcan = ?", f.Nupcan)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	q = q.Order("created_at ASC, id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []model.DocumentModel
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	return out, total, nil
}

// ApplyDecision menulis statut + validator. Dipanggil di dalam transaksi Decide.
func (r *Repository) ApplyDecision(ctx context.Context, id uint, statut string, commentaire *string, adminID uint, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&model.DocumentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"statut":       statut,
			"commentaire":  commentaire,
			"validated_by": adminID,
			"validated_at": at,
		})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Document introuvable")
	}
	return nil
}

// ResetAfterReplace: kembali ke en_attente dengan berkas baru, hanya bila
// masih rejete dan milik nupcan. false → kalah balapan / status berubah.
func (r *Repository) ResetAfterReplace(ctx context.Context, id uint, nupcan, key, contentType, nomdoc string) (bool, error) {
	fields := map[string]any{
		"nom_fichier":  key,
		"content_type": contentType,
		"statut":       model.StatutEnAttente,
		"commentaire":  nil,
		"validated_by": nil,
		"validated_at": nil,
	}
	if nomdoc = strings.TrimSpace(nomdoc); nomdoc != "" {
		fields["nomdoc"] = nomdoc
	}
	res := r.DB.WithContext(ctx).Model(&model.DocumentModel{}).
		Where("id = ? AND nupcan = ? AND statut = ?", id, nupcan, model.StatutRejete).
		Updates(fields)
	if res.Error != nil {
		return false, apperr.FromDB(res.Error, "", "")
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&model.DocumentModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Document introuvable")
	}
	return nil
}

// CountByStatut untuk widget dashboard admin.
func (r *Repository) CountByStatut(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Statut string
		N      int64
	}
	var rows []row
	if err := r.DB.WithContext(ctx).Model(&model.DocumentModel{}).
		Select("statut, COUNT(*) AS n").
		Group("statut").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Server("count documents", err)
	}
	out := map[string]int64{
		model.StatutEnAttente: 0,
		model.StatutValide:    0,
		model.StatutRejete:    0,
	}
	for _, r := range rows {
		out[r.Statut] = r.N
	}
	return out, nil
}
