package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/candidatures/candidats/dto"
	"gabconcours_backend/internals/features/candidatures/candidats/model"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/dbtime"
)

type Repository struct {
	DB  *gorm.DB
	Loc *time.Location
}

func New(db *gorm.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{DB: db, Loc: loc}
}

// WithTx: repository yang sama di atas transaksi caller.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{DB: tx, Loc: r.Loc}
}

func (r *Repository) Create(ctx context.Context, m *model.CandidatModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "NUPCAN déjà attribué")
}

func (r *Repository) GetByNupcan(ctx context.Context, nupcan string) (*model.CandidatModel, error) {
	nupcan = strings.TrimSpace(nupcan)
	if nupcan == "" {
		return nil, apperr.BadRequest("nupcan requis")
	}
	var m model.CandidatModel
	if err := r.DB.WithContext(ctx).Where("nupcan = ?", nupcan).First(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "Candidat introuvable", "")
	}
	return &m, nil
}

func (r *Repository) filtered(ctx context.Context, f dto.ListFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.CandidatModel{})
	if s := strings.ToLower(strings.TrimSpace(f.Q)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(nupcan) LIKE ? OR LOWER(nomcan) LIKE ? OR LOWER(prncan) LIKE ? OR LOWER(maican) LIKE ?",
			like, like, like, like)
	}
	if f.ConcoursID != nil {
		q = q.Where("concours_id = ?", *f.ConcoursID)
	}
	return q
}

// List: terbaru dulu. Limit 0 → semua baris (dipakai export).
func (r *Repository) List(ctx context.Context, f dto.ListFilter) ([]model.CandidatModel, int64, error) {
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
	var out []model.CandidatModel
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	return out, total, nil
}

func (r *Repository) Update(ctx context.Context, nupcan string, fields map[string]any) (*model.CandidatModel, error) {
	m, err := r.GetByNupcan(ctx, nupcan)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return m, nil
	}
	if err := r.DB.WithContext(ctx).Model(m).Updates(fields).Error; err != nil {
		return nil, apperr.FromDB(err, "", "Email déjà utilisé")
	}
	return r.GetByNupcan(ctx, nupcan)
}

// StatsParMois: jumlah pendaftaran per bulan kalender (zona r.Loc), bulan terbaru dulu.
func (r *Repository) StatsParMois(ctx context.Context) (*dto.Stats, error) {
	var created []time.Time
	if err := r.DB.WithContext(ctx).Model(&model.CandidatModel{}).
		Pluck("created_at", &created).Error; err != nil {
		return nil, apperr.Server("stats candidats", err)
	}
	byMonth := map[string]int{}
	for _, t := range created {
		byMonth[dbtime.MonthKey(t, r.Loc)]++
	}
	out := &dto.Stats{ParMois: make([]dto.MonthStat, 0, len(byMonth)), Total: int64(len(created))}
	for k, n := range byMonth {
		out.ParMois = append(out.ParMois, dto.MonthStat{Mois: k, Count: n})
	}
	sort.Slice(out.ParMois, func(i, j int) bool { return out.ParMois[i].Mois > out.ParMois[j].Mois })
	return out, nil
}
