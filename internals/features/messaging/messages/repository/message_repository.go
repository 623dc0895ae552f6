package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	"gabconcours_backend/internals/features/messaging/messages/dto"
	"gabconcours_backend/internals/features/messaging/messages/model"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

func (r *Repository) WithTx(tx *gorm.DB) *Repository { return &Repository{DB: tx} }

func (r *Repository) Create(ctx context.Context, m *model.MessageModel) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(m).Error, "", "")
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.MessageModel, error) {
	var m model.MessageModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Message introuvable", "")
	}
	return &m, nil
}

// Conversation: urutan created_at naik (id sebagai tie-breaker). Since eksklusif.
func (r *Repository) Conversation(ctx context.Context, f dto.ConversationFilter) ([]model.MessageModel, error) {
	q := r.DB.WithContext(ctx).Where("nupcan = ?", f.Nupcan)
	if f.Since != nil {
		q = q.Where("created_at > ?", *f.Since)
	}
	rows := make([]model.MessageModel, 0)
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Server("conversation", err)
	}
	return rows, nil
}

func (r *Repository) MarkRead(ctx context.Context, id uint, at time.Time) error {
	err := r.DB.WithContext(ctx).Model(&model.MessageModel{}).
		Where("id = ? AND statut = ?", id, model.StatutNonLu).
		Updates(map[string]any{"statut": model.StatutLu, "read_at": at}).Error
	return apperr.FromDB(err, "", "")
}

// CountUnread: nupcan kosong → semua thread (inbox admin).
func (r *Repository) CountUnread(ctx context.Context, nupcan, expediteur string) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.MessageModel{}).
		Where("expediteur = ? AND statut = ?", expediteur, model.StatutNonLu)
	if nupcan != "" {
		q = q.Where("nupcan = ?", nupcan)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperr.Server("count unread", err)
	}
	return n, nil
}

type threadRow struct {
	Nupcan string
	LastID uint
	Unread int64
}

// Conversations: satu baris per candidat, thread dengan pesan terbaru lebih dulu.
func (r *Repository) Conversations(ctx context.Context) ([]dto.Conversation, error) {
	var threads []threadRow
	err := r.DB.WithContext(ctx).Model(&model.MessageModel{}).
		Select(`nupcan, MAX(id) AS last_id,
			SUM(CASE WHEN expediteur = ? AND statut = ? THEN 1 ELSE 0 END) AS unread`,
			model.ExpediteurCandidat, model.StatutNonLu).
		Group("nupcan").
		Scan(&threads).Error
	if err != nil {
		return nil, apperr.Server("conversations", err)
	}
	out := make([]dto.Conversation, 0, len(threads))
	if len(threads) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(threads))
	nupcans := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.LastID)
		nupcans = append(nupcans, t.Nupcan)
	}

	var last []model.MessageModel
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).
		Order("created_at DESC, id DESC").Find(&last).Error; err != nil {
		return nil, apperr.Server("conversations", err)
	}
	var cands []candModel.CandidatModel
	if err := r.DB.WithContext(ctx).Select("nupcan", "nomcan", "prncan").
		Where("nupcan IN ?", nupcans).Find(&cands).Error; err != nil {
		return nil, apperr.Server("conversations", err)
	}

	unread := make(map[string]int64, len(threads))
	for _, t := range threads {
		unread[t.Nupcan] = t.Unread
	}
	names := make(map[string]candModel.CandidatModel, len(cands))
	for _, c := range cands {
		names[c.Nupcan] = c
	}
	for _, m := range last {
		c := names[m.Nupcan]
		out = append(out, dto.Conversation{
			Nupcan:      m.Nupcan,
			Nom:         c.Nom,
			Prenom:      c.Prenom,
			LastMessage: m,
			Unread:      unread[m.Nupcan],
		})
	}
	return out, nil
}
