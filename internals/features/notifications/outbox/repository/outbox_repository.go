package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
)

type Repository struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repository { return &Repository{DB: db} }

// Enqueue menulis email ke outbox. tx != nil → ikut transaksi caller.
func (r *Repository) Enqueue(ctx context.Context, tx *gorm.DB, e templates.Email, attachmentKey *string) (*model.OutboxModel, error) {
	if tx == nil {
		tx = r.DB
	}
	row := &model.OutboxModel{
		Event:         e.Event,
		Recipient:     e.To,
		Subject:       e.Subject,
		HTML:          e.HTML,
		AttachmentKey: attachmentKey,
		Status:        model.StatusPending,
		NextAttemptAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.FromDB(err, "", "")
	}
	return row, nil
}

// ClaimDue mengambil baris pending yang jatuh tempo dan menggeser next_attempt_at
// sejauh lease, sehingga sweep lain tidak mengambil baris yang sama.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]model.OutboxModel, error) {
	var candidates []model.OutboxModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.StatusPending, now).
		Order("next_attempt_at ASC, id ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "")
	}

	claimed := make([]model.OutboxModel, 0, len(candidates))
	leaseUntil := now.Add(lease)
	for _, row := range candidates {
		res := r.DB.WithContext(ctx).Model(&model.OutboxModel{}).
			Where("id = ? AND status = ? AND next_attempt_at <= ?", row.ID, model.StatusPending, now).
			Update("next_attempt_at", leaseUntil)
		if res.Error != nil {
			return claimed, apperr.FromDB(res.Error, "", "")
		}
		if res.RowsAffected == 1 {
			row.NextAttemptAt = leaseUntil
			claimed = append(claimed, row)
		}
	}
	return claimed, nil
}

func (r *Repository) MarkSent(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&model.OutboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     model.StatusSent,
			"sent_at":    now,
			"last_error": nil,
			"attempts":   gorm.Expr("attempts + 1"),
		}).Error
}

// MarkAttemptFailed: retry di next, atau failed permanen bila attempts mencapai maxAttempts.
func (r *Repository) MarkAttemptFailed(ctx context.Context, id uint, attempts, maxAttempts int, errMsg string, next time.Time) (string, error) {
	status := model.StatusPending
	if attempts >= maxAttempts {
		status = model.StatusFailed
	}
	err := r.DB.WithContext(ctx).Model(&model.OutboxModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          status,
			"attempts":        attempts,
			"last_error":      errMsg,
			"next_attempt_at": next,
		}).Error
	return status, err
}

func (r *Repository) Get(ctx context.Context, id uint) (*model.OutboxModel, error) {
	var m model.OutboxModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Notification introuvable", "")
	}
	return &m, nil
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]model.OutboxModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.OutboxModel{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "", "")
	}
	var rows []model.OutboxModel
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, apperr.FromDB(err, "", "")
}

// Requeue: baris failed dijadwalkan ulang (aksi manual admin).
func (r *Repository) Requeue(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&model.OutboxModel{}).
		Where("id = ? AND status = ?", id, model.StatusFailed).
		Updates(map[string]any{
			"status":          model.StatusPending,
			"attempts":        0,
			"next_attempt_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Notification échouée introuvable")
	}
	return nil
}
