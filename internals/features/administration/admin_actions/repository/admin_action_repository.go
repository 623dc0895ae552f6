package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/admin_actions/dto"
	"gabconcours_backend/internals/features/administration/admin_actions/model"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/dbtime"
)

// Repository audit trail. Hanya insert dan baca; koreksi = record baru.
type Repository struct {
	DB  *gorm.DB
	Loc *time.Location // zona hari kalender untuk filter tanggal & agregasi
}

func New(db *gorm.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{DB: db, Loc: loc}
}

func buildModel(e dto.Entry) (*model.AdminActionModel, error) {
	if e.AdminID == 0 {
		return nil, apperr.BadRequest("admin_id requis")
	}
	if !model.IsValidActionType(e.ActionType) {
		return nil, apperr.BadRequest("action_type invalide: " + e.ActionType)
	}
	if strings.TrimSpace(e.Description) == "" {
		return nil, apperr.BadRequest("description requise")
	}
	m := &model.AdminActionModel{
		AdminID:     e.AdminID,
		ActionType:  e.ActionType,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: strings.TrimSpace(e.Description),
	}
	if e.CandidatNupcan != "" {
		n := e.CandidatNupcan
		m.CandidatNupcan = &n
	}
	if e.IPAddress != "" {
		ip := e.IPAddress
		m.IPAddress = &ip
	}
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, apperr.BadRequest("details invalides")
		}
		m.Details = datatypes.JSON(raw)
	}
	return m, nil
}

// RecordTx menulis audit di dalam transaksi caller.
func (r *Repository) RecordTx(ctx context.Context, tx *gorm.DB, e dto.Entry) (*model.AdminActionModel, error) {
	m, err := buildModel(e)
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		return nil, apperr.FromDB(err, "", "")
	}
	return m, nil
}

func (r *Repository) Record(ctx context.Context, e dto.Entry) (*model.AdminActionModel, error) {
	return r.RecordTx(ctx, r.DB, e)
}

func (r *Repository) filtered(ctx context.Context, f dto.Filter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.AdminActionModel{})
	if f.AdminID != nil {
		q = q.Where("admin_actions.admin_id = ?", *f.AdminID)
	}
	if f.ActionType != "" {
		q = q.Where("admin_actions.action_type = ?", f.ActionType)
	}
	if f.CandidatNupcan != "" {
		q = q.Where("admin_actions.candidat_nupcan = ?", f.CandidatNupcan)
	}
	if f.DateDebut != nil {
		q = q.Where("admin_actions.created_at >= ?", f.DateDebut.UTC())
	}
	if f.DateFin != nil {
		q = q.Where("admin_actions.created_at < ?", dbtime.EndExclusive(*f.DateFin).UTC())
	}
	if f.EtablissementID != nil {
		q = q.Joins("JOIN admins ON admins.id = admin_actions.admin_id").
			Where("admins.etablissement_id = ?", *f.EtablissementID)
	}
	return q
}

// Query: filter konjungtif, terbaru dulu, Limit > 0 membatasi jumlah baris.
func (r *Repository) Query(ctx context.Context, f dto.Filter) ([]model.AdminActionModel, error) {
	q := r.filtered(ctx, f).
		Select("admin_actions.*").
		Order("admin_actions.created_at DESC, admin_actions.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []model.AdminActionModel
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Server("query admin_actions", err)
	}
	return out, nil
}

// QueryWithAdmin sama dengan Query plus nama admin. Admin dimuat di query
// kedua (WHERE id IN) lalu digabung di Go; aksi dari admin yang sudah
// dihapus tetap muncul dengan nama kosong.
func (r *Repository) QueryWithAdmin(ctx context.Context, f dto.Filter) ([]dto.ActionResponse, error) {
	rows, err := r.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	seen := map[uint]bool{}
	for _, a := range rows {
		if !seen[a.AdminID] {
			seen[a.AdminID] = true
			ids = append(ids, a.AdminID)
		}
	}
	type adminName struct {
		ID     uint
		Nom    string
		Prenom string
	}
	names := map[uint]adminName{}
	if len(ids) > 0 {
		var list []adminName
		if err := r.DB.WithContext(ctx).Table("admins").Select("id, nom, prenom").Where("id IN ?", ids).Scan(&list).Error; err != nil {
			return nil, apperr.Server("query admins", err)
		}
		for _, a := range list {
			names[a.ID] = a
		}
	}
	out := make([]dto.ActionResponse, 0, len(rows))
	for _, a := range rows {
		n := names[a.AdminID]
		out = append(out, dto.ActionResponse{AdminActionModel: a, AdminNom: n.Nom, AdminPrenom: n.Prenom})
	}
	return out, nil
}

// Aggregate mengelompokkan per hari kalender (zona r.Loc), hari terbaru dulu.
func (r *Repository) Aggregate(ctx context.Context, f dto.Filter) ([]dto.DailyStat, error) {
	type slim struct {
		ActionType string
		CreatedAt  time.Time
	}
	var rows []slim
	if err := r.filtered(ctx, f).
		Select("admin_actions.action_type, admin_actions.created_at").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Server("aggregate admin_actions", err)
	}

	byDay := map[string]*dto.DailyStat{}
	for _, row := range rows {
		key := dbtime.DayKey(row.CreatedAt, r.Loc)
		s, ok := byDay[key]
		if !ok {
			s = &dto.DailyStat{Date: key}
			byDay[key] = s
		}
		s.TotalActions++
		switch row.ActionType {
		case model.ActionValidationDocument:
			s.Validations++
		case model.ActionRejetDocument:
			s.Rejets++
		case model.ActionAjoutNote:
			s.Notes++
		case model.ActionReponseMessage:
			s.ReponsesMessages++
		}
	}

	out := make([]dto.DailyStat, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]dto.ActionResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.QueryWithAdmin(ctx, dto.Filter{Limit: limit})
}

func (r *Repository) FindByAdmin(ctx context.Context, adminID uint, limit int) ([]model.AdminActionModel, error) {
	return r.Query(ctx, dto.Filter{AdminID: &adminID, Limit: limit})
}

func (r *Repository) FindByCandidat(ctx context.Context, nupcan string) ([]model.AdminActionModel, error) {
	if strings.TrimSpace(nupcan) == "" {
		return nil, apperr.BadRequest("nupcan requis")
	}
	return r.Query(ctx, dto.Filter{CandidatNupcan: nupcan})
}

// DecodeDetails membuka blob JSON details ke map.
func DecodeDetails(m model.AdminActionModel) (map[string]any, error) {
	if len(m.Details) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(m.Details, &out); err != nil {
		return nil, fmt.Errorf("details admin_action %d: %w", m.ID, err)
	}
	return out, nil
}
