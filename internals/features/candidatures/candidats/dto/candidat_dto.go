package dto

import (
	"strings"
	"time"

	"gabconcours_backend/internals/features/candidatures/candidats/model"
	"gabconcours_backend/internals/features/notifications/templates"
)

// RegisterRequest dipakai untuk JSON maupun multipart (foto di field "photo").
type RegisterRequest struct {
	Nom           string `json:"nomcan" form:"nomcan" validate:"required,max=100"`
	Prenom        string `json:"prncan" form:"prncan" validate:"required,max=100"`
	Email         string `json:"maican" form:"maican" validate:"required,email,max=150"`
	Telephone     string `json:"telcan" form:"telcan" validate:"required,max=30"`
	DateNaissance string `json:"dtncan" form:"dtncan" validate:"omitempty,datetime=2006-01-02"`
	LieuNaissance string `json:"ldncan" form:"ldncan" validate:"omitempty,max=150"`
	ConcoursID    *uint  `json:"concours_id" form:"concours_id"`
	FiliereID     *uint  `json:"filiere_id" form:"filiere_id"`
}

func (r RegisterRequest) ToModel(nupcan string) *model.CandidatModel {
	m := &model.CandidatModel{
		Nupcan:        nupcan,
		Nom:           strings.ToUpper(strings.TrimSpace(r.Nom)),
		Prenom:        strings.TrimSpace(r.Prenom),
		Email:         strings.ToLower(strings.TrimSpace(r.Email)),
		Telephone:     strings.TrimSpace(r.Telephone),
		LieuNaissance: strings.TrimSpace(r.LieuNaissance),
		ConcoursID:    r.ConcoursID,
		FiliereID:     r.FiliereID,
	}
	if d, err := time.Parse("2006-01-02", strings.TrimSpace(r.DateNaissance)); err == nil {
		m.DateNaissance = &d
	}
	return m
}

// UpdateRequest: hanya field kontak; NUPCAN & concours tidak bisa diubah di sini.
type UpdateRequest struct {
	Nom           *string `json:"nomcan" validate:"omitempty,max=100"`
	Prenom        *string `json:"prncan" validate:"omitempty,max=100"`
	Email         *string `json:"maican" validate:"omitempty,email,max=150"`
	Telephone     *string `json:"telcan" validate:"omitempty,max=30"`
	LieuNaissance *string `json:"ldncan" validate:"omitempty,max=150"`
}

func (r UpdateRequest) Fields() map[string]any {
	out := map[string]any{}
	if r.Nom != nil {
		out["nomcan"] = strings.ToUpper(strings.TrimSpace(*r.Nom))
	}
	if r.Prenom != nil {
		out["prncan"] = strings.TrimSpace(*r.Prenom)
	}
	if r.Email != nil {
		out["maican"] = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Telephone != nil {
		out["telcan"] = strings.TrimSpace(*r.Telephone)
	}
	if r.LieuNaissance != nil {
		out["ldncan"] = strings.TrimSpace(*r.LieuNaissance)
	}
	return out
}

type LoginRequest struct {
	Nupcan string `json:"nupcan" validate:"required,max=30"`
	Email  string `json:"maican" validate:"required,email"`
}

type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Candidat  model.CandidatModel `json:"candidat"`
}

type ListFilter struct {
	Q          string
	ConcoursID *uint
	Limit      int
	Offset     int
	OrderBy    string // klausa dari SafeOrderClause; kosong = terbaru dulu
}

type MonthStat struct {
	Mois  string `json:"mois"`
	Count int    `json:"count"`
}

type Stats struct {
	ParMois []MonthStat `json:"parMois"`
	Total   int64       `json:"total"`
}

// MailCandidat memetakan model ke data template email.
func MailCandidat(m model.CandidatModel) templates.Candidat {
	return templates.Candidat{
		Nupcan: m.Nupcan,
		Nom:    m.Nom,
		Prenom: m.Prenom,
		Email:  m.Email,
	}
}
