package dto

import (
	"strings"
	"time"

	"gabconcours_backend/internals/features/concours/catalogue/model"
)

/* ===== Etablissement ===== */

type CreateEtablissementRequest struct {
	Nom       string `json:"nomets" validate:"required,max=150"`
	Adresse   string `json:"adresse" validate:"omitempty,max=255"`
	Telephone string `json:"telephone" validate:"omitempty,max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func (r CreateEtablissementRequest) ToModel() *model.EtablissementModel {
	return &model.EtablissementModel{
		Nom:       strings.TrimSpace(r.Nom),
		Adresse:   strings.TrimSpace(r.Adresse),
		Telephone: strings.TrimSpace(r.Telephone),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
	}
}

/* ===== Concours ===== */

type CreateConcoursRequest struct {
	EtablissementID uint       `json:"etablissement_id" validate:"required"`
	Libelle         string     `json:"libcnc" validate:"required,max=200"`
	Session         string     `json:"sescnc" validate:"omitempty,max=20"`
	FraisDossier    int64      `json:"fracnc" validate:"gte=0"`
	AgeLimite       *int       `json:"agecnc" validate:"omitempty,gt=0"`
	DateDebut       *time.Time `json:"debcnc"`
	DateFin         *time.Time `json:"fincnc"`
	PiecesRequises  []string   `json:"pieces_requises" validate:"dive,required,max=50"`
	IsActive        *bool      `json:"is_active"`
}

func (r CreateConcoursRequest) ToModel() *model.ConcoursModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	pieces := make(model.TextArray, 0, len(r.PiecesRequises))
	for _, p := range r.PiecesRequises {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			pieces = append(pieces, p)
		}
	}
	return &model.ConcoursModel{
		EtablissementID: r.EtablissementID,
		Libelle:         strings.TrimSpace(r.Libelle),
		Session:         strings.TrimSpace(r.Session),
		FraisDossier:    r.FraisDossier,
		AgeLimite:       r.AgeLimite,
		DateDebut:       r.DateDebut,
		DateFin:         r.DateFin,
		PiecesRequises:  pieces,
		IsActive:        active,
	}
}

/* ===== Filiere / Matiere ===== */

type CreateFiliereRequest struct {
	Nom         string `json:"nomfil" validate:"required,max=150"`
	Description string `json:"description"`
}

type CreateMatiereRequest struct {
	Nom   string `json:"nom_matiere" validate:"required,max=150"`
	Duree int    `json:"duree" validate:"gte=0"`
}

/* ===== Join ===== */

type AddConcoursFiliereRequest struct {
	FiliereID         uint `json:"filiere_id" validate:"required"`
	PlacesDisponibles int  `json:"places_disponibles" validate:"gte=0"`
}

type AddFiliereMatiereRequest struct {
	MatiereID   uint    `json:"matiere_id" validate:"required"`
	Coefficient float64 `json:"coefficient" validate:"gt=0"`
	Obligatoire *bool   `json:"obligatoire"`
}

// Baris hasil join untuk listing per parent.
type ConcoursFiliereRow struct {
	FiliereID         uint   `json:"filiere_id"`
	Nom               string `json:"nomfil"`
	PlacesDisponibles int    `json:"places_disponibles"`
}

type FiliereMatiereRow struct {
	MatiereID   uint    `json:"matiere_id"`
	Nom         string  `json:"nom_matiere"`
	Coefficient float64 `json:"coefficient"`
	Obligatoire bool    `json:"obligatoire"`
}
