package dto

import (
	"time"

	"gabconcours_backend/internals/features/administration/admin_actions/model"
)

// Filter: semua field opsional, dikomposisikan dengan AND.
type Filter struct {
	AdminID         *uint
	ActionType      string
	CandidatNupcan  string
	DateDebut       *time.Time // awal hari (inklusif)
	DateFin         *time.Time // awal hari terakhir (inklusif sampai akhir hari)
	EtablissementID *uint
	Limit           int
}

// Entry: input Record. AdminID, ActionType, Description wajib.
type Entry struct {
	AdminID        uint
	ActionType     string
	EntityType     string
	EntityID       *uint
	CandidatNupcan string
	Description    string
	Details        any
	IPAddress      string
}

type DailyStat struct {
	Date             string `json:"date"`
	TotalActions     int    `json:"total_actions"`
	Validations      int    `json:"validations"`
	Rejets           int    `json:"rejets"`
	Notes            int    `json:"notes"`
	ReponsesMessages int    `json:"reponses_messages"`
}

type AddNoteRequest struct {
	CandidatNupcan string `json:"candidat_nupcan" validate:"required,max=30"`
	Note           string `json:"note" validate:"required,max=5000"`
}

// ActionResponse menyertakan nama admin untuk tampilan dashboard.
type ActionResponse struct {
	model.AdminActionModel
	AdminNom    string `json:"admin_nom,omitempty"`
	AdminPrenom string `json:"admin_prenom,omitempty"`
}
