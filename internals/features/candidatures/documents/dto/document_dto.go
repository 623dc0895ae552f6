package dto

import (
	"strings"

	"gabconcours_backend/internals/features/candidatures/documents/model"
)

// UploadRequest: field form multipart; berkas di "file".
type UploadRequest struct {
	NomDoc     string `form:"nomdoc" validate:"required,max=200"`
	Type       string `form:"type" validate:"required,max=50"`
	ConcoursID *uint  `form:"concours_id"`
}

func (r *UploadRequest) Normalize() {
	r.NomDoc = strings.TrimSpace(r.NomDoc)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
}

// DecideRequest: keputusan admin. Commentaire dianjurkan saat rejete.
type DecideRequest struct {
	Statut      string  `json:"statut" validate:"required,oneof=valide rejete"`
	Commentaire *string `json:"commentaire" validate:"omitempty,max=2000"`
}

// UpdateMetadataRequest: statut bukan tulis bebas, lihat Service.UpdateMetadata.
type UpdateMetadataRequest struct {
	NomDoc      *string `json:"nomdoc" validate:"omitempty,min=1,max=200"`
	Type        *string `json:"type" validate:"omitempty,min=1,max=50"`
	Commentaire *string `json:"commentaire" validate:"omitempty,max=2000"`
	Statut      *string `json:"statut" validate:"omitempty,oneof=en_attente valide rejete"`
}

func (r UpdateMetadataRequest) Fields() map[string]any {
	out := map[string]any{}
	if r.NomDoc != nil {
		out["nomdoc"] = strings.TrimSpace(*r.NomDoc)
	}
	if r.Type != nil {
		out["type"] = strings.ToLower(strings.TrimSpace(*r.Type))
	}
	// commentaire ikut keputusan bila statut dikirim; kosong → NULL
	if r.Commentaire != nil && r.Statut == nil {
		if c := strings.TrimSpace(*r.Commentaire); c != "" {
			out["commentaire"] = c
		} else {
			out["commentaire"] = nil
		}
	}
	return out
}

type ListFilter struct {
	Statut string
	Nupcan string
	Limit  int
	Offset int
}

// Decision: input Service.Decide.
type Decision struct {
	DocumentID  uint
	AdminID     uint
	Statut      string
	Commentaire *string
	IPAddress   string
	// Fields: perubahan metadata yang ditulis di transaksi yang sama
	Fields map[string]any
}

func (d Decision) Rejected() bool { return d.Statut == model.StatutRejete }

func (d Decision) CommentaireText() string {
	if d.Commentaire == nil {
		return ""
	}
	return strings.TrimSpace(*d.Commentaire)
}
