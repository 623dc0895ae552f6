package model

import "time"

// Status dokumen.
const (
	StatutEnAttente = "en_attente"
	StatutValide    = "valide"
	StatutRejete    = "rejete"
)

func IsValidStatut(s string) bool {
	switch s {
	case StatutEnAttente, StatutValide, StatutRejete:
		return true
	}
	return false
}

type DocumentModel struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nupcan     string `gorm:"column:nupcan;type:varchar(30);not null;index" json:"nupcan"`
	ConcoursID *uint  `gorm:"column:concours_id;index" json:"concours_id,omitempty"`

	NomDoc      string `gorm:"column:nomdoc;type:varchar(200);not null" json:"nomdoc"`
	Type        string `gorm:"column:type;type:varchar(50);not null" json:"type"`
	NomFichier  string `gorm:"column:nom_fichier;type:varchar(255);not null" json:"nom_fichier"` // key relatif di storage
	ContentType string `gorm:"column:content_type;type:varchar(100)" json:"content_type,omitempty"`

	Statut      string     `gorm:"column:statut;type:varchar(20);not null;index" json:"statut"`
	Commentaire *string    `gorm:"column:commentaire;type:text" json:"commentaire"`
	ValidatedBy *uint      `gorm:"column:validated_by" json:"validated_by"`
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validated_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DocumentModel) TableName() string { return "documents" }
