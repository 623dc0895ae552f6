package model

import (
	"time"

	"gorm.io/datatypes"
)

// Jenis aksi yang dicatat.
const (
	ActionValidationDocument = "validation_document"
	ActionRejetDocument      = "rejet_document"
	ActionAjoutNote          = "ajout_note"
	ActionReponseMessage     = "reponse_message"
	ActionAutre              = "autre"
)

func IsValidActionType(s string) bool {
	switch s {
	case ActionValidationDocument, ActionRejetDocument, ActionAjoutNote, ActionReponseMessage, ActionAutre:
		return true
	}
	return false
}

// AdminActionModel: append-only. Tidak ada update/delete di repository.
type AdminActionModel struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdminID    uint   `gorm:"column:admin_id;not null;index" json:"admin_id"`
	ActionType string `gorm:"column:action_type;type:varchar(30);not null;index" json:"action_type"`

	EntityType     string  `gorm:"column:entity_type;type:varchar(30)" json:"entity_type,omitempty"`
	EntityID       *uint   `gorm:"column:entity_id" json:"entity_id,omitempty"`
	CandidatNupcan *string `gorm:"column:candidat_nupcan;type:varchar(30);index" json:"candidat_nupcan,omitempty"`

	Description string         `gorm:"column:description;type:text;not null" json:"description"`
	Details     datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	IPAddress   *string        `gorm:"column:ip_address;type:varchar(64)" json:"ip_address,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (AdminActionModel) TableName() string { return "admin_actions" }
