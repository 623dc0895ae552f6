package model

import "time"

const (
	ExpediteurCandidat = "candidat"
	ExpediteurAdmin    = "admin"

	StatutNonLu = "non_lu"
	StatutLu    = "lu"
)

type MessageModel struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nupcan     string `gorm:"column:nupcan;type:varchar(30);not null;index" json:"nupcan"`
	AdminID    *uint  `gorm:"column:admin_id" json:"admin_id,omitempty"`
	Expediteur string `gorm:"column:expediteur;type:varchar(10);not null" json:"expediteur"`

	Sujet   string `gorm:"column:sujet;type:varchar(200)" json:"sujet"`
	Message string `gorm:"column:message;type:text;not null" json:"message"`
	Statut  string `gorm:"column:statut;type:varchar(10);not null;index" json:"statut"`

	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MessageModel) TableName() string { return "messages" }
