package model

import "time"

const (
	StatutOuvert = "ouvert"
	StatutTraite = "traite"
)

type SupportRequestModel struct {
	ID      uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nom     string  `gorm:"column:nom;type:varchar(150);not null" json:"nom"`
	Email   string  `gorm:"column:email;type:varchar(150);not null" json:"email"`
	Nupcan  *string `gorm:"column:nupcan;type:varchar(30);index" json:"nupcan,omitempty"`
	Sujet   string  `gorm:"column:sujet;type:varchar(200);not null" json:"sujet"`
	Message string  `gorm:"column:message;type:text;not null" json:"message"`
	Statut  string  `gorm:"column:statut;type:varchar(20);not null;index" json:"statut"`

	TraiteBy  *uint      `gorm:"column:traite_by" json:"traite_by,omitempty"`
	TraiteAt  *time.Time `gorm:"column:traite_at" json:"traite_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SupportRequestModel) TableName() string { return "support_requests" }
