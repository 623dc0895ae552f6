package model

import "time"

const (
	MethodeAirtelMoney = "airtel_money"
	MethodeMoovMoney   = "moov_money"
	MethodeCarte       = "carte"
	MethodeEspeces     = "especes"

	StatutEnAttente = "en_attente"
	StatutValide    = "valide"
	StatutEchoue    = "echoue"
)

type PaymentModel struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nupcan     string `gorm:"column:nupcan;type:varchar(30);not null;index" json:"nupcan"`
	ConcoursID uint   `gorm:"column:concours_id;not null;index" json:"concours_id"`

	Montant         int64   `gorm:"column:montant;not null" json:"montant"`
	Methode         string  `gorm:"column:methode;type:varchar(20);not null" json:"methode"`
	Statut          string  `gorm:"column:statut;type:varchar(20);not null;index" json:"statut"`
	Reference       string  `gorm:"column:reference;type:varchar(100);not null;uniqueIndex" json:"reference"`
	NumeroTelephone string  `gorm:"column:numero_telephone;type:varchar(30)" json:"numero_telephone,omitempty"`
	SnapToken       *string `gorm:"column:snap_token;type:text" json:"snap_token,omitempty"`

	PaidAt    *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentModel) TableName() string { return "paiements" }
