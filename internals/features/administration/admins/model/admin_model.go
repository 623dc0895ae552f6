package model

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type AdminModel struct {
	ID              uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nom             string `gorm:"column:nom;type:varchar(100);not null" json:"nom"`
	Prenom          string `gorm:"column:prenom;type:varchar(100);not null" json:"prenom"`
	Email           string `gorm:"column:email;type:varchar(150);not null;uniqueIndex" json:"email"`
	Password        string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role            string `gorm:"column:role;type:varchar(20);not null" json:"role"`
	EtablissementID *uint  `gorm:"column:etablissement_id;index" json:"etablissement_id,omitempty"`

	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AdminModel) TableName() string { return "admins" }
