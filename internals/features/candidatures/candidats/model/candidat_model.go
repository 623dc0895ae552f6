package model

import "time"

type CandidatModel struct {
	ID     uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nupcan string `gorm:"column:nupcan;type:varchar(30);not null;uniqueIndex" json:"nupcan"`

	Nom           string     `gorm:"column:nomcan;type:varchar(100);not null" json:"nomcan"`
	Prenom        string     `gorm:"column:prncan;type:varchar(100);not null" json:"prncan"`
	Email         string     `gorm:"column:maican;type:varchar(150);not null;index" json:"maican"`
	Telephone     string     `gorm:"column:telcan;type:varchar(30)" json:"telcan"`
	DateNaissance *time.Time `gorm:"column:dtncan" json:"dtncan,omitempty"`
	LieuNaissance string     `gorm:"column:ldncan;type:varchar(150)" json:"ldncan,omitempty"`
	Photo         string     `gorm:"column:phtcan;type:varchar(255)" json:"phtcan,omitempty"`

	ConcoursID *uint `gorm:"column:concours_id;index" json:"concours_id,omitempty"`
	FiliereID  *uint `gorm:"column:filiere_id" json:"filiere_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CandidatModel) TableName() string { return "candidats" }

func (m CandidatModel) FullName() string { return m.Prenom + " " + m.Nom }
