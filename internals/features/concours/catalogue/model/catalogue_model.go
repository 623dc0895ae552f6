package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextArray: text[] di Postgres, literal "{a,b}" di dialek lain.
type TextArray pq.StringArray

func (a TextArray) Value() (driver.Value, error) { return pq.StringArray(a).Value() }
func (a *TextArray) Scan(src any) error        { return (*pq.StringArray)(a).Scan(src) }

func (TextArray) GormDataType() string { return "text" }

func (TextArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type EtablissementModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nom       string    `gorm:"column:nomets;type:varchar(150);not null" json:"nomets"`
	Adresse   string    `gorm:"column:adresse;type:varchar(255)" json:"adresse,omitempty"`
	Telephone string    `gorm:"column:telephone;type:varchar(30)" json:"telephone,omitempty"`
	Email     string    `gorm:"column:email;type:varchar(150)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EtablissementModel) TableName() string { return "etablissements" }

type ConcoursModel struct {
	ID              uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EtablissementID uint `gorm:"column:etablissement_id;not null;index" json:"etablissement_id"`

	Libelle      string `gorm:"column:libcnc;type:varchar(200);not null" json:"libcnc"`
	Session      string `gorm:"column:sescnc;type:varchar(20)" json:"sescnc,omitempty"`
	FraisDossier int64  `gorm:"column:fracnc;not null;default:0" json:"fracnc"`
	AgeLimite    *int   `gorm:"column:agecnc" json:"agecnc,omitempty"`

	DateDebut *time.Time `gorm:"column:debcnc" json:"debcnc,omitempty"`
	DateFin   *time.Time `gorm:"column:fincnc" json:"fincnc,omitempty"`

	// kategori dokumen yang wajib valide agar candidature lengkap
	PiecesRequises TextArray `gorm:"column:pieces_requises" json:"pieces_requises"`

	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ConcoursModel) TableName() string { return "concours" }

type FiliereModel struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nom         string    `gorm:"column:nomfil;type:varchar(150);not null" json:"nomfil"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FiliereModel) TableName() string { return "filieres" }

type MatiereModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nom       string    `gorm:"column:nom_matiere;type:varchar(150);not null" json:"nom_matiere"`
	Duree     int       `gorm:"column:duree;not null;default:0" json:"duree"` // menit
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MatiereModel) TableName() string { return "matieres" }

/* ===== join tables ===== */

type ConcoursFiliereModel struct {
	ID                uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConcoursID        uint      `gorm:"column:concours_id;not null;uniqueIndex:uq_concours_filiere" json:"concours_id"`
	FiliereID         uint      `gorm:"column:filiere_id;not null;uniqueIndex:uq_concours_filiere" json:"filiere_id"`
	PlacesDisponibles int       `gorm:"column:places_disponibles;not null;default:0" json:"places_disponibles"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ConcoursFiliereModel) TableName() string { return "concours_filieres" }

type FiliereMatiereModel struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FiliereID   uint      `gorm:"column:filiere_id;not null;uniqueIndex:uq_filiere_matiere" json:"filiere_id"`
	MatiereID   uint      `gorm:"column:matiere_id;not null;uniqueIndex:uq_filiere_matiere" json:"matiere_id"`
	Coefficient float64   `gorm:"column:coefficient;not null;default:1" json:"coefficient"`
	Obligatoire bool      `gorm:"column:obligatoire;not null" json:"obligatoire"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FiliereMatiereModel) TableName() string { return "filiere_matieres" }
