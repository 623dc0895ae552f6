package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "gabconcours_backend/internals/databases"
	adminModel "gabconcours_backend/internals/features/administration/admins/model"
	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	catModel "gabconcours_backend/internals/features/concours/catalogue/model"
)

// Models: sama dengan yang dimigrasi di produksi.
func Models() []any { return database.Models() }

func NewFullDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewDB(t, Models()...)
}

// SeedConcours: satu établissement + concours aktif dengan pièces requises.
func SeedConcours(t *testing.T, db *gorm.DB, pieces ...string) *catModel.ConcoursModel {
	t.Helper()
	etab := &catModel.EtablissementModel{Nom: "École Normale Supérieure"}
	require.NoError(t, db.Create(etab).Error)
	c := &catModel.ConcoursModel{
		EtablissementID: etab.ID,
		Libelle:         "Concours ENS 2024",
		FraisDossier:    15000,
		PiecesRequises:  catModel.TextArray(pieces),
		IsActive:        true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedCandidat(t *testing.T, db *gorm.DB, nupcan string, concoursID *uint) *candModel.CandidatModel {
	t.Helper()
	m := &candModel.CandidatModel{
		Nupcan:     nupcan,
		Nom:        "NDONG",
		Prenom:     "Aline",
		Email:      "aline." + nupcan + "@example.ga",
		Telephone:  "+24107000000",
		ConcoursID: concoursID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func SeedAdmin(t *testing.T, db *gorm.DB, email string, etablissementID *uint) *adminModel.AdminModel {
	t.Helper()
	m := &adminModel.AdminModel{
		Nom:             "MBA",
		Prenom:          "Paul",
		Email:           email,
		Password:        "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva",
		Role:            adminModel.RoleAdmin,
		EtablissementID: etablissementID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// At: waktu UTC ringkas untuk fixture.
func At(y int, mo time.Month, d, h, mi int) time.Time {
	return time.Date(y, mo, d, h, mi, 0, 0, time.UTC)
}
