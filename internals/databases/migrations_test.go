package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "gabconcours_backend/internals/databases"
	catModel "gabconcours_backend/internals/features/concours/catalogue/model"
	"gabconcours_backend/internals/testutil"
)

func TestAutoMigrate_CreatesEveryTable(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.AutoMigrate(db))

	for _, m := range database.Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestAutoMigrate_PiecesRequisesRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.AutoMigrate(db))

	etab := &catModel.EtablissementModel{Nom: "USTM"}
	require.NoError(t, db.Create(etab).Error)
	c := &catModel.ConcoursModel{
		EtablissementID: etab.ID,
		Libelle:         "Concours USTM",
		PiecesRequises:  catModel.TextArray{"acte_naissance", "diplome"},
		IsActive:        true,
	}
	require.NoError(t, db.Create(c).Error)

	var got catModel.ConcoursModel
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, catModel.TextArray{"acte_naissance", "diplome"}, got.PiecesRequises)
}
