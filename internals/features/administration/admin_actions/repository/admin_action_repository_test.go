package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	adminModel "gabconcours_backend/internals/features/administration/admins/model"
	"gabconcours_backend/internals/features/administration/admin_actions/dto"
	"gabconcours_backend/internals/features/administration/admin_actions/model"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/testutil"
)

func newRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &adminModel.AdminModel{}, &model.AdminActionModel{})
	return New(db, time.UTC), db
}

func at(y int, m time.Month, d, h int) time.Time { return time.Date(y, m, d, h, 0, 0, 0, time.UTC) }

func insert(t *testing.T, db *gorm.DB, adminID uint, actionType, nupcan string, ts time.Time) model.AdminActionModel {
	t.Helper()
	m := model.AdminActionModel{AdminID: adminID, ActionType: actionType, Description: actionType, CreatedAt: ts}
	if nupcan != "" {
		m.CandidatNupcan = &nupcan
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func uintPtr(v uint) *uint { return &v }

func TestRecord_RequiresFields(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.Record(ctx, dto.Entry{ActionType: model.ActionAutre, Description: "x"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	_, err = r.Record(ctx, dto.Entry{AdminID: 1, ActionType: "delete_everything", Description: "x"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	_, err = r.Record(ctx, dto.Entry{AdminID: 1, ActionType: model.ActionAutre, Description: "  "})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestRecord_DetailsRoundTrip(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	docID := uint(9)

	m, err := r.Record(ctx, dto.Entry{
		AdminID:        1,
		ActionType:     model.ActionRejetDocument,
		EntityType:     "document",
		EntityID:       &docID,
		CandidatNupcan: "GABCON-2024-AAAA0001",
		Description:    "Document rejeté",
		Details:        map[string]any{"commentaire": "illisible", "ancien_statut": "en_attente"},
		IPAddress:      "10.0.0.1",
	})
	require.NoError(t, err)

	rows, err := r.FindByCandidat(ctx, "GABCON-2024-AAAA0001")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, m.ID, rows[0].ID)

	details, err := DecodeDetails(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "illisible", details["commentaire"])
	require.NotNil(t, rows[0].IPAddress)
	assert.Equal(t, "10.0.0.1", *rows[0].IPAddress)
}

func TestQuery_FiltersAreConjunctiveAndNewestFirst(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	insert(t, db, 5, model.ActionRejetDocument, "", at(2024, 1, 1, 9))
	insert(t, db, 5, model.ActionValidationDocument, "", at(2024, 1, 1, 10))
	insert(t, db, 6, model.ActionRejetDocument, "", at(2024, 1, 1, 11))
	latest := insert(t, db, 5, model.ActionRejetDocument, "", at(2024, 1, 3, 8))

	rows, err := r.Query(ctx, dto.Filter{AdminID: uintPtr(5), ActionType: model.ActionRejetDocument})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, a := range rows {
		assert.Equal(t, uint(5), a.AdminID)
		assert.Equal(t, model.ActionRejetDocument, a.ActionType)
	}
	assert.Equal(t, latest.ID, rows[0].ID)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	// tanpa filter = tanpa batasan
	all, err := r.Query(ctx, dto.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	limited, err := r.Query(ctx, dto.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, latest.ID, limited[0].ID)
}

func TestQuery_DateRangeIsInclusive(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	insert(t, db, 1, model.ActionAutre, "", at(2023, 12, 31, 23))
	insert(t, db, 1, model.ActionAutre, "", at(2024, 1, 1, 0))
	insert(t, db, 1, model.ActionAutre, "", time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC))
	insert(t, db, 1, model.ActionAutre, "", at(2024, 1, 3, 0))

	start := at(2024, 1, 1, 0)
	end := at(2024, 1, 2, 0)
	rows, err := r.Query(ctx, dto.Filter{DateDebut: &start, DateFin: &end})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestQuery_EtablissementJoin(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	etabA, etabB := uint(1), uint(2)
	a1 := adminModel.AdminModel{Nom: "A", Prenom: "a", Email: "a@x.ga", Password: "x", Role: "admin", EtablissementID: &etabA}
	b1 := adminModel.AdminModel{Nom: "B", Prenom: "b", Email: "b@x.ga", Password: "x", Role: "admin", EtablissementID: &etabB}
	require.NoError(t, db.Create(&a1).Error)
	require.NoError(t, db.Create(&b1).Error)

	insert(t, db, a1.ID, model.ActionAutre, "", at(2024, 1, 1, 1))
	insert(t, db, b1.ID, model.ActionAutre, "", at(2024, 1, 1, 2))

	rows, err := r.Query(ctx, dto.Filter{EtablissementID: &etabA})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a1.ID, rows[0].AdminID)

	withAdmin, err := r.QueryWithAdmin(ctx, dto.Filter{EtablissementID: &etabB})
	require.NoError(t, err)
	require.Len(t, withAdmin, 1)
	assert.Equal(t, "B", withAdmin[0].AdminNom)
}

func TestQueryWithAdmin_MissingAdminKeepsRow(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	known := adminModel.AdminModel{Nom: "OBAME", Prenom: "Luc", Email: "luc@x.ga", Password: "x", Role: "admin"}
	require.NoError(t, db.Create(&known).Error)
	insert(t, db, known.ID, model.ActionAutre, "", at(2024, 2, 1, 9))
	insert(t, db, 999, model.ActionAutre, "", at(2024, 2, 1, 10))

	rows, err := r.QueryWithAdmin(ctx, dto.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(999), rows[0].AdminID)
	assert.Empty(t, rows[0].AdminNom)
	assert.Equal(t, "OBAME", rows[1].AdminNom)
	assert.Equal(t, "Luc", rows[1].AdminPrenom)
}

func TestAggregate_GroupsByDay(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	insert(t, db, 1, model.ActionValidationDocument, "", at(2024, 1, 1, 8))
	insert(t, db, 1, model.ActionValidationDocument, "", at(2024, 1, 1, 9))
	insert(t, db, 1, model.ActionRejetDocument, "", at(2024, 1, 1, 10))
	insert(t, db, 2, model.ActionAjoutNote, "", at(2024, 1, 2, 10))

	stats, err := r.Aggregate(ctx, dto.Filter{})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-01-02", stats[0].Date)
	assert.Equal(t, "2024-01-01", stats[1].Date)
	for _, s := range stats {
		assert.LessOrEqual(t, s.Validations+s.Rejets+s.Notes+s.ReponsesMessages, s.TotalActions)
	}
	assert.Equal(t, 3, stats[1].TotalActions)
	assert.Equal(t, 1, stats[0].TotalActions)

	// admin 1 saja: satu baris 2024-01-01
	byAdmin, err := r.Aggregate(ctx, dto.Filter{AdminID: uintPtr(1)})
	require.NoError(t, err)
	require.Len(t, byAdmin, 1)
	assert.Equal(t, dto.DailyStat{Date: "2024-01-01", TotalActions: 3, Validations: 2, Rejets: 1}, byAdmin[0])
}

func TestAggregate_UsesCalendarDayOfLocation(t *testing.T) {
	_, db := newRepo(t)
	libreville := time.FixedZone("WAT", 3600)
	r := New(db, libreville)

	// 23:30 UTC = 00:30 keesokan harinya di UTC+1
	insert(t, db, 1, model.ActionAutre, "", time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC))

	stats, err := r.Aggregate(context.Background(), dto.Filter{})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2024-01-02", stats[0].Date)
}

func TestFindByCandidat_Idempotent(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	nupcan := "GABCON-2024-BBBB0002"

	insert(t, db, 1, model.ActionValidationDocument, nupcan, at(2024, 2, 1, 8))
	insert(t, db, 2, model.ActionRejetDocument, nupcan, at(2024, 2, 1, 8))
	insert(t, db, 1, model.ActionAjoutNote, "GABCON-2024-OTHER000", at(2024, 2, 1, 9))

	first, err := r.FindByCandidat(ctx, nupcan)
	require.NoError(t, err)
	second, err := r.FindByCandidat(ctx, nupcan)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)

	_, err = r.FindByCandidat(ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}
