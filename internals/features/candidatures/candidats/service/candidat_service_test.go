package service

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"gabconcours_backend/internals/constants"
	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	"gabconcours_backend/internals/features/candidatures/candidats/dto"
	"gabconcours_backend/internals/features/candidatures/candidats/model"
	catModel "gabconcours_backend/internals/features/concours/catalogue/model"
	outboxModel "gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/middlewares/auth"
	"gabconcours_backend/internals/testutil"
)

var nupcanRe = regexp.MustCompile(`^GABCON-\d{4}-[0-9A-F]{8}$`)

func newService(t *testing.T) (*Service, *gorm.DB, storage.Store) {
	t.Helper()
	db := testutil.NewFullDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	mail, err := templates.New("https://gabconcours.ga", time.UTC)
	require.NoError(t, err)
	svc := New(db, time.UTC, store, mail, zerolog.Nop())
	svc.JWTSecret = "test-secret"
	return svc, db, store
}

func registerReq(concoursID *uint) dto.RegisterRequest {
	return dto.RegisterRequest{
		Nom: " ndong ", Prenom: "Aline", Email: "Aline.Ndong@Example.GA",
		Telephone: "+24107112233", DateNaissance: "2003-04-12", LieuNaissance: "Oyem",
		ConcoursID: concoursID,
	}
}

func TestNewNupcan_Format(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	a, b := NewNupcan(now), NewNupcan(now)
	assert.Regexp(t, nupcanRe, a)
	assert.True(t, strings.HasPrefix(a, "GABCON-2024-"))
	assert.NotEqual(t, a, b)
}

func TestRegister_CreatesCandidatAndQueuesInscription(t *testing.T) {
	svc, db, _ := newService(t)
	cnc := testutil.SeedConcours(t, db)

	m, err := svc.Register(context.Background(), registerReq(&cnc.ID), nil)
	require.NoError(t, err)
	assert.Regexp(t, nupcanRe, m.Nupcan)
	assert.Equal(t, "NDONG", m.Nom)
	assert.Equal(t, "aline.ndong@example.ga", m.Email)
	require.NotNil(t, m.DateNaissance)
	assert.Equal(t, "2003-04-12", m.DateNaissance.Format("2006-01-02"))

	var rows []outboxModel.OutboxModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, templates.EventInscription, rows[0].Event)
	assert.Equal(t, m.Email, rows[0].Recipient)
	assert.Contains(t, rows[0].HTML, m.Nupcan)
}

func TestRegister_StoresPhotoAsWebP(t *testing.T) {
	svc, db, store := newService(t)
	cnc := testutil.SeedConcours(t, db)
	fh := testutil.FileHeader(t, "photo", "portrait.png", testutil.PNG(t, 64, 64))

	m, err := svc.Register(context.Background(), registerReq(&cnc.ID), fh)
	require.NoError(t, err)
	require.NotEmpty(t, m.Photo)
	assert.True(t, strings.HasPrefix(m.Photo, photoDir+"/"))
	assert.True(t, strings.HasSuffix(m.Photo, ".webp"))

	ok, err := store.Exists(context.Background(), m.Photo)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_ConcoursRules(t *testing.T) {
	svc, db, _ := newService(t)
	cnc := testutil.SeedConcours(t, db)

	t.Run("concours fermé", func(t *testing.T) {
		closed := testutil.SeedConcours(t, db)
		require.NoError(t, db.Model(closed).Update("is_active", false).Error)
		_, err := svc.Register(context.Background(), registerReq(&closed.ID), nil)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("concours inconnu", func(t *testing.T) {
		id := uint(999)
		_, err := svc.Register(context.Background(), registerReq(&id), nil)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("filière hors concours", func(t *testing.T) {
		fil := &catModel.FiliereModel{Nom: "Lettres modernes"}
		require.NoError(t, db.Create(fil).Error)
		req := registerReq(&cnc.ID)
		req.FiliereID = &fil.ID
		_, err := svc.Register(context.Background(), req, nil)
		assert.ErrorIs(t, err, apperr.ErrBadRequest)

		require.NoError(t, db.Create(&catModel.ConcoursFiliereModel{ConcoursID: cnc.ID, FiliereID: fil.ID}).Error)
		m, err := svc.Register(context.Background(), req, nil)
		require.NoError(t, err)
		require.NotNil(t, m.FiliereID)
		assert.Equal(t, fil.ID, *m.FiliereID)
	})

	t.Run("filière sans concours", func(t *testing.T) {
		fid := uint(1)
		req := registerReq(nil)
		req.FiliereID = &fid
		_, err := svc.Register(context.Background(), req, nil)
		assert.ErrorIs(t, err, apperr.ErrBadRequest)
	})
}

func TestLogin(t *testing.T) {
	svc, db, _ := newService(t)
	cand := testutil.SeedCandidat(t, db, "GABCON-2024-0A0B0C0D", nil)

	res, err := svc.Login(context.Background(), dto.LoginRequest{Nupcan: cand.Nupcan, Email: strings.ToUpper(cand.Email)})
	require.NoError(t, err)
	assert.Equal(t, cand.Nupcan, res.Candidat.Nupcan)

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, cand.Nupcan, claims.Subject)
	assert.Equal(t, constants.RoleCandidat, claims.Role)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Nupcan: cand.Nupcan, Email: "autre@example.ga"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Nupcan: "GABCON-2024-FFFFFFFF", Email: cand.Email})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdate_OnlyContactFields(t *testing.T) {
	svc, db, _ := newService(t)
	cand := testutil.SeedCandidat(t, db, "GABCON-2024-11112222", nil)

	tel := " +24166000000 "
	got, err := svc.Update(context.Background(), cand.Nupcan, 7, "10.0.0.2", dto.UpdateRequest{Telephone: &tel})
	require.NoError(t, err)
	assert.Equal(t, "+24166000000", got.Telephone)
	assert.Equal(t, cand.Email, got.Email)

	_, err = svc.Update(context.Background(), "GABCON-2024-00000000", 7, "", dto.UpdateRequest{Telephone: &tel})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_RecordsAuditAction(t *testing.T) {
	svc, db, _ := newService(t)
	cand := testutil.SeedCandidat(t, db, "GABCON-2024-11113333", nil)

	tel := "+24166000001"
	_, err := svc.Update(context.Background(), cand.Nupcan, 7, "10.0.0.2", dto.UpdateRequest{Telephone: &tel})
	require.NoError(t, err)

	var rows []actionModel.AdminActionModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, actionModel.ActionAutre, rows[0].ActionType)
	assert.EqualValues(t, 7, rows[0].AdminID)
	require.NotNil(t, rows[0].CandidatNupcan)
	assert.Equal(t, cand.Nupcan, *rows[0].CandidatNupcan)
}

func TestUpdate_AuditFailureDoesNotFailUpdate(t *testing.T) {
	svc, db, _ := newService(t)
	cand := testutil.SeedCandidat(t, db, "GABCON-2024-11114444", nil)
	require.NoError(t, db.Migrator().DropTable(&actionModel.AdminActionModel{}))

	var buf bytes.Buffer
	svc.Audit.Log = zerolog.New(&buf)

	tel := "+24166000002"
	got, err := svc.Update(context.Background(), cand.Nupcan, 7, "", dto.UpdateRequest{Telephone: &tel})
	require.NoError(t, err)
	assert.Equal(t, tel, got.Telephone)
	assert.Contains(t, buf.String(), "audit record failed")
}

func TestList_SearchAndStats(t *testing.T) {
	svc, db, _ := newService(t)
	cnc := testutil.SeedConcours(t, db)
	a := testutil.SeedCandidat(t, db, "GABCON-2024-AAAA0001", &cnc.ID)
	testutil.SeedCandidat(t, db, "GABCON-2024-AAAA0002", nil)
	b := testutil.SeedCandidat(t, db, "GABCON-2024-BBBB0003", &cnc.ID)

	require.NoError(t, db.Model(&model.CandidatModel{}).Where("id = ?", a.ID).
		Update("created_at", testutil.At(2024, time.August, 30, 10, 0)).Error)
	require.NoError(t, db.Model(&model.CandidatModel{}).Where("id <> ?", a.ID).
		Update("created_at", testutil.At(2024, time.September, 2, 10, 0)).Error)

	rows, total, err := svc.Repo.List(context.Background(), dto.ListFilter{Q: "aaaa"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = svc.Repo.List(context.Background(), dto.ListFilter{ConcoursID: &cnc.ID, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, b.Nupcan, rows[0].Nupcan)

	stats, err := svc.Repo.StatsParMois(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.Equal(t, []dto.MonthStat{{Mois: "2024-09", Count: 2}, {Mois: "2024-08", Count: 1}}, stats.ParMois)
}

func TestList_OrderBy(t *testing.T) {
	svc, db, _ := newService(t)
	z := testutil.SeedCandidat(t, db, "GABCON-2024-AAAA0001", nil)
	a := testutil.SeedCandidat(t, db, "GABCON-2024-AAAA0002", nil)
	require.NoError(t, db.Model(z).Update("nomcan", "ZUE").Error)
	require.NoError(t, db.Model(a).Update("nomcan", "ABAGA").Error)

	rows, _, err := svc.Repo.List(context.Background(), dto.ListFilter{OrderBy: "nomcan ASC"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a.Nupcan, rows[0].Nupcan)

	rows, _, err = svc.Repo.List(context.Background(), dto.ListFilter{OrderBy: "nomcan DESC"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, z.Nupcan, rows[0].Nupcan)
}

func TestExportXLSX(t *testing.T) {
	svc, db, _ := newService(t)
	testutil.SeedCandidat(t, db, "GABCON-2024-CAFE0001", nil)
	testutil.SeedCandidat(t, db, "GABCON-2024-CAFE0002", nil)

	data, err := svc.ExportXLSX(context.Background(), dto.ListFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Candidats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "NUPCAN", rows[0][0])
}
