package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	actionModel "gabconcours_backend/internals/features/administration/admin_actions/model"
	adminModel "gabconcours_backend/internals/features/administration/admins/model"
	candModel "gabconcours_backend/internals/features/candidatures/candidats/model"
	"gabconcours_backend/internals/features/candidatures/documents/dto"
	"gabconcours_backend/internals/features/candidatures/documents/model"
	payModel "gabconcours_backend/internals/features/candidatures/payments/model"
	outboxModel "gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/testutil"
)

type fixture struct {
	db    *gorm.DB
	svc   *Service
	store *storage.LocalStore
	cand  *candModel.CandidatModel
	admin *adminModel.AdminModel
}

func setup(t *testing.T, pieces ...string) *fixture {
	t.Helper()
	db := testutil.NewFullDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	mail, err := templates.New("https://gabconcours.ga", time.UTC)
	require.NoError(t, err)

	cnc := testutil.SeedConcours(t, db, pieces...)
	return &fixture{
		db:    db,
		svc:   New(db, time.UTC, store, mail, zerolog.Nop()),
		store: store,
		cand:  testutil.SeedCandidat(t, db, "GABCON-2024-0000AAAA", &cnc.ID),
		admin: testutil.SeedAdmin(t, db, "admin@gabconcours.ga", nil),
	}
}

func (f *fixture) upload(t *testing.T, typ, label string) *model.DocumentModel {
	t.Helper()
	fh := testutil.FileHeader(t, "file", label+".pdf", testutil.PDF(label))
	doc, err := f.svc.Upload(context.Background(), f.cand.Nupcan, dto.UploadRequest{NomDoc: label, Type: typ}, fh)
	require.NoError(t, err)
	return doc
}

func (f *fixture) decide(t *testing.T, id uint, statut, comment string) *model.DocumentModel {
	t.Helper()
	d := dto.Decision{DocumentID: id, AdminID: f.admin.ID, Statut: statut, IPAddress: "10.0.0.1"}
	if comment != "" {
		d.Commentaire = &comment
	}
	doc, err := f.svc.Decide(context.Background(), d)
	require.NoError(t, err)
	return doc
}

func (f *fixture) exists(t *testing.T, key string) bool {
	t.Helper()
	ok, err := f.store.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (f *fixture) read(t *testing.T, key string) string {
	t.Helper()
	rc, err := f.store.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) outboxEvents(t *testing.T) []string {
	t.Helper()
	var events []string
	require.NoError(t, f.db.Model(&outboxModel.OutboxModel{}).Order("id ASC").Pluck("event", &events).Error)
	return events
}

func countActions(t *testing.T, db *gorm.DB, actionType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&actionModel.AdminActionModel{}).Where("action_type = ?", actionType).Count(&n).Error)
	return n
}

/* ===== Upload ===== */

func TestUpload_StartsEnAttente(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "acte_naissance", "acte")

	assert.Equal(t, model.StatutEnAttente, doc.Statut)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.NomFichier, "documents/"+f.cand.Nupcan+"/"))
	assert.Equal(t, f.cand.ConcoursID, doc.ConcoursID)
	assert.True(t, f.exists(t, doc.NomFichier))
}

func TestUpload_UnknownCandidat(t *testing.T) {
	f := setup(t)
	fh := testutil.FileHeader(t, "file", "a.pdf", testutil.PDF("a"))
	_, err := f.svc.Upload(context.Background(), "GABCON-2024-FFFFFFFF", dto.UploadRequest{NomDoc: "a", Type: "x"}, fh)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	f := setup(t)
	fh := testutil.FileHeader(t, "file", "run.sh", []byte("#!/bin/sh\necho hi\n"))
	_, err := f.svc.Upload(context.Background(), f.cand.Nupcan, dto.UploadRequest{NomDoc: "a", Type: "x"}, fh)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

/* ===== Replace ===== */

func TestReplace_ForbiddenUnlessRejete(t *testing.T) {
	for _, statut := range []string{model.StatutEnAttente, model.StatutValide} {
		t.Run(statut, func(t *testing.T) {
			f := setup(t)
			doc := f.upload(t, "diplome", "bac")
			if statut == model.StatutValide {
				doc = f.decide(t, doc.ID, model.StatutValide, "")
			}

			fh := testutil.FileHeader(t, "file", "bac-v2.pdf", testutil.PDF("v2"))
			_, err := f.svc.Replace(context.Background(), doc.ID, f.cand.Nupcan, fh, "")
			require.ErrorIs(t, err, apperr.ErrForbidden)

			after, err := f.svc.Get(context.Background(), doc.ID)
			require.NoError(t, err)
			assert.Equal(t, statut, after.Statut)
			assert.Equal(t, doc.NomFichier, after.NomFichier)
			assert.Equal(t, testutil.PDF("bac"), []byte(f.read(t, doc.NomFichier)))
		})
	}
}

func TestReplace_RejectedThenReplaced(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	fh := testutil.FileHeader(t, "file", "bac.pdf", testutil.PDF("too early"))
	_, err := f.svc.Replace(context.Background(), doc.ID, f.cand.Nupcan, fh, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	rejected := f.decide(t, doc.ID, model.StatutRejete, "illegible scan")
	require.Equal(t, model.StatutRejete, rejected.Statut)
	require.NotNil(t, rejected.Commentaire)
	assert.Equal(t, "illegible scan", *rejected.Commentaire)
	require.NotNil(t, rejected.ValidatedBy)

	fh = testutil.FileHeader(t, "file", "bac-propre.pdf", testutil.PDF("clean"))
	replaced, err := f.svc.Replace(context.Background(), doc.ID, f.cand.Nupcan, fh, "Baccalauréat")
	require.NoError(t, err)

	assert.Equal(t, model.StatutEnAttente, replaced.Statut)
	assert.Nil(t, replaced.Commentaire)
	assert.Nil(t, replaced.ValidatedBy)
	assert.Nil(t, replaced.ValidatedAt)
	assert.Equal(t, "Baccalauréat", replaced.NomDoc)
	assert.NotEqual(t, doc.NomFichier, replaced.NomFichier)

	assert.Equal(t, string(testutil.PDF("clean")), f.read(t, replaced.NomFichier))
	assert.False(t, f.exists(t, doc.NomFichier), "old file must leave its path")
}

func TestReplace_OtherCandidatForbidden(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	f.decide(t, doc.ID, model.StatutRejete, "flou")

	other := testutil.SeedCandidat(t, f.db, "GABCON-2024-0000BBBB", nil)
	fh := testutil.FileHeader(t, "file", "x.pdf", testutil.PDF("x"))
	_, err := f.svc.Replace(context.Background(), doc.ID, other.Nupcan, fh, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	after, _ := f.svc.Get(context.Background(), doc.ID)
	assert.Equal(t, model.StatutRejete, after.Statut)
}

func TestReplace_MissingFileAndUnknownDocument(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Replace(context.Background(), 1, f.cand.Nupcan, nil, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	fh := testutil.FileHeader(t, "file", "x.pdf", testutil.PDF("x"))
	_, err = f.svc.Replace(context.Background(), 999, f.cand.Nupcan, fh, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// racingStore membiarkan request lain "menang" tepat setelah berkas baru tersimpan.
type racingStore struct {
	storage.Store
	afterPut func()
	putKeys  []string
}

func (s *racingStore) Put(ctx context.Context, key string, r io.Reader, ct string) error {
	if err := s.Store.Put(ctx, key, r, ct); err != nil {
		return err
	}
	s.putKeys = append(s.putKeys, key)
	if s.afterPut != nil {
		s.afterPut()
	}
	return nil
}

func TestReplace_LosingConcurrentRequestIsForbiddenAndCleansUp(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	f.decide(t, doc.ID, model.StatutRejete, "flou")

	rs := &racingStore{Store: f.store}
	rs.afterPut = func() {
		require.NoError(t, f.db.Model(&model.DocumentModel{}).Where("id = ?", doc.ID).
			Update("statut", model.StatutEnAttente).Error)
	}
	f.svc.Store = rs

	fh := testutil.FileHeader(t, "file", "bac2.pdf", testutil.PDF("late"))
	_, err := f.svc.Replace(context.Background(), doc.ID, f.cand.Nupcan, fh, "")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	require.Len(t, rs.putKeys, 1)
	assert.False(t, f.exists(t, rs.putKeys[0]), "loser's new file is removed")
	assert.True(t, f.exists(t, doc.NomFichier), "current file untouched")
}

/* ===== Decide ===== */

func TestDecide_WritesAuditAndNotificationTogether(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	got := f.decide(t, doc.ID, model.StatutValide, "")
	assert.Equal(t, model.StatutValide, got.Statut)
	require.NotNil(t, got.ValidatedBy)
	assert.Equal(t, f.admin.ID, *got.ValidatedBy)
	assert.NotNil(t, got.ValidatedAt)

	var a actionModel.AdminActionModel
	require.NoError(t, f.db.First(&a).Error)
	assert.Equal(t, actionModel.ActionValidationDocument, a.ActionType)
	assert.Equal(t, f.admin.ID, a.AdminID)
	require.NotNil(t, a.EntityID)
	assert.Equal(t, doc.ID, *a.EntityID)
	require.NotNil(t, a.CandidatNupcan)
	assert.Equal(t, f.cand.Nupcan, *a.CandidatNupcan)

	assert.Equal(t, []string{templates.EventDocumentValide}, f.outboxEvents(t))
}

func TestDecide_RollsBackWhenNotificationCannotBeQueued(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	require.NoError(t, f.db.Migrator().DropTable(&outboxModel.OutboxModel{}))

	_, err := f.svc.Decide(context.Background(), dto.Decision{DocumentID: doc.ID, AdminID: f.admin.ID, Statut: model.StatutValide})
	require.Error(t, err)

	after, err := f.svc.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatutEnAttente, after.Statut)
	assert.Zero(t, countActions(t, f.db, actionModel.ActionValidationDocument))
}

func TestDecide_RejectWithoutCommentIsAccepted(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	got := f.decide(t, doc.ID, model.StatutRejete, "")
	assert.Equal(t, model.StatutRejete, got.Statut)
	assert.Nil(t, got.Commentaire)
	assert.EqualValues(t, 1, countActions(t, f.db, actionModel.ActionRejetDocument))
	assert.Equal(t, []string{templates.EventDocumentRejete}, f.outboxEvents(t))
}

func TestDecide_InvalidInput(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	_, err := f.svc.Decide(context.Background(), dto.Decision{DocumentID: doc.ID, AdminID: f.admin.ID, Statut: model.StatutEnAttente})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = f.svc.Decide(context.Background(), dto.Decision{DocumentID: 999, AdminID: f.admin.ID, Statut: model.StatutValide})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDecide_CompletingCandidatureQueuesOneNotification(t *testing.T) {
	f := setup(t, "acte_naissance", "diplome")
	require.NoError(t, f.db.Create(&payModel.PaymentModel{
		Nupcan: f.cand.Nupcan, ConcoursID: *f.cand.ConcoursID, Montant: 15000,
		Methode: payModel.MethodeAirtelMoney, Statut: payModel.StatutValide, Reference: "AM-001",
	}).Error)

	acte := f.upload(t, "acte_naissance", "acte")
	bac := f.upload(t, "diplome", "bac")

	f.decide(t, acte.ID, model.StatutValide, "")
	assert.Equal(t, []string{templates.EventDocumentValide}, f.outboxEvents(t))

	f.decide(t, bac.ID, model.StatutValide, "")
	assert.Equal(t, []string{
		templates.EventDocumentValide,
		templates.EventDocumentValide,
		templates.EventCandidatureComplete,
	}, f.outboxEvents(t))

	// keputusan ulang tidak mengirim candidature_complete kedua
	f.decide(t, bac.ID, model.StatutValide, "")
	events := f.outboxEvents(t)
	n := 0
	for _, e := range events {
		if e == templates.EventCandidatureComplete {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

/* ===== UpdateMetadata ===== */

func TestUpdateMetadata_FreeFields(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	nom, typ := "Relevé de notes", "releve"
	got, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID, dto.UpdateMetadataRequest{NomDoc: &nom, Type: &typ}, "")
	require.NoError(t, err)
	assert.Equal(t, nom, got.NomDoc)
	assert.Equal(t, typ, got.Type)
	assert.Equal(t, model.StatutEnAttente, got.Statut)
	assert.Empty(t, f.outboxEvents(t))
}

func TestUpdateMetadata_StatutRoutesThroughDecide(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	st, comment := model.StatutRejete, "pages manquantes"
	got, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID,
		dto.UpdateMetadataRequest{Statut: &st, Commentaire: &comment}, "10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, model.StatutRejete, got.Statut)
	require.NotNil(t, got.Commentaire)
	assert.Equal(t, comment, *got.Commentaire)
	assert.EqualValues(t, 1, countActions(t, f.db, actionModel.ActionRejetDocument))
	assert.Equal(t, []string{templates.EventDocumentRejete}, f.outboxEvents(t))
}

func TestUpdateMetadata_EnAttenteIsForbidden(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	f.decide(t, doc.ID, model.StatutRejete, "flou")

	st := model.StatutEnAttente
	_, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID, dto.UpdateMetadataRequest{Statut: &st}, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	after, _ := f.svc.Get(context.Background(), doc.ID)
	assert.Equal(t, model.StatutRejete, after.Statut)
}

func TestUpdateMetadata_FieldsRollBackWithFailedDecision(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	require.NoError(t, f.db.Migrator().DropTable(&actionModel.AdminActionModel{}))

	nom, st := "Baccalauréat série C", model.StatutValide
	_, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID,
		dto.UpdateMetadataRequest{NomDoc: &nom, Statut: &st}, "")
	require.Error(t, err)

	after, err := f.svc.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "bac", after.NomDoc)
	assert.Equal(t, model.StatutEnAttente, after.Statut)
	assert.Empty(t, f.outboxEvents(t))
}

func TestUpdateMetadata_NomdocAppliedWithDecision(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")

	nom, st := "Baccalauréat série C", model.StatutValide
	got, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID,
		dto.UpdateMetadataRequest{NomDoc: &nom, Statut: &st}, "")
	require.NoError(t, err)
	assert.Equal(t, nom, got.NomDoc)
	assert.Equal(t, model.StatutValide, got.Statut)

	var a actionModel.AdminActionModel
	require.NoError(t, f.db.Where("action_type = ?", actionModel.ActionValidationDocument).First(&a).Error)
	assert.Contains(t, a.Description, nom)
}

func TestUpdateMetadata_BlankCommentaireIsNull(t *testing.T) {
	f := setup(t)
	doc := f.upload(t, "diplome", "bac")
	f.decide(t, doc.ID, model.StatutRejete, "flou")

	blank := "   "
	got, err := f.svc.UpdateMetadata(context.Background(), doc.ID, f.admin.ID, dto.UpdateMetadataRequest{Commentaire: &blank}, "")
	require.NoError(t, err)
	assert.Nil(t, got.Commentaire)

	var n int64
	require.NoError(t, f.db.Model(&model.DocumentModel{}).Where("id = ? AND commentaire IS NULL", doc.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
