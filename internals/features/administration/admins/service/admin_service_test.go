package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gabconcours_backend/internals/features/administration/admins/dto"
	"gabconcours_backend/internals/features/administration/admins/model"
	outboxModel "gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/middlewares/auth"
	"gabconcours_backend/internals/testutil"
)

const secret = "test-secret"

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewFullDB(t)
	mail, err := templates.New("https://gabconcours.ga", time.UTC)
	require.NoError(t, err)
	svc := New(db, mail, zerolog.Nop())
	svc.JWTSecret = secret
	return svc, db
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}

func TestCreate_HashesPasswordAndQueuesCredentials(t *testing.T) {
	svc, db := newService(t)

	m, err := svc.Create(context.Background(), dto.CreateRequest{
		Nom: "mba", Prenom: "Paul", Email: " Paul.Mba@Example.GA ",
	})
	require.NoError(t, err)
	assert.Equal(t, "MBA", m.Nom)
	assert.Equal(t, "paul.mba@example.ga", m.Email)
	assert.Equal(t, model.RoleAdmin, m.Role)
	assert.NotEmpty(t, m.Password)

	var rows []outboxModel.OutboxModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, templates.EventCredentials, rows[0].Event)
	assert.Equal(t, m.Email, rows[0].Recipient)
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	svc, db := newService(t)
	req := dto.CreateRequest{Nom: "Mba", Prenom: "Paul", Email: "paul@example.ga", Password: "s3cret-pass"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	req.Email = "PAUL@example.ga"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var n int64
	require.NoError(t, db.Model(&outboxModel.OutboxModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	etab := uint(7)
	created, err := svc.Create(context.Background(), dto.CreateRequest{
		Nom: "Obiang", Prenom: "Marie", Email: "marie@example.ga", Role: model.RoleSuperAdmin,
		EtablissementID: &etab, Password: "correct-horse",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "Marie@example.ga", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotNil(t, res.Admin.LastLoginAt)

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) { return []byte(secret), nil })
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(created.ID), 10), claims.Subject)
	assert.Equal(t, model.RoleSuperAdmin, claims.Role)
	require.NotNil(t, claims.EtablissementID)
	assert.Equal(t, etab, *claims.EtablissementID)

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "marie@example.ga", Password: "wrong"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.ga", Password: "x"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	m, err := svc.Create(context.Background(), dto.CreateRequest{Nom: "Ella", Prenom: "Jo", Email: "jo@example.ga", Password: "old-password"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), m.ID, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.ChangePassword(context.Background(), m.ID, dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}))
	got, err := svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("new-password")))
}

func TestList_Filters(t *testing.T) {
	svc, db := newService(t)
	e1, e2 := uint(1), uint(2)
	testutil.SeedAdmin(t, db, "a@example.ga", &e1)
	testutil.SeedAdmin(t, db, "b@example.ga", &e2)
	_, err := svc.Create(context.Background(), dto.CreateRequest{Nom: "Zz", Prenom: "S", Email: "s@example.ga", Role: model.RoleSuperAdmin, Password: "password1"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), dto.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byEtab, err := svc.List(context.Background(), dto.ListFilter{EtablissementID: &e2})
	require.NoError(t, err)
	require.Len(t, byEtab, 1)
	assert.Equal(t, "b@example.ga", byEtab[0].Email)

	supers, err := svc.List(context.Background(), dto.ListFilter{Role: model.RoleSuperAdmin})
	require.NoError(t, err)
	require.Len(t, supers, 1)
}
