package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gabconcours_backend/internals/configs"
	"gabconcours_backend/internals/constants"
	"gabconcours_backend/internals/features/notifications/templates"
	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/middlewares/auth"
	"gabconcours_backend/internals/testutil"
)

const secret = "test-secret"

func newApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	db := testutil.NewFullDB(t)
	c := testutil.SeedConcours(t, db, "diplome")
	cand := testutil.SeedCandidat(t, db, "GABCON-2024-0000ABCD", &c.ID)

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	mail, err := templates.New("http://localhost:5173", time.UTC)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return helper.JsonFromError(c, err)
	}})
	SetupRoutes(app, Deps{
		DB:    db,
		Cfg:   configs.AppConfig{JWTSecret: secret, JWTTTL: time.Hour, Location: time.UTC},
		Store: store,
		Mail:  mail,
		Log:   zerolog.Nop(),
	})
	return app, cand.Nupcan
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, _, err := auth.IssueToken(secret, time.Hour, subject, role, nil)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, tok, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	status, body := do(t, app, "GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
}

func TestAdminGroupGuards(t *testing.T) {
	app, nupcan := newApp(t)

	status, _ := do(t, app, "GET", "/api/a/candidats", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "GET", "/api/a/candidats", token(t, nupcan, constants.RoleCandidat), "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, "GET", "/api/a/candidats", token(t, "1", constants.RoleAdmin), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestSuperAdminOnlyRoutes(t *testing.T) {
	app, _ := newApp(t)

	status, _ := do(t, app, "GET", "/api/a/admins", token(t, "1", constants.RoleAdmin), "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, "GET", "/api/a/admins", token(t, "1", constants.RoleSuperAdmin), "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCandidatSeesOnlyOwnFile(t *testing.T) {
	app, nupcan := newApp(t)
	tok := token(t, nupcan, constants.RoleCandidat)

	status, body := do(t, app, "GET", "/api/c/candidats/"+nupcan, tok, "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, nupcan, data["nupcan"])

	status, _ = do(t, app, "GET", "/api/c/candidats/GABCON-2024-FFFFFFFF", tok, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPublicSupportAndCatalogue(t *testing.T) {
	app, _ := newApp(t)

	status, body := do(t, app, "POST", "/api/public/support", "",
		`{"nom":"Aline","email":"aline@example.ga","sujet":"Reçu","message":"Je n'ai pas reçu mon reçu"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	status, _ = do(t, app, "POST", "/api/public/support", "", `{"nom":"Aline"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = do(t, app, "GET", "/api/public/concours", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestMessagingRequiresToken(t *testing.T) {
	app, nupcan := newApp(t)

	status, _ := do(t, app, "GET", "/api/messaging-realtime/unread-count", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "GET", "/api/messaging-realtime/admin/conversations", token(t, nupcan, constants.RoleCandidat), "")
	assert.Equal(t, fiber.StatusForbidden, status)
}
