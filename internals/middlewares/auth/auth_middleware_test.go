package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gabconcours_backend/internals/constants"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(AuthJWT(secret))
	app.Get("/admin", RequireRole("admins only", constants.AdminRoles...), func(c *fiber.Ctx) error {
		id, _ := AdminID(c)
		return c.JSON(fiber.Map{"admin_id": id, "etab": EtablissementID(c)})
	})
	app.Get("/candidat", RequireRole("", constants.RoleCandidat), func(c *fiber.Ctx) error {
		n, _ := Nupcan(c)
		return c.SendString(n)
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT_AdminToken(t *testing.T) {
	etab := uint(3)
	tok, exp, err := IssueToken(secret, time.Hour, "7", constants.RoleAdmin, &etab)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	app := newApp()
	assert.Equal(t, fiber.StatusOK, call(t, app, "/admin", tok))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/candidat", tok))
}

func TestAuthJWT_CandidatToken(t *testing.T) {
	tok, _, err := IssueToken(secret, time.Hour, "GABCON-2024-1A2B3C4D", constants.RoleCandidat, nil)
	require.NoError(t, err)

	app := newApp()
	assert.Equal(t, fiber.StatusOK, call(t, app, "/candidat", tok))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/admin", tok))
}

func TestAuthJWT_Rejects(t *testing.T) {
	app := newApp()
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/admin", ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/admin", "garbage"))

	expired, _, err := IssueToken(secret, -time.Hour, "7", constants.RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/admin", expired))

	wrongKey, _, err := IssueToken("other", time.Hour, "7", constants.RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/admin", wrongKey))

	badSubject, _, err := IssueToken(secret, time.Hour, "abc", constants.RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/admin", badSubject))
}
