package helper

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gabconcours_backend/internals/helpers/apperr"
)

func TestJsonFromError_MapsKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", apperr.NotFound("Document introuvable"), fiber.StatusNotFound, "Document introuvable"},
		{"forbidden", apperr.Forbidden("Remplacement refusé"), fiber.StatusForbidden, "Remplacement refusé"},
		{"bad request", apperr.BadRequest("Fichier manquant"), fiber.StatusBadRequest, "Fichier manquant"},
		{"conflict", apperr.Conflict("Déjà lié"), fiber.StatusConflict, "Déjà lié"},
		{"server hides detail", apperr.Server("db", errors.New("pq: relation missing")), fiber.StatusInternalServerError, "Erreur interne du serveur"},
		{"foreign error", errors.New("boom"), fiber.StatusInternalServerError, "Erreur interne du serveur"},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return JsonFromError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(101, 2, 50)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
