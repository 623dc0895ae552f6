package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortColumns = map[string]string{
	"created_at": "created_at",
	"nom":        "nomcan",
}

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "created_at", "desc", AdminOpts)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	return got
}

func TestSafeOrderClause(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"default", "", "created_at DESC"},
		{"whitelisted asc", "?sort_by=nom&order=asc", "nomcan ASC"},
		{"sort alias", "?sort_by=nom&sort=desc", "nomcan DESC"},
		{"unknown column falls back", "?sort_by=password;drop&order=asc", "created_at ASC"},
		{"bad direction", "?sort_by=nom&order=sideways", "nomcan DESC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseQuery(t, tc.query).SafeOrderClause(sortColumns, "created_at")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSafeOrderClause_MissingDefault(t *testing.T) {
	_, err := Params{SortBy: "x"}.SafeOrderClause(sortColumns, "nope")
	assert.Error(t, err)
}

func TestParseFiber_ClampsPerPage(t *testing.T) {
	p := parseQuery(t, "?page=3&per_page=9999")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, AdminOpts.MaxPerPage, p.PerPage)
	assert.Equal(t, 2*AdminOpts.MaxPerPage, p.Offset())
}
