package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peopledesk/internal/apperror"
	"peopledesk/internal/testutil"
)

func TestAuthenticatedRejectsAnonymousRequests(t *testing.T) {
	app := fiber.New()
	sessions := session.New()
	db := testutil.NewFakeStore()

	app.Get("/protected", Authenticated(sessions, db), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), string(apperror.KindUnauthenticated))
}
